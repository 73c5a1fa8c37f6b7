package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// ErrLoopClosed la sesión ya no acepta tareas.
var ErrLoopClosed = errors.New("loop cerrado")

var _ Scheduler = (*Loop)(nil)

// Loop ejecutor de producción: una goroutine consume una cola FIFO sin límite.
// Post es seguro desde cualquier goroutine; las tareas nunca se ejecutan en paralelo.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffer 1: coalesce avisos
	done   chan struct{}
	log    *logger.Logger
}

// NewLoop construye el loop; Run debe lanzarse en su propia goroutine.
func NewLoop(log *logger.Logger) *Loop {
	if log == nil {
		log = logger.Nop()
	}
	return &Loop{
		tasks:  make([]func(), 0, 32),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Post encola task. En un loop cerrado la tarea se descarta.
func (l *Loop) Post(task func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.tasks = append(l.tasks, task)
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

// Go lanza work en una goroutine.
func (l *Loop) Go(work func()) {
	go work()
}

// AfterFunc programa task sobre el loop.
func (l *Loop) AfterFunc(d time.Duration, task func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped {
				return
			}
			t.fired = true
			task()
		})
	})
	return t
}

// Call ejecuta fn en el loop y espera a que termine. Lo usan los handlers HTTP para leer o mutar
// el estado de los view models sin compartir memoria.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.mu.Unlock()
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consume la cola hasta que ctx se cancela o se llama Close.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		for {
			task, ok := l.next()
			if !ok {
				break
			}
			l.exec(task)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.signal:
		}
	}
}

// Close detiene el loop y descarta las tareas pendientes. Idempotente.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.tasks = nil
	close(l.done)
}

// Done se cierra cuando el loop termina.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

// exec aísla pánicos: un handler roto no tumba la sesión.
func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Err(fmt.Errorf("%v", r)).Msg("pánico en tarea del loop")
		}
	}()
	task()
}

type loopTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
