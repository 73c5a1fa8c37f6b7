// Package testutil contiene dobles de prueba compartidos entre paquetes.
package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
)

var _ cart.Scheduler = (*ManualScheduler)(nil)

// ManualScheduler Scheduler determinista para tests: el tiempo solo avanza con Advance y el
// trabajo de I/O (Go) queda retenido hasta Flush o RunIO, lo que permite observar los estados
// intermedios (escrituras en vuelo).
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	tasks  []func()
	io     []func()
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	s       *ManualScheduler
	due     time.Time
	seq     int
	task    func()
	stopped bool
	fired   bool
}

// NewManualScheduler arranca el reloj en una fecha fija.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now tiempo simulado actual.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Post encola una tarea del hilo lógico.
func (s *ManualScheduler) Post(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
}

// Go retiene el trabajo de I/O hasta RunIO o Flush.
func (s *ManualScheduler) Go(work func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.io = append(s.io, work)
}

// AfterFunc programa task para now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, task func()) cart.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, due: s.now.Add(d), seq: s.seq, task: task}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// RunUntilIdle ejecuta tareas del hilo lógico hasta vaciar la cola (sin I/O ni timers).
func (s *ManualScheduler) RunUntilIdle() {
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.mu.Unlock()
		task()
	}
}

// RunNext ejecuta solo la primera tarea encolada del hilo lógico. Devuelve false si no había.
func (s *ManualScheduler) RunNext() bool {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return false
	}
	task := s.tasks[0]
	s.tasks = s.tasks[1:]
	s.mu.Unlock()
	task()
	return true
}

// PendingTasks número de tareas del hilo lógico en cola.
func (s *ManualScheduler) PendingTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// RunIO ejecuta el I/O retenido en este momento (en orden) y luego las tareas resultantes.
func (s *ManualScheduler) RunIO() {
	s.RunUntilIdle()
	s.mu.Lock()
	pending := s.io
	s.io = nil
	s.mu.Unlock()
	for _, w := range pending {
		w()
		s.RunUntilIdle()
	}
}

// RunNewestIO ejecuta solo el último I/O retenido y luego las tareas resultantes. Sirve para
// invertir el orden de llegada de dos respuestas.
func (s *ManualScheduler) RunNewestIO() bool {
	s.RunUntilIdle()
	s.mu.Lock()
	if len(s.io) == 0 {
		s.mu.Unlock()
		return false
	}
	w := s.io[len(s.io)-1]
	s.io = s.io[:len(s.io)-1]
	s.mu.Unlock()
	w()
	s.RunUntilIdle()
	return true
}

// Flush ejecuta tareas e I/O hasta que no quede nada pendiente (los timers no avanzan).
func (s *ManualScheduler) Flush() {
	for {
		s.RunUntilIdle()
		s.mu.Lock()
		if len(s.io) == 0 {
			s.mu.Unlock()
			return
		}
		w := s.io[0]
		s.io = s.io[1:]
		s.mu.Unlock()
		w()
	}
}

// Advance mueve el reloj d, disparando en orden los timers vencidos y ejecutando sus tareas.
// El I/O que generen queda retenido.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()
	s.RunUntilIdle()
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.RunUntilIdle()
		t.task()
		s.RunUntilIdle()
	}
	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// PendingIO número de trabajos de I/O retenidos.
func (s *ManualScheduler) PendingIO() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.io)
}

// ActiveTimers número de timers sin disparar ni detener.
func (s *ManualScheduler) ActiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDue(target time.Time) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})
	if len(s.timers) == 0 || s.timers[0].due.After(target) {
		return nil
	}
	t := s.timers[0]
	t.fired = true
	s.now = t.due
	return t
}
