package cart

import (
	"sync"
	"sync/atomic"

	"github.com/jhoicas/laptophub-storefront/internal/domain/event"
)

// Broadcaster difunde ChangeEvent a los observadores suscritos (fire-and-forget).
// Cada entrega se encola en el Scheduler del observador, por lo que cada uno recibe los eventos
// en el orden de emisión. Quien no está suscrito al publicar no recibe nada.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   []*subscriber
}

type subscriber struct {
	id      int
	sched   Scheduler
	origin  string
	handler func(event.ChangeEvent)
	active  atomic.Bool
}

// NewBroadcaster construye un canal de difusión vacío.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registra handler, que se ejecutará en sched. origin identifica a la superficie:
// los parches ItemUpdated que ella misma originó no se le entregan; Refresh siempre se entrega.
// Devuelve la función para cancelar la suscripción.
func (b *Broadcaster) Subscribe(sched Scheduler, origin string, handler func(event.ChangeEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s := &subscriber{id: b.nextID, sched: sched, origin: origin, handler: handler}
	s.active.Store(true)
	b.subs = append(b.subs, s)
	return func() { b.unsubscribe(s.id) }
}

// Publish entrega ev a todos los suscriptores actuales.
func (b *Broadcaster) Publish(ev event.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if ev.Kind == event.KindItemUpdated && s.origin != "" && s.origin == ev.Origin {
			continue
		}
		s := s
		s.sched.Post(func() {
			if s.active.Load() {
				s.handler(ev)
			}
		})
	}
}

// Subscribers número de suscriptores activos.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broadcaster) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			s.active.Store(false)
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
