package cart

import (
	"context"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// DefaultDebounce ventana de asentamiento por ítem.
const DefaultDebounce = 300 * time.Millisecond

// Phase estado de un ítem en la máquina Idle → PendingLocal → Sending → Idle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePendingLocal
	PhaseSending
)

func (p Phase) String() string {
	switch p {
	case PhasePendingLocal:
		return "pending"
	case PhaseSending:
		return "sending"
	default:
		return "idle"
	}
}

// QuantityWriter escritura remota de cantidades (RemoteClient).
type QuantityWriter interface {
	UpdateItemQuantity(ctx context.Context, origin string, itemID int64, quantity int) (int, error)
}

// trackerHost superficie dueña de la lista de ítems.
type trackerHost interface {
	item(itemID int64) *entity.CartItem
	recompute()
	reload()
}

type itemState struct {
	phase     Phase
	timer     Timer
	pending   int    // última cantidad registrada
	requested int    // cantidad en vuelo (0 = ninguna)
	dirty     bool   // hubo una edición nueva mientras había una escritura en vuelo
	held      bool   // congelado por un borrado en curso
	gen       uint64 // generación de la escritura en vuelo
}

// Tracker convierte ráfagas de ediciones en una sola escritura por ítem y reconcilia la respuesta.
// Solo se usa desde el hilo lógico del Scheduler.
type Tracker struct {
	ctx      context.Context
	sched    Scheduler
	writer   QuantityWriter
	host     trackerHost
	origin   string
	debounce time.Duration
	states   map[int64]*itemState
	gen      uint64
	log      *logger.Logger
}

func newTracker(ctx context.Context, sched Scheduler, writer QuantityWriter, host trackerHost, origin string, debounce time.Duration, log *logger.Logger) *Tracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Tracker{
		ctx:      ctx,
		sched:    sched,
		writer:   writer,
		host:     host,
		origin:   origin,
		debounce: debounce,
		states:   make(map[int64]*itemState),
		log:      log,
	}
}

// Phase estado actual del ítem.
func (t *Tracker) Phase(itemID int64) Phase {
	if st, ok := t.states[itemID]; ok {
		return st.phase
	}
	return PhaseIdle
}

// Busy true si hay una edición local pendiente o una escritura en vuelo para el ítem;
// en ese caso los parches ItemUpdated de ese ítem se descartan.
func (t *Tracker) Busy(itemID int64) bool {
	return t.Phase(itemID) != PhaseIdle
}

// RecordEdit acota la cantidad a [1, stock], la muestra de inmediato y (re)inicia el debounce del ítem.
// Devuelve la cantidad acotada y false si el ítem no existe.
func (t *Tracker) RecordEdit(itemID int64, requested int) (int, bool) {
	it := t.host.item(itemID)
	if it == nil {
		return 0, false
	}
	q := entity.ClampQuantity(requested, it.Product.Stock)
	it.PendingQuantity = &q

	st := t.states[itemID]
	if st == nil {
		st = &itemState{}
		t.states[itemID] = st
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	st.pending = q
	if st.phase == PhaseIdle {
		st.phase = PhasePendingLocal
	}
	st.timer = t.sched.AfterFunc(t.debounce, func() { t.fire(itemID, st) })
	return q, true
}

// Cancel descarta la edición pendiente (timer) del ítem; una escritura en vuelo sigue su curso.
func (t *Tracker) Cancel(itemID int64) {
	st, ok := t.states[itemID]
	if !ok {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.dirty = false
	if st.phase == PhasePendingLocal {
		delete(t.states, itemID)
		if it := t.host.item(itemID); it != nil {
			it.PendingQuantity = nil
		}
	}
}

// Hold congela la edición del ítem mientras se resuelve su borrado: detiene el timer y conserva
// la cantidad pendiente hasta Resume o Cancel.
func (t *Tracker) Hold(itemID int64) {
	st, ok := t.states[itemID]
	if !ok {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
		if st.phase == PhaseSending {
			st.dirty = true
		}
	}
	st.held = true
}

// Resume reanuda una edición congelada; el debounce empieza de nuevo.
func (t *Tracker) Resume(itemID int64) {
	st, ok := t.states[itemID]
	if !ok || !st.held {
		return
	}
	st.held = false
	if st.phase == PhasePendingLocal && st.timer == nil {
		st.timer = t.sched.AfterFunc(t.debounce, func() { t.fire(itemID, st) })
	}
}

// CancelAll detiene todos los timers (desmontaje de la página).
func (t *Tracker) CancelAll() {
	for id, st := range t.states {
		if st.timer != nil {
			st.timer.Stop()
		}
		delete(t.states, id)
	}
}

// Reconcile reaplica el estado optimista sobre una lista recién cargada y olvida los ítems
// que ya no existen: sus escrituras en vuelo se ignorarán al completar.
func (t *Tracker) Reconcile(c *entity.Cart) {
	for id, st := range t.states {
		i := c.IndexOf(id)
		if i < 0 {
			if st.timer != nil {
				st.timer.Stop()
			}
			delete(t.states, id)
			continue
		}
		it := &c.Items[i]
		q := entity.ClampQuantity(st.pending, it.Product.Stock)
		st.pending = q
		it.PendingQuantity = &q
		it.Updating = st.phase == PhaseSending
	}
}

func (t *Tracker) fire(itemID int64, st *itemState) {
	if t.states[itemID] != st {
		return
	}
	st.timer = nil
	if t.host.item(itemID) == nil {
		delete(t.states, itemID)
		return
	}
	if st.phase == PhaseSending {
		// Una sola escritura autoritativa en vuelo: se reenvía al completar.
		st.dirty = true
		return
	}
	t.send(itemID, st)
}

func (t *Tracker) send(itemID int64, st *itemState) {
	it := t.host.item(itemID)
	if it == nil {
		delete(t.states, itemID)
		return
	}
	qty := st.pending
	t.gen++
	gen := t.gen
	st.phase = PhaseSending
	st.requested = qty
	st.gen = gen
	it.Updating = true

	t.log.Debug().Int64("item_id", itemID).Int("cantidad", qty).Msg("enviando cantidad")
	t.sched.Go(func() {
		confirmed, err := t.writer.UpdateItemQuantity(t.ctx, t.origin, itemID, qty)
		t.sched.Post(func() { t.complete(itemID, gen, confirmed, err) })
	})
}

func (t *Tracker) complete(itemID int64, gen uint64, confirmed int, err error) {
	st, ok := t.states[itemID]
	if !ok || st.gen != gen || st.phase != PhaseSending {
		t.log.Debug().Int64("item_id", itemID).Msg("respuesta obsoleta descartada")
		return
	}
	st.requested = 0
	it := t.host.item(itemID)

	if err != nil {
		t.log.Warn().Err(err).Int64("item_id", itemID).Msg("error al actualizar la cantidad; recargando")
		if st.timer != nil {
			st.timer.Stop()
		}
		delete(t.states, itemID)
		if it != nil {
			it.Updating = false
			it.PendingQuantity = nil
		}
		t.host.reload()
		return
	}
	if it == nil {
		delete(t.states, itemID)
		return
	}

	it.Quantity = confirmed
	it.Updating = false
	switch {
	case st.held && st.dirty:
		// Se reenvía en Resume si el borrado falla.
		st.dirty = false
		st.phase = PhasePendingLocal
	case st.dirty:
		st.dirty = false
		t.send(itemID, st)
	case st.timer != nil:
		st.phase = PhasePendingLocal
	default:
		delete(t.states, itemID)
		it.PendingQuantity = nil
	}
	t.host.recompute()
}
