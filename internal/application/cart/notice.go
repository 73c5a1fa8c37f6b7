package cart

import "time"

// NoticeKind tipo de aviso visible.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
	// NoticeStock aviso bloqueante de stock insuficiente previo a la recarga forzada.
	NoticeStock NoticeKind = "stock"
)

// Textos visibles.
const (
	msgRemoveFailed   = "No se pudo eliminar el item. Intenta nuevamente."
	msgStockTitle     = "Ya no hay suficientes unidades disponibles"
	msgStockAdjusting = "Se están ajustando las unidades del carrito para reflejar el stock disponible."
)

// MsgAddedToCart confirmación al agregar un producto desde el catálogo o el detalle.
const MsgAddedToCart = "Producto agregado al carrito"

// Notice aviso mostrado por un view model. Blocking impide interactuar hasta que desaparece.
type Notice struct {
	Kind     NoticeKind
	Title    string
	Message  string
	Blocking bool
	Until    time.Time // cero = hasta que otra acción lo retire
}

// noticeSlot mantiene un aviso y su auto-ocultado.
type noticeSlot struct {
	sched   Scheduler
	current *Notice
	timer   Timer
	now     func() time.Time
}

func (s *noticeSlot) show(n Notice, d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if d > 0 {
		n.Until = s.now().Add(d)
	}
	s.current = &n
	if d <= 0 {
		return
	}
	shown := s.current
	s.timer = s.sched.AfterFunc(d, func() {
		if s.current == shown {
			s.current = nil
		}
		s.timer = nil
	})
}

func (s *noticeSlot) clear() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.current = nil
}

func (s *noticeSlot) get() *Notice {
	if s.current == nil {
		return nil
	}
	n := *s.current
	return &n
}
