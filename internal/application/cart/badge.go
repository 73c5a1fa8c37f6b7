package cart

import (
	"context"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/event"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

// OriginBadge identifica al resumen del header en los eventos de cambio.
const OriginBadge = "cart.badge"

// BadgeViewModel resumen independiente del header (unidades y total). Tiene su propia copia del
// carrito; nunca bloquea ni toca el estado de la página.
type BadgeViewModel struct {
	ctx         context.Context
	sched       Scheduler
	remote      *RemoteClient
	log         *logger.Logger
	cart        entity.Cart
	visible     bool
	loadSeq     uint64
	appliedSeq  uint64
	unsubscribe func()
}

// NewBadgeViewModel construye el resumen del header.
func NewBadgeViewModel(ctx context.Context, sched Scheduler, remote *RemoteClient, log *logger.Logger) *BadgeViewModel {
	if log == nil {
		log = logger.Nop()
	}
	return &BadgeViewModel{ctx: ctx, sched: sched, remote: remote, log: log}
}

// Mount se suscribe a los cambios y carga el resumen.
func (b *BadgeViewModel) Mount() {
	if b.unsubscribe == nil {
		b.unsubscribe = b.remote.Changes().Subscribe(b.sched, OriginBadge, b.onChange)
	}
	b.Load()
}

// Unmount cancela la suscripción.
func (b *BadgeViewModel) Unmount() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

// Load pide el carrito; un error de red deja el resumen en cero.
func (b *BadgeViewModel) Load() {
	b.loadSeq++
	seq := b.loadSeq
	b.sched.Go(func() {
		c, err := b.remote.GetCart(b.ctx)
		b.sched.Post(func() { b.apply(seq, c, err) })
	})
}

func (b *BadgeViewModel) apply(seq uint64, c *entity.Cart, err error) {
	if seq <= b.appliedSeq {
		return
	}
	b.appliedSeq = seq
	if err != nil || c == nil {
		if err != nil {
			b.log.Debug().Err(err).Msg("resumen del carrito no disponible")
		}
		b.cart = entity.Cart{}
		return
	}
	b.cart = c.Clone()
	b.cart.Recalculate()
}

// SetVisible muestra u oculta el desplegable; solo la transición a visible recarga.
func (b *BadgeViewModel) SetVisible(visible bool) {
	if visible && !b.visible {
		b.Load()
	}
	b.visible = visible
}

// Visible estado del desplegable.
func (b *BadgeViewModel) Visible() bool {
	return b.visible
}

func (b *BadgeViewModel) onChange(ev event.ChangeEvent) {
	switch ev.Kind {
	case event.KindRefresh:
		// El contador se muestra con o sin desplegable.
		b.Load()
	case event.KindItemUpdated:
		// El parche se aplica en el turno siguiente, nunca durante el mismo pase que lee el estado.
		b.sched.Post(func() { b.patch(ev.ItemID, ev.Quantity) })
	}
}

func (b *BadgeViewModel) patch(itemID int64, quantity int) {
	i := b.cart.IndexOf(itemID)
	if i < 0 {
		return
	}
	b.cart.Items[i].Quantity = quantity
	b.cart.Recalculate()
}

// View resumen para el header.
func (b *BadgeViewModel) View() dto.BadgeView {
	v := dto.BadgeView{
		Unidades:        b.cart.Count(),
		Total:           money.Fixed(b.cart.Total),
		TotalFormateado: money.Format(b.cart.Total),
		Visible:         b.visible,
	}
	if b.visible {
		v.Items = make([]dto.CartItemView, 0, len(b.cart.Items))
		for _, it := range b.cart.Items {
			v.Items = append(v.Items, itemView(it, PhaseIdle))
		}
	}
	return v
}
