package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/event"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

// OriginPage identifica a la página del carrito en los eventos de cambio.
const OriginPage = "cart.page"

// DefaultStockReloadDelay espera entre el aviso de stock insuficiente y la recarga forzada.
const DefaultStockReloadDelay = 5 * time.Second

// Navigator salidas de la página del carrito.
type Navigator interface {
	// NavigateToCheckout entrega el carrito validado al flujo de pago.
	NavigateToCheckout(h dto.CheckoutHandoff)
	// ReloadPage recarga la página completa tras una corrección de stock.
	ReloadPage()
}

// PageConfig tiempos de la página.
type PageConfig struct {
	Debounce         time.Duration
	StockReloadDelay time.Duration
	NoticeDuration   time.Duration
	Now              func() time.Time
}

// PageViewModel superficie autoritativa del carrito: carga, ediciones con debounce, borrado y
// paso a checkout. Todos sus métodos se llaman desde el hilo lógico del Scheduler.
type PageViewModel struct {
	ctx     context.Context
	sched   Scheduler
	remote  *RemoteClient
	nav     Navigator
	tracker *Tracker
	cfg     PageConfig
	log     *logger.Logger

	cart          entity.Cart
	loading       bool
	firstLoad     bool
	loadSeq       uint64
	appliedSeq    uint64 // última carga fresca aplicada
	stockConflict bool
	notice        noticeSlot
	unsubscribe   func()
}

// NewPageViewModel construye la página. ctx acota las llamadas de red de la sesión.
func NewPageViewModel(ctx context.Context, sched Scheduler, remote *RemoteClient, nav Navigator, cfg PageConfig, log *logger.Logger) *PageViewModel {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.StockReloadDelay <= 0 {
		cfg.StockReloadDelay = DefaultStockReloadDelay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	p := &PageViewModel{
		ctx:       ctx,
		sched:     sched,
		remote:    remote,
		nav:       nav,
		cfg:       cfg,
		log:       log,
		firstLoad: true,
		loading:   true,
	}
	p.notice = noticeSlot{sched: sched, now: cfg.Now}
	p.tracker = newTracker(ctx, sched, remote, p, OriginPage, cfg.Debounce, log)
	return p
}

// Mount se suscribe a los cambios y hace la primera carga.
func (p *PageViewModel) Mount() {
	if p.unsubscribe == nil {
		p.unsubscribe = p.remote.Changes().Subscribe(p.sched, OriginPage, p.onChange)
	}
	p.Load()
}

// Unmount descarta la página: cancela debounce y suscripción. Las escrituras en vuelo se ignoran.
func (p *PageViewModel) Unmount() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.tracker.CancelAll()
	p.notice.clear()
}

// Load sirve la instantánea en caché (solo si aún no hubo carga fresca) y pide el carrito
// autoritativo, que siempre la reemplaza. Un error de red conserva el estado actual.
func (p *PageViewModel) Load() {
	if p.firstLoad {
		p.loading = true
	}
	p.loadSeq++
	seq := p.loadSeq
	p.sched.Go(func() {
		if cached := p.remote.CachedCart(p.ctx); cached != nil {
			p.sched.Post(func() { p.applyCached(cached) })
		}
		fresh, err := p.remote.GetCart(p.ctx)
		p.sched.Post(func() { p.applyFresh(seq, fresh, err) })
	})
}

func (p *PageViewModel) applyCached(c *entity.Cart) {
	if p.appliedSeq > 0 {
		return
	}
	p.setCart(c)
}

func (p *PageViewModel) applyFresh(seq uint64, c *entity.Cart, err error) {
	if seq <= p.appliedSeq {
		return
	}
	p.appliedSeq = seq
	p.loading = false
	p.firstLoad = false
	if err != nil {
		p.log.Warn().Err(err).Msg("carga del carrito fallida; se conserva el estado actual")
		return
	}
	p.setCart(c)
}

func (p *PageViewModel) setCart(c *entity.Cart) {
	if c == nil {
		p.cart = entity.Cart{}
	} else {
		p.cart = c.Clone()
	}
	p.tracker.Reconcile(&p.cart)
	p.cart.Recalculate()
}

// UpdateQuantity registra una edición optimista. Devuelve la cantidad acotada.
func (p *PageViewModel) UpdateQuantity(itemID int64, requested int) (int, error) {
	it := p.item(itemID)
	if it == nil {
		return 0, domain.ErrNotFound
	}
	if it.Deleting {
		return 0, domain.ErrConflict
	}
	q, _ := p.tracker.RecordEdit(itemID, requested)
	return q, nil
}

// RemoveItem marca el ítem como en borrado y pide la eliminación. Con éxito la fila no se quita
// localmente: la próxima recarga autoritativa la elimina. Con error se avisa, el ítem queda y la
// edición pendiente se reanuda.
func (p *PageViewModel) RemoveItem(itemID int64) error {
	it := p.item(itemID)
	if it == nil {
		return domain.ErrNotFound
	}
	if it.Deleting {
		return nil
	}
	it.Deleting = true
	p.tracker.Hold(itemID)
	p.sched.Go(func() {
		err := p.remote.RemoveItem(p.ctx, OriginPage, itemID)
		p.sched.Post(func() { p.removeDone(itemID, err) })
	})
	return nil
}

func (p *PageViewModel) removeDone(itemID int64, err error) {
	if err == nil {
		p.tracker.Cancel(itemID)
		p.recompute()
		return
	}
	p.log.Error().Err(err).Int64("item_id", itemID).Msg("error eliminando item del carrito")
	if it := p.item(itemID); it != nil {
		it.Deleting = false
	}
	p.tracker.Resume(itemID)
	p.notice.show(Notice{Kind: NoticeError, Message: msgRemoveFailed}, p.cfg.NoticeDuration)
}

// GoToCheckout valida stock y entrega el carrito al checkout. Si algún ítem supera el stock
// muestra el aviso bloqueante, corrige las cantidades en el servidor y fuerza la recarga
// tras StockReloadDelay; devuelve domain.ErrInsufficientStock.
func (p *PageViewModel) GoToCheckout() (*dto.CheckoutHandoff, error) {
	if p.stockConflict {
		return nil, domain.ErrInsufficientStock
	}
	if p.loading || len(p.cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	var exceeded []entity.CartItem
	for _, it := range p.cart.Items {
		if it.Product.Stock != entity.UnknownStock && it.Quantity > it.Product.Stock {
			exceeded = append(exceeded, it)
		}
	}
	if len(exceeded) > 0 {
		p.handleStockConflict(exceeded)
		return nil, fmt.Errorf("%w: %d producto(s) superan el stock", domain.ErrInsufficientStock, len(exceeded))
	}

	h := dto.CheckoutHandoff{Total: p.cart.Total, Items: make([]dto.HandoffItem, 0, len(p.cart.Items))}
	for _, it := range p.cart.Items {
		h.Items = append(h.Items, dto.HandoffItem{
			ID:        it.ID,
			ProductID: it.Product.ID,
			Cantidad:  it.Quantity,
			Precio:    it.Product.Price,
			Nombre:    it.Product.Name,
			ImagenURL: it.Product.ImageURL,
		})
	}
	p.nav.NavigateToCheckout(h)
	return &h, nil
}

func (p *PageViewModel) handleStockConflict(exceeded []entity.CartItem) {
	p.stockConflict = true
	p.notice.show(Notice{Kind: NoticeStock, Title: msgStockTitle, Message: msgStockAdjusting, Blocking: true}, 0)
	for _, it := range exceeded {
		p.tracker.Cancel(it.ID)
		id, stock := it.ID, it.Product.Stock
		p.sched.Go(func() {
			var err error
			if stock == 0 {
				err = p.remote.RemoveItem(p.ctx, OriginPage, id)
			} else {
				_, err = p.remote.UpdateItemQuantity(p.ctx, OriginPage, id, stock)
			}
			if err != nil {
				p.log.Warn().Err(err).Int64("item_id", id).Msg("ajuste de stock fallido")
			}
		})
	}
	p.log.Info().Int("items", len(exceeded)).Dur("recarga_en", p.cfg.StockReloadDelay).Msg("stock insuficiente; ajustando carrito")
	p.sched.AfterFunc(p.cfg.StockReloadDelay, p.forceReload)
}

func (p *PageViewModel) forceReload() {
	p.stockConflict = false
	p.notice.clear()
	p.nav.ReloadPage()
	p.Load()
}

// Reload recarga el carrito autoritativo (botón "reintentar" o navegación de vuelta).
func (p *PageViewModel) Reload() {
	p.Load()
}

// View instantánea inmutable para la capa HTTP.
func (p *PageViewModel) View() dto.CartView {
	v := dto.CartView{
		Items:           make([]dto.CartItemView, 0, len(p.cart.Items)),
		Total:           money.Fixed(p.cart.Total),
		TotalFormateado: money.Format(p.cart.Total),
		Unidades:        p.cart.Count(),
		Loading:         p.loading,
		FirstLoad:       p.firstLoad,
		Aviso:           noticeView(p.notice.get()),
	}
	for _, it := range p.cart.Items {
		v.Items = append(v.Items, itemView(it, p.tracker.Phase(it.ID)))
	}
	return v
}

// Cart copia del carrito actual.
func (p *PageViewModel) Cart() entity.Cart {
	return p.cart.Clone()
}

func (p *PageViewModel) onChange(ev event.ChangeEvent) {
	switch ev.Kind {
	case event.KindRefresh:
		p.Load()
	case event.KindItemUpdated:
		it := p.item(ev.ItemID)
		if it == nil || p.tracker.Busy(ev.ItemID) {
			return
		}
		it.Quantity = ev.Quantity
		p.recompute()
	}
}

// trackerHost

func (p *PageViewModel) item(itemID int64) *entity.CartItem {
	if i := p.cart.IndexOf(itemID); i >= 0 {
		return &p.cart.Items[i]
	}
	return nil
}

func (p *PageViewModel) recompute() {
	p.cart.Recalculate()
}

func (p *PageViewModel) reload() {
	p.Load()
}
