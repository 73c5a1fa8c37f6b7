// Package checkout implementa el paso de pago: dirección de envío, creación de la orden desde el
// carrito y confirmación del pago con el widget externo.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

// Stage etapa del flujo.
type Stage string

const (
	StageIdle       Stage = "inactivo"
	StageAddress    Stage = "direccion"
	StagePayment    Stage = "pago"
	StageProcessing Stage = "procesando"
	StageApproved   Stage = "aprobado"
	StageFailed     Stage = "rechazado"
)

// Overlays visibles.
const (
	OverlayError    = "error"
	OverlayApproved = "aprobada"
)

// Textos visibles.
const (
	msgNoHandoff      = "No hay datos del carrito. Regresa y selecciona productos."
	msgNoUser         = "No hay usuario autenticado."
	msgAddressFailed  = "No se pudo obtener la dirección del usuario."
	msgNoStock        = "Ya no hay suficientes unidades disponibles."
	msgOrderFailed    = "Error al crear la orden"
	msgNoClientSecret = "No se pudo obtener el clientSecret del pago."
	msgNoMethod       = "Debe proporcionar el método de pago"
)

// Navigator salida del flujo de pago.
type Navigator interface {
	ToCart()
}

// Config tiempos del flujo.
type Config struct {
	StockRedirectDelay time.Duration // aviso de stock → carrito
	ApprovedDelay      time.Duration // confirmación → overlay aprobada
	ApprovedRedirect   time.Duration // overlay aprobada → carrito
	FailedDelay        time.Duration // confirmación → overlay de error
	FailedRedirect     time.Duration // overlay de error → carrito
	ToastDuration      time.Duration
	Now                func() time.Time
}

// DefaultConfig tiempos de la tienda.
func DefaultConfig() Config {
	return Config{
		StockRedirectDelay: 5 * time.Second,
		ApprovedDelay:      300 * time.Millisecond,
		ApprovedRedirect:   2500 * time.Millisecond,
		FailedDelay:        3 * time.Second,
		FailedRedirect:     5 * time.Second,
		ToastDuration:      2500 * time.Millisecond,
		Now:                time.Now,
	}
}

// Flow estado del pago de una sesión. Se usa solo desde el hilo lógico del Scheduler.
type Flow struct {
	ctx    context.Context
	sched  cart.Scheduler
	users  repository.UserRepository
	orders repository.OrderRepository
	nav    Navigator
	cfg    Config
	log    *logger.Logger

	stage          Stage
	userID         string
	user           *entity.User
	handoff        *dto.CheckoutHandoff
	userAddress    string
	address        string
	otherAddress   bool
	userLoaded     bool
	gen            uint64 // se incrementa en cada Start/Reset; descarta respuestas viejas
	order          *entity.Order
	paymentStatus  string
	methodSelected bool
	loading        bool
	errMsg         string
	overlay        string
	toast          *dto.NoticeView
	toastTimer     cart.Timer
	timers         []cart.Timer
}

// NewFlow construye el flujo en etapa inactiva.
func NewFlow(ctx context.Context, sched cart.Scheduler, users repository.UserRepository, orders repository.OrderRepository, nav Navigator, cfg Config, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Nop()
	}
	def := DefaultConfig()
	if cfg.StockRedirectDelay <= 0 {
		cfg.StockRedirectDelay = def.StockRedirectDelay
	}
	if cfg.ApprovedDelay <= 0 {
		cfg.ApprovedDelay = def.ApprovedDelay
	}
	if cfg.ApprovedRedirect <= 0 {
		cfg.ApprovedRedirect = def.ApprovedRedirect
	}
	if cfg.FailedDelay <= 0 {
		cfg.FailedDelay = def.FailedDelay
	}
	if cfg.FailedRedirect <= 0 {
		cfg.FailedRedirect = def.FailedRedirect
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = def.ToastDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Flow{ctx: ctx, sched: sched, users: users, orders: orders, nav: nav, cfg: cfg, log: log, stage: StageIdle}
}

// Start recibe el carrito validado y carga la dirección del perfil.
func (f *Flow) Start(userID string, h dto.CheckoutHandoff) error {
	f.reset()
	if len(h.Items) == 0 {
		f.errMsg = msgNoHandoff
		return domain.ErrMissingHandoff
	}
	f.handoff = &h
	if userID == "" {
		f.errMsg = msgNoUser
		return domain.ErrUnauthorized
	}
	f.userID = userID
	f.stage = StageAddress

	gen := f.gen
	f.sched.Go(func() {
		u, err := f.users.GetByID(f.ctx, userID)
		f.sched.Post(func() { f.userDone(gen, u, err) })
	})
	return nil
}

func (f *Flow) userDone(gen uint64, u *entity.User, err error) {
	if gen != f.gen {
		return
	}
	f.userLoaded = true
	if err != nil {
		f.log.Warn().Err(err).Str("user_id", f.userID).Msg("no se pudo obtener la dirección del usuario")
		f.errMsg = msgAddressFailed
		return
	}
	f.user = u
	f.userAddress = u.Address
	if !f.otherAddress {
		f.address = u.Address
	}
}

// UseOtherAddress muestra el formulario de otra dirección y la deja vacía.
func (f *Flow) UseOtherAddress(address string) error {
	if f.stage != StageAddress {
		return domain.ErrConflict
	}
	f.otherAddress = true
	f.address = strings.TrimSpace(address)
	return nil
}

// CancelOtherAddress vuelve a la dirección del perfil.
func (f *Flow) CancelOtherAddress() error {
	if f.stage != StageAddress {
		return domain.ErrConflict
	}
	f.otherAddress = false
	f.address = f.userAddress
	return nil
}

// PlaceOrder crea la orden desde el carrito del backend. El resultado llega de forma asíncrona:
// con clientSecret pasa a la etapa de pago; un error de stock muestra el overlay y vuelve al carrito.
func (f *Flow) PlaceOrder() error {
	switch {
	case f.handoff == nil:
		return domain.ErrMissingHandoff
	case f.userID == "":
		return domain.ErrUnauthorized
	case f.stage != StageAddress || f.loading:
		return domain.ErrConflict
	case strings.TrimSpace(f.address) == "":
		return fmt.Errorf("%w: dirección de envío vacía", domain.ErrInvalidInput)
	}
	f.loading = true
	f.errMsg = ""
	userID, address, gen := f.userID, f.address, f.gen
	f.sched.Go(func() {
		o, err := f.orders.CreateFromCart(f.ctx, userID, address)
		f.sched.Post(func() { f.orderDone(gen, o, err) })
	})
	return nil
}

func (f *Flow) orderDone(gen uint64, o *entity.Order, err error) {
	if gen != f.gen || f.stage != StageAddress {
		return
	}
	f.loading = false
	if err != nil {
		if isStockError(err) {
			f.log.Info().Err(err).Msg("orden rechazada por stock; volviendo al carrito")
			f.overlay = OverlayError
			f.errMsg = msgNoStock
			f.after(f.cfg.StockRedirectDelay, f.nav.ToCart)
			return
		}
		f.log.Error().Err(err).Msg("error al crear la orden")
		f.errMsg = msgOrderFailed
		return
	}
	if o == nil || o.Payment == nil || o.Payment.ClientSecret == "" {
		f.errMsg = msgNoClientSecret
		return
	}
	f.order = o
	f.paymentStatus = o.Payment.Status
	f.methodSelected = false
	f.stage = StagePayment
	f.log.Info().Int64("order_id", o.ID).Msg("orden creada; esperando pago")
}

// SelectPaymentMethod refleja si el widget tiene un método de pago completo.
func (f *Flow) SelectPaymentMethod(complete bool) {
	f.methodSelected = complete
}

// ConfirmPayment recibe el resultado del widget. Sin método de pago muestra un aviso y no hace nada.
// Aprobado: overlay tras ApprovedDelay y vuelta al carrito tras ApprovedRedirect.
// Cualquier otro resultado: overlay de error tras FailedDelay y vuelta tras FailedRedirect.
func (f *Flow) ConfirmPayment(result entity.PaymentResult) error {
	if f.stage != StagePayment || f.order == nil || f.order.Payment == nil || f.order.Payment.ClientSecret == "" {
		return domain.ErrPaymentNotReady
	}
	if !f.methodSelected {
		f.showToast(msgNoMethod)
		return fmt.Errorf("%w: método de pago no seleccionado", domain.ErrInvalidInput)
	}
	f.stage = StageProcessing
	f.errMsg = ""

	if result.Err == nil && result.Status == entity.PaymentSucceeded {
		f.paymentStatus = entity.PaymentSucceeded
		f.after(f.cfg.ApprovedDelay, func() {
			f.stage = StageApproved
			f.overlay = OverlayApproved
			f.after(f.cfg.ApprovedRedirect, f.nav.ToCart)
		})
		return nil
	}

	f.paymentStatus = entity.PaymentFailed
	ev := f.log.Warn().Int64("order_id", f.order.ID).Str("estado", result.Status)
	if result.Err != nil {
		ev = ev.Err(result.Err)
	}
	ev.Msg("pago no aprobado")
	f.after(f.cfg.FailedDelay, func() {
		f.stage = StageFailed
		f.overlay = OverlayError
		f.after(f.cfg.FailedRedirect, f.nav.ToCart)
	})
	if result.Err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPaymentFailed, result.Err)
	}
	return domain.ErrPaymentFailed
}

// Stage etapa actual.
func (f *Flow) Stage() Stage {
	return f.stage
}

// View instantánea para la capa HTTP.
func (f *Flow) View() dto.CheckoutView {
	v := dto.CheckoutView{
		Etapa:              string(f.stage),
		Direccion:          f.address,
		DireccionUsuario:   f.userAddress,
		OtraDireccion:      f.otherAddress,
		UsuarioCargado:     f.userLoaded,
		MetodoSeleccionado: f.methodSelected,
		Loading:            f.loading,
		Error:              f.errMsg,
		Overlay:            f.overlay,
		Items:              []dto.HandoffItem{},
		Total:              money.Fixed(decimal.Zero),
		TotalFormateado:    money.Format(decimal.Zero),
	}
	if f.handoff != nil {
		v.Items = append(v.Items, f.handoff.Items...)
		v.Total = money.Fixed(f.handoff.Total)
		v.TotalFormateado = money.Format(f.handoff.Total)
	}
	if f.order != nil {
		v.OrderID = f.order.ID
		if f.order.Payment != nil {
			v.ClientSecret = f.order.Payment.ClientSecret
		}
	}
	if f.toast != nil {
		t := *f.toast
		v.Aviso = &t
	}
	return v
}

// ReceiptData datos del comprobante de la orden creada.
func (f *Flow) ReceiptData() (dto.Receipt, error) {
	if f.order == nil {
		return dto.Receipt{}, fmt.Errorf("%w: no hay orden", domain.ErrNotFound)
	}
	r := dto.Receipt{
		OrderID:   f.order.ID,
		Fecha:     f.order.CreatedAt,
		Direccion: f.order.ShippingAddress,
		Estado:    f.paymentStatus,
		Total:     f.order.Total,
	}
	if r.Fecha.IsZero() {
		r.Fecha = f.cfg.Now()
	}
	if r.Direccion == "" {
		r.Direccion = f.address
	}
	if f.order.Payment != nil {
		r.PaymentID = f.order.Payment.ProviderPaymentID
	}
	if f.user != nil {
		r.Cliente = f.user.FullName()
		r.Email = f.user.Email
	}
	if len(f.order.Items) > 0 {
		for _, it := range f.order.Items {
			r.Items = append(r.Items, receiptLine(it.Product.Name, it.Quantity, it.UnitPrice))
		}
	} else if f.handoff != nil {
		for _, it := range f.handoff.Items {
			r.Items = append(r.Items, receiptLine(it.Nombre, it.Cantidad, it.Precio))
		}
	}
	if r.Total.IsZero() && f.handoff != nil {
		r.Total = f.handoff.Total
	}
	return r, nil
}

// Reset descarta el flujo (al salir de la pantalla).
func (f *Flow) Reset() {
	f.reset()
}

func (f *Flow) reset() {
	for _, t := range f.timers {
		t.Stop()
	}
	if f.toastTimer != nil {
		f.toastTimer.Stop()
	}
	*f = Flow{
		ctx: f.ctx, sched: f.sched, users: f.users, orders: f.orders, nav: f.nav, cfg: f.cfg, log: f.log,
		stage: StageIdle,
		gen:   f.gen + 1,
	}
}

func (f *Flow) after(d time.Duration, task func()) {
	f.timers = append(f.timers, f.sched.AfterFunc(d, task))
}

func (f *Flow) showToast(msg string) {
	if f.toastTimer != nil {
		f.toastTimer.Stop()
	}
	until := f.cfg.Now().Add(f.cfg.ToastDuration)
	shown := &dto.NoticeView{Tipo: "error", Mensaje: msg, Hasta: &until}
	f.toast = shown
	f.toastTimer = f.sched.AfterFunc(f.cfg.ToastDuration, func() {
		if f.toast == shown {
			f.toast = nil
		}
		f.toastTimer = nil
	})
}

func isStockError(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) || strings.Contains(strings.ToLower(err.Error()), "stock")
}
