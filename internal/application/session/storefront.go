package session

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
	"github.com/jhoicas/laptophub-storefront/internal/application/checkout"
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// Rutas del cliente.
const (
	RouteCart    = "/cart"
	RoutePayment = "/payment"
)

// OriginHTTP origen de las escrituras hechas directamente por la API (agregar al carrito).
const OriginHTTP = "http"

// Storefront estado vivo de una sesión: su hilo lógico, el canal de cambios del carrito, la página
// del carrito, el resumen del header y el flujo de pago. Los métodos son seguros desde cualquier
// goroutine: todo acceso al estado pasa por el Loop.
type Storefront struct {
	id       string
	userID   string
	loop     *cart.Loop
	bus      *cart.Broadcaster
	remote   *cart.RemoteClient
	page     *cart.PageViewModel
	badge    *cart.BadgeViewModel
	flow     *checkout.Flow
	route    string // solo en el loop
	lastSeen atomic.Int64
	cancel   context.CancelFunc
	log      *logger.Logger
}

// navigator salidas de la página y del flujo de pago; corre en el loop.
type navigator struct{ s *Storefront }

func (n navigator) NavigateToCheckout(h dto.CheckoutHandoff) {
	n.s.route = RoutePayment
	if err := n.s.flow.Start(n.s.userID, h); err != nil {
		n.s.log.Warn().Err(err).Msg("no se pudo iniciar el checkout")
	}
}

func (n navigator) ReloadPage() {
	n.s.route = RouteCart
}

func (n navigator) ToCart() {
	n.s.flow.Reset()
	n.s.route = RouteCart
	n.s.page.Reload()
	n.s.badge.Load()
}

// ID identificador de la sesión.
func (s *Storefront) ID() string { return s.id }

// UserID usuario de la sesión ("" si es anónima).
func (s *Storefront) UserID() string { return s.userID }

// Done se cierra cuando el loop de la sesión termina.
func (s *Storefront) Done() <-chan struct{} { return s.loop.Done() }

func (s *Storefront) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Storefront) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// do ejecuta fn en el loop de la sesión y devuelve su error.
func (s *Storefront) do(ctx context.Context, fn func() error) error {
	s.touch()
	var ferr error
	if err := s.loop.Call(ctx, func() { ferr = fn() }); err != nil {
		if errors.Is(err, cart.ErrLoopClosed) {
			return domain.ErrSessionNotFound
		}
		return err
	}
	return ferr
}

// CartView estado actual de la página del carrito.
func (s *Storefront) CartView(ctx context.Context) (dto.CartView, error) {
	var v dto.CartView
	err := s.do(ctx, func() error {
		s.route = RouteCart
		v = s.page.View()
		return nil
	})
	return v, err
}

// ReloadCart pide una recarga autoritativa del carrito.
func (s *Storefront) ReloadCart(ctx context.Context) (dto.CartView, error) {
	var v dto.CartView
	err := s.do(ctx, func() error {
		s.page.Reload()
		v = s.page.View()
		return nil
	})
	return v, err
}

// UpdateQuantity registra una edición optimista y devuelve la vista con la cantidad acotada.
func (s *Storefront) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (dto.CartView, error) {
	var v dto.CartView
	err := s.do(ctx, func() error {
		if _, err := s.page.UpdateQuantity(itemID, quantity); err != nil {
			return err
		}
		v = s.page.View()
		return nil
	})
	return v, err
}

// RemoveItem pide la eliminación del ítem.
func (s *Storefront) RemoveItem(ctx context.Context, itemID int64) (dto.CartView, error) {
	var v dto.CartView
	err := s.do(ctx, func() error {
		if err := s.page.RemoveItem(itemID); err != nil {
			return err
		}
		v = s.page.View()
		return nil
	})
	return v, err
}

// GoToCheckout valida el carrito y, si es válido, inicia el flujo de pago.
func (s *Storefront) GoToCheckout(ctx context.Context) (*dto.CheckoutRedirectResponse, error) {
	var out *dto.CheckoutRedirectResponse
	err := s.do(ctx, func() error {
		h, err := s.page.GoToCheckout()
		if err != nil {
			return err
		}
		out = &dto.CheckoutRedirectResponse{Redirect: RoutePayment, Handoff: *h}
		return nil
	})
	return out, err
}

// AddItem agrega un producto al carrito del usuario. La llamada de red corre en la goroutine del
// llamador; la página y el header se enteran por el Refresh publicado.
func (s *Storefront) AddItem(ctx context.Context, productID int64, quantity int) (*dto.NoticeView, error) {
	s.touch()
	if s.userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.remote.AddItem(ctx, OriginHTTP, productID, quantity); err != nil {
		return nil, err
	}
	return &dto.NoticeView{Tipo: string(cart.NoticeInfo), Mensaje: cart.MsgAddedToCart}, nil
}

// Badge resumen del header.
func (s *Storefront) Badge(ctx context.Context) (dto.BadgeView, error) {
	var v dto.BadgeView
	err := s.do(ctx, func() error {
		v = s.badge.View()
		return nil
	})
	return v, err
}

// SetBadgeVisible abre o cierra el desplegable del header.
func (s *Storefront) SetBadgeVisible(ctx context.Context, visible bool) (dto.BadgeView, error) {
	var v dto.BadgeView
	err := s.do(ctx, func() error {
		s.badge.SetVisible(visible)
		v = s.badge.View()
		return nil
	})
	return v, err
}

// Checkout estado del flujo de pago.
func (s *Storefront) Checkout(ctx context.Context) (dto.CheckoutView, error) {
	return s.checkout(ctx, func() error { return nil })
}

// SetShippingAddress elige entre la dirección del perfil y otra.
func (s *Storefront) SetShippingAddress(ctx context.Context, in dto.ShippingAddressRequest) (dto.CheckoutView, error) {
	return s.checkout(ctx, func() error {
		if in.Otra {
			return s.flow.UseOtherAddress(in.Direccion)
		}
		return s.flow.CancelOtherAddress()
	})
}

// PlaceOrder crea la orden; el resultado se observa en Checkout.
func (s *Storefront) PlaceOrder(ctx context.Context) (dto.CheckoutView, error) {
	return s.checkout(ctx, s.flow.PlaceOrder)
}

// SelectPaymentMethod refleja el estado del widget de pago.
func (s *Storefront) SelectPaymentMethod(ctx context.Context, complete bool) (dto.CheckoutView, error) {
	return s.checkout(ctx, func() error {
		s.flow.SelectPaymentMethod(complete)
		return nil
	})
}

// ConfirmPayment aplica el resultado del widget. Un pago rechazado no es un error de la petición:
// el overlay de error aparece en la vista.
func (s *Storefront) ConfirmPayment(ctx context.Context, in dto.ConfirmPaymentRequest) (dto.CheckoutView, error) {
	res := entity.PaymentResult{Status: in.Estado}
	if in.Error != "" {
		res.Err = errors.New(in.Error)
	}
	return s.checkout(ctx, func() error {
		err := s.flow.ConfirmPayment(res)
		if errors.Is(err, domain.ErrPaymentFailed) {
			return nil
		}
		return err
	})
}

// Receipt datos del comprobante de la orden en curso.
func (s *Storefront) Receipt(ctx context.Context) (dto.Receipt, error) {
	var r dto.Receipt
	err := s.do(ctx, func() error {
		var err error
		r, err = s.flow.ReceiptData()
		return err
	})
	return r, err
}

// Route ruta actual del cliente.
func (s *Storefront) Route(ctx context.Context) (string, error) {
	var r string
	err := s.do(ctx, func() error {
		r = s.route
		return nil
	})
	return r, err
}

func (s *Storefront) checkout(ctx context.Context, fn func() error) (dto.CheckoutView, error) {
	var v dto.CheckoutView
	err := s.do(ctx, func() error {
		err := fn()
		v = s.flow.View()
		return err
	})
	return v, err
}

// Close desmonta los view models y detiene el loop.
func (s *Storefront) Close() {
	_ = s.loop.Call(context.Background(), func() {
		s.page.Unmount()
		s.badge.Unmount()
		s.flow.Reset()
	})
	s.cancel()
	s.loop.Close()
}
