package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/application/checkout"
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/testutil"
)

type fakeNav struct{ toCart int }

func (n *fakeNav) ToCart() { n.toCart++ }

type fixture struct {
	sched  *testutil.ManualScheduler
	users  *testutil.FakeUserRepository
	orders *testutil.FakeOrderRepository
	nav    *fakeNav
	flow   *checkout.Flow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sched: testutil.NewManualScheduler(),
		users: testutil.NewFakeUserRepository(entity.User{
			ID: "u-1", Email: "ana@laptophub.test", FirstName: "Ana", LastName: "Pérez", Address: "Calle 1 #2-3",
		}),
		orders: &testutil.FakeOrderRepository{Order: &entity.Order{
			ID:    77,
			Total: decimal.RequireFromString("250.00"),
			Payment: &entity.Payment{
				ID: 5, ProviderPaymentID: "pi_123", ClientSecret: "pi_123_secret", Status: entity.PaymentPending,
			},
		}},
		nav: &fakeNav{},
	}
	cfg := checkout.DefaultConfig()
	cfg.Now = f.sched.Now
	f.flow = checkout.NewFlow(context.Background(), f.sched, f.users, f.orders, f.nav, cfg, nil)
	return f
}

func handoff() dto.CheckoutHandoff {
	return dto.CheckoutHandoff{
		Total: decimal.RequireFromString("250.00"),
		Items: []dto.HandoffItem{
			{ID: 1, ProductID: 100, Cantidad: 2, Precio: decimal.RequireFromString("100.00"), Nombre: "Laptop 1"},
			{ID: 2, ProductID: 200, Cantidad: 1, Precio: decimal.RequireFromString("50.00"), Nombre: "Laptop 2"},
		},
	}
}

// listoParaPagar deja el flujo en la etapa de pago.
func (f *fixture) listoParaPagar(t *testing.T) {
	t.Helper()
	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()
	require.NoError(t, f.flow.PlaceOrder())
	f.sched.Flush()
	require.Equal(t, checkout.StagePayment, f.flow.Stage())
}

func TestFlow_Start_CargaDireccionDelPerfil(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.flow.Start("u-1", handoff()))
	assert.False(t, f.flow.View().UsuarioCargado)
	f.sched.Flush()

	v := f.flow.View()
	assert.Equal(t, string(checkout.StageAddress), v.Etapa)
	assert.True(t, v.UsuarioCargado)
	assert.Equal(t, "Calle 1 #2-3", v.Direccion)
	assert.Equal(t, "250.00", v.Total)
	assert.Len(t, v.Items, 2)
}

func TestFlow_Start_SinCarrito(t *testing.T) {
	f := newFixture(t)

	err := f.flow.Start("u-1", dto.CheckoutHandoff{})
	assert.ErrorIs(t, err, domain.ErrMissingHandoff)
	assert.Equal(t, "No hay datos del carrito. Regresa y selecciona productos.", f.flow.View().Error)
}

func TestFlow_Start_SinUsuario(t *testing.T) {
	f := newFixture(t)

	err := f.flow.Start("", handoff())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "No hay usuario autenticado.", f.flow.View().Error)
	assert.Zero(t, f.sched.PendingIO())
}

func TestFlow_Start_ErrorAlCargarUsuario(t *testing.T) {
	f := newFixture(t)
	f.users.Fail = errors.New("sin red")

	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()

	v := f.flow.View()
	assert.True(t, v.UsuarioCargado)
	assert.Equal(t, "No se pudo obtener la dirección del usuario.", v.Error)
	assert.ErrorIs(t, f.flow.PlaceOrder(), domain.ErrInvalidInput, "sin dirección no se crea la orden")
}

func TestFlow_OtraDireccion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()

	require.NoError(t, f.flow.UseOtherAddress(""))
	v := f.flow.View()
	assert.True(t, v.OtraDireccion)
	assert.Empty(t, v.Direccion)
	assert.ErrorIs(t, f.flow.PlaceOrder(), domain.ErrInvalidInput)

	require.NoError(t, f.flow.UseOtherAddress("  Av. Siempre Viva 742 "))
	require.NoError(t, f.flow.PlaceOrder())
	f.sched.Flush()
	assert.Equal(t, []testutil.OrderCall{{UserID: "u-1", Address: "Av. Siempre Viva 742"}}, f.orders.Calls())
}

func TestFlow_CancelarOtraDireccion_VuelveALaDelPerfil(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()

	require.NoError(t, f.flow.UseOtherAddress("Otra"))
	require.NoError(t, f.flow.CancelOtherAddress())
	v := f.flow.View()
	assert.False(t, v.OtraDireccion)
	assert.Equal(t, "Calle 1 #2-3", v.Direccion)
}

func TestFlow_PlaceOrder_PasaAPago(t *testing.T) {
	f := newFixture(t)
	f.listoParaPagar(t)

	v := f.flow.View()
	assert.Equal(t, int64(77), v.OrderID)
	assert.Equal(t, "pi_123_secret", v.ClientSecret)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)

	assert.ErrorIs(t, f.flow.PlaceOrder(), domain.ErrConflict, "la orden no se crea dos veces")
}

func TestFlow_PlaceOrder_SinClientSecret(t *testing.T) {
	f := newFixture(t)
	f.orders.Order.Payment = nil
	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()

	require.NoError(t, f.flow.PlaceOrder())
	f.sched.Flush()

	assert.Equal(t, checkout.StageAddress, f.flow.Stage())
	assert.Equal(t, "No se pudo obtener el clientSecret del pago.", f.flow.View().Error)
}

func TestFlow_PlaceOrder_StockInsuficiente_VuelveAlCarrito(t *testing.T) {
	f := newFixture(t)
	f.orders.Fail = fmt.Errorf("%w: Stock insuficiente para Laptop 1", domain.ErrInsufficientStock)
	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()

	require.NoError(t, f.flow.PlaceOrder())
	f.sched.Flush()

	v := f.flow.View()
	assert.Equal(t, checkout.OverlayError, v.Overlay)
	assert.Equal(t, "Ya no hay suficientes unidades disponibles.", v.Error)

	f.sched.Advance(4999 * time.Millisecond)
	assert.Zero(t, f.nav.toCart)
	f.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, f.nav.toCart)
}

func TestFlow_PlaceOrder_OtroError(t *testing.T) {
	f := newFixture(t)
	f.orders.Fail = errors.New("500 internal")
	require.NoError(t, f.flow.Start("u-1", handoff()))
	f.sched.Flush()

	require.NoError(t, f.flow.PlaceOrder())
	f.sched.Flush()

	v := f.flow.View()
	assert.Equal(t, "Error al crear la orden", v.Error)
	assert.Empty(t, v.Overlay)
	f.sched.Advance(10 * time.Second)
	assert.Zero(t, f.nav.toCart)
}

func TestFlow_ConfirmPayment_SinMetodo_MuestraAviso(t *testing.T) {
	f := newFixture(t)
	f.listoParaPagar(t)

	err := f.flow.ConfirmPayment(entity.PaymentResult{Status: entity.PaymentSucceeded})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, checkout.StagePayment, f.flow.Stage())

	v := f.flow.View()
	require.NotNil(t, v.Aviso)
	assert.Equal(t, "Debe proporcionar el método de pago", v.Aviso.Mensaje)

	f.sched.Advance(2500 * time.Millisecond)
	assert.Nil(t, f.flow.View().Aviso)
}

func TestFlow_ConfirmPayment_Aprobado(t *testing.T) {
	f := newFixture(t)
	f.listoParaPagar(t)
	f.flow.SelectPaymentMethod(true)

	require.NoError(t, f.flow.ConfirmPayment(entity.PaymentResult{Status: entity.PaymentSucceeded}))
	assert.Equal(t, checkout.StageProcessing, f.flow.Stage())

	f.sched.Advance(300 * time.Millisecond)
	assert.Equal(t, checkout.StageApproved, f.flow.Stage())
	assert.Equal(t, checkout.OverlayApproved, f.flow.View().Overlay)

	f.sched.Advance(2499 * time.Millisecond)
	assert.Zero(t, f.nav.toCart)
	f.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, f.nav.toCart)
}

func TestFlow_ConfirmPayment_Rechazado(t *testing.T) {
	cases := []struct {
		name   string
		result entity.PaymentResult
	}{
		{"error del widget", entity.PaymentResult{Err: errors.New("card_declined")}},
		{"estado no aprobado", entity.PaymentResult{Status: "requires_action"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.listoParaPagar(t)
			f.flow.SelectPaymentMethod(true)

			err := f.flow.ConfirmPayment(tc.result)
			assert.ErrorIs(t, err, domain.ErrPaymentFailed)

			f.sched.Advance(2999 * time.Millisecond)
			assert.Equal(t, checkout.StageProcessing, f.flow.Stage())
			f.sched.Advance(time.Millisecond)
			assert.Equal(t, checkout.StageFailed, f.flow.Stage())
			assert.Equal(t, checkout.OverlayError, f.flow.View().Overlay)

			f.sched.Advance(5 * time.Second)
			assert.Equal(t, 1, f.nav.toCart)
		})
	}
}

func TestFlow_ConfirmPayment_SinOrden(t *testing.T) {
	f := newFixture(t)
	err := f.flow.ConfirmPayment(entity.PaymentResult{Status: entity.PaymentSucceeded})
	assert.ErrorIs(t, err, domain.ErrPaymentNotReady)
}

func TestFlow_ReceiptData(t *testing.T) {
	f := newFixture(t)
	_, err := f.flow.ReceiptData()
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.listoParaPagar(t)
	f.flow.SelectPaymentMethod(true)
	require.NoError(t, f.flow.ConfirmPayment(entity.PaymentResult{Status: entity.PaymentSucceeded}))

	r, err := f.flow.ReceiptData()
	require.NoError(t, err)
	assert.Equal(t, int64(77), r.OrderID)
	assert.Equal(t, "Ana Pérez", r.Cliente)
	assert.Equal(t, "Calle 1 #2-3", r.Direccion)
	assert.Equal(t, entity.PaymentSucceeded, r.Estado)
	assert.Equal(t, "pi_123", r.PaymentID)
	require.Len(t, r.Items, 2)
	assert.True(t, decimal.RequireFromString("200.00").Equal(r.Items[0].Subtotal))
	assert.True(t, decimal.RequireFromString("250.00").Equal(r.Total))
}

func TestFlow_Reset_DescartaTimersYRespuestas(t *testing.T) {
	f := newFixture(t)
	f.listoParaPagar(t)
	f.flow.SelectPaymentMethod(true)
	require.NoError(t, f.flow.ConfirmPayment(entity.PaymentResult{Status: entity.PaymentSucceeded}))

	f.flow.Reset()
	f.sched.Advance(10 * time.Second)
	assert.Zero(t, f.nav.toCart)
	assert.Equal(t, checkout.StageIdle, f.flow.Stage())
}
