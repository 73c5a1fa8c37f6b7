package cart_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/event"
	"github.com/jhoicas/laptophub-storefront/internal/testutil"
)

func TestPage_TotalSobreCantidadesConfirmadas(t *testing.T) {
	h := newHarness(t,
		testutil.Item(1, "1299.99", 2, 10),
		testutil.Item(2, "49.50", 1, 5),
	)
	p := h.page(t)

	v := p.View()
	assert.Equal(t, "2649.48", v.Total)
	assert.Equal(t, 3, v.Unidades)
	assert.False(t, v.Loading)
	assert.False(t, v.FirstLoad)

	_, err := p.UpdateQuantity(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "2649.48", p.View().Total, "la edición pendiente no altera el total")

	h.sched.Advance(300 * time.Millisecond)
	h.sched.Flush()
	v = p.View()
	assert.Equal(t, "2748.48", v.Total)
	assert.Equal(t, "148.50", viewItem(t, v, 2).Subtotal)
}

func TestPage_ItemUpdatedExterno_EsIdempotente(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)

	h.bus.Publish(event.ItemUpdated("otra-pestaña", 1, 3))
	h.sched.RunUntilIdle()
	first := p.View()

	h.bus.Publish(event.ItemUpdated("otra-pestaña", 1, 3))
	h.sched.RunUntilIdle()
	second := p.View()

	assert.Equal(t, first, second)
	assert.Equal(t, 3, viewItem(t, second, 1).CantidadConfirmada)
	assert.Equal(t, "300.00", second.Total)
}

func TestPage_ItemUpdatedDeItemOcupado_SeIgnora(t *testing.T) {
	h := newHarness(t,
		testutil.Item(1, "100.00", 1, 10),
		testutil.Item(2, "10.00", 1, 10),
	)
	p := h.page(t)

	_, _ = p.UpdateQuantity(1, 5)
	h.bus.Publish(event.ItemUpdated("otra-pestaña", 1, 9))
	h.bus.Publish(event.ItemUpdated("otra-pestaña", 2, 4))
	h.sched.RunUntilIdle()

	v := p.View()
	assert.Equal(t, 5, viewItem(t, v, 1).Cantidad)
	assert.Equal(t, 1, viewItem(t, v, 1).CantidadConfirmada, "el ítem con edición pendiente no acepta parches")
	assert.Equal(t, 4, viewItem(t, v, 2).CantidadConfirmada, "los demás ítems sí")

	// También mientras la escritura está en vuelo.
	h.sched.Advance(300 * time.Millisecond)
	h.bus.Publish(event.ItemUpdated("otra-pestaña", 1, 9))
	h.sched.RunUntilIdle()
	assert.Equal(t, 1, viewItem(t, p.View(), 1).CantidadConfirmada)

	h.sched.Flush()
	assert.Equal(t, 5, viewItem(t, p.View(), 1).CantidadConfirmada)
	assert.Equal(t, "540.00", p.View().Total)
}

func TestPage_UpdateQuantity_Errores(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)

	_, err := p.UpdateQuantity(99, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, p.RemoveItem(1))
	_, err = p.UpdateQuantity(1, 2)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, p.RemoveItem(99), domain.ErrNotFound)
}

func TestPage_RemoveItem_ExitoRecargaSinElItem(t *testing.T) {
	h := newHarness(t,
		testutil.Item(1, "100.00", 1, 10),
		testutil.Item(2, "10.00", 2, 10),
	)
	p := h.page(t)

	require.NoError(t, p.RemoveItem(1))
	assert.True(t, viewItem(t, p.View(), 1).Deleting, "la fila sigue visible hasta la recarga")

	h.sched.Flush()
	v := p.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(2), v.Items[0].ID)
	assert.Equal(t, "20.00", v.Total)
	assert.Nil(t, v.Aviso)
}

func TestPage_RemoveItem_ErrorMuestraAvisoYConservaItem(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)
	h.repo.FailRemove = errors.New("backend caído")

	require.NoError(t, p.RemoveItem(1))
	h.sched.Flush()

	v := p.View()
	it := viewItem(t, v, 1)
	assert.False(t, it.Deleting)
	require.NotNil(t, v.Aviso)
	assert.Equal(t, "error", v.Aviso.Tipo)
	assert.Equal(t, "No se pudo eliminar el item. Intenta nuevamente.", v.Aviso.Mensaje)
	require.NotNil(t, v.Aviso.Hasta)
	assert.Equal(t, h.sched.Now().Add(2500*time.Millisecond), *v.Aviso.Hasta)

	h.sched.Advance(2500 * time.Millisecond)
	assert.Nil(t, p.View().Aviso)
}

func TestPage_GoToCheckout_StockInsuficiente(t *testing.T) {
	h := newHarness(t,
		testutil.Item(1, "100.00", 3, 2),
		testutil.Item(2, "50.00", 1, 5),
	)
	p := h.page(t)

	_, err := p.GoToCheckout()
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, h.nav.handoffs, "no navega al checkout")

	v := p.View()
	require.NotNil(t, v.Aviso)
	assert.Equal(t, "stock", v.Aviso.Tipo)
	assert.True(t, v.Aviso.Bloqueante)
	assert.Equal(t, "Ya no hay suficientes unidades disponibles", v.Aviso.Titulo)

	h.sched.Flush()
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 2}}, h.repo.Updates())

	_, err = p.GoToCheckout()
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "mientras dura el aviso no se reintenta")

	h.sched.Advance(4999 * time.Millisecond)
	assert.Zero(t, h.nav.reloads)
	h.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, h.nav.reloads, "recarga forzada a los 5 segundos")
	assert.Nil(t, p.View().Aviso)

	h.sched.Flush()
	assert.Equal(t, 2, viewItem(t, p.View(), 1).CantidadConfirmada)

	handoff, err := p.GoToCheckout()
	require.NoError(t, err)
	require.Len(t, h.nav.handoffs, 1)
	assert.True(t, decimal.NewFromInt(250).Equal(handoff.Total), "total %s", handoff.Total)
	require.Len(t, handoff.Items, 2)
	assert.Equal(t, 2, handoff.Items[0].Cantidad)
	assert.Equal(t, int64(100), handoff.Items[0].ProductID)
}

func TestPage_GoToCheckout_StockCero_EliminaItem(t *testing.T) {
	h := newHarness(t,
		testutil.Item(3, "10.00", 1, 0),
		testutil.Item(4, "20.00", 1, 5),
	)
	p := h.page(t)

	_, err := p.GoToCheckout()
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	h.sched.Flush()

	assert.Equal(t, []int64{3}, h.repo.Removes())
	assert.Empty(t, h.repo.Updates())
}

func TestPage_GoToCheckout_CarritoVacio(t *testing.T) {
	h := newHarness(t)
	p := h.page(t)

	_, err := p.GoToCheckout()
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, h.nav.handoffs)
}

func TestPage_InstantaneaEnCache_SeMuestraSiFallaLaRed(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 2, 10))
	require.NoError(t, h.cache.Set(context.Background(), &entity.Cart{
		Items: []entity.CartItem{testutil.Item(1, "100.00", 5, 10)},
	}))
	h.repo.FailGet = errors.New("sin red")

	p := h.page(t)
	v := p.View()
	assert.False(t, v.Loading)
	assert.Equal(t, 5, viewItem(t, v, 1).CantidadConfirmada)
	assert.Equal(t, "500.00", v.Total)
}

func TestPage_CargaFresca_ReemplazaLaCache(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 2, 10))
	require.NoError(t, h.cache.Set(context.Background(), &entity.Cart{
		Items: []entity.CartItem{testutil.Item(1, "100.00", 5, 10)},
	}))

	p := h.page(t)
	assert.Equal(t, 2, viewItem(t, p.View(), 1).CantidadConfirmada)

	// Tras la primera carga fresca la caché ya no se aplica y un error conserva el estado.
	require.NoError(t, h.cache.Set(context.Background(), &entity.Cart{
		Items: []entity.CartItem{testutil.Item(1, "100.00", 9, 10)},
	}))
	h.repo.FailGet = errors.New("sin red")
	p.Reload()
	h.sched.Flush()
	assert.Equal(t, 2, viewItem(t, p.View(), 1).CantidadConfirmada)
}

func TestPage_Refresh_RecargaElCarrito(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)

	_, err := h.remote.AddItem(context.Background(), "catalogo", 55, 2)
	require.NoError(t, err)
	h.sched.Flush()

	v := p.View()
	assert.Len(t, v.Items, 2)
	assert.Equal(t, 3, v.Unidades)
}

func TestPage_RefreshConEscrituraEnVuelo_NoLaCancela(t *testing.T) {
	h := newHarness(t,
		testutil.Item(1, "100.00", 1, 10),
		testutil.Item(2, "10.00", 1, 10),
	)
	p := h.page(t)

	_, err := p.UpdateQuantity(1, 4)
	require.NoError(t, err)
	h.sched.Advance(300 * time.Millisecond)
	require.Equal(t, 1, h.sched.PendingIO(), "escritura en vuelo")

	h.bus.Publish(event.Refresh("otra-pestaña"))
	h.sched.RunUntilIdle()
	require.Equal(t, 2, h.sched.PendingIO(), "la recarga no cancela la escritura")

	// La recarga llega antes que la respuesta de la escritura.
	require.True(t, h.sched.RunNewestIO())
	it := viewItem(t, p.View(), 1)
	assert.True(t, it.Updating)
	assert.Equal(t, 4, it.Cantidad)
	assert.Equal(t, 1, it.CantidadConfirmada)

	h.bus.Publish(event.ItemUpdated("otra-pestaña", 1, 9))
	h.bus.Publish(event.ItemUpdated("otra-pestaña", 2, 3))
	h.sched.RunUntilIdle()
	v := p.View()
	assert.Equal(t, 4, viewItem(t, v, 1).Cantidad)
	assert.Equal(t, 1, viewItem(t, v, 1).CantidadConfirmada, "el ítem en escritura no acepta parches")
	assert.Equal(t, 3, viewItem(t, v, 2).CantidadConfirmada)

	h.sched.Flush()
	v = p.View()
	it = viewItem(t, v, 1)
	assert.False(t, it.Updating)
	assert.Equal(t, 4, it.CantidadConfirmada)
	assert.Equal(t, "idle", it.Estado)
	assert.Equal(t, "430.00", v.Total)
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 4}}, h.repo.Updates())
}

func TestPage_RemoveItemFallido_ReanudaLaEdicionPendiente(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)
	h.repo.FailRemove = errors.New("backend caído")

	_, err := p.UpdateQuantity(1, 4)
	require.NoError(t, err)
	require.NoError(t, p.RemoveItem(1))

	// Mientras se resuelve el borrado el debounce no envía nada.
	h.sched.Advance(300 * time.Millisecond)
	assert.Equal(t, 1, h.sched.PendingIO())
	assert.Empty(t, h.repo.Updates())

	h.sched.Flush()
	it := viewItem(t, p.View(), 1)
	assert.False(t, it.Deleting)
	assert.Equal(t, 4, it.Cantidad, "la edición sobrevive al borrado fallido")
	assert.Equal(t, 1, it.CantidadConfirmada)
	assert.Equal(t, "pending", it.Estado)

	h.sched.Advance(300 * time.Millisecond)
	h.sched.Flush()
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 4}}, h.repo.Updates())
	it = viewItem(t, p.View(), 1)
	assert.Equal(t, 4, it.CantidadConfirmada)
	assert.Equal(t, "idle", it.Estado)
	assert.Equal(t, "400.00", p.View().Total)
}

func TestPage_RemoveItemExitoso_DescartaLaEdicionPendiente(t *testing.T) {
	h := newHarness(t,
		testutil.Item(1, "100.00", 1, 10),
		testutil.Item(2, "10.00", 1, 10),
	)
	p := h.page(t)

	_, err := p.UpdateQuantity(1, 4)
	require.NoError(t, err)
	require.NoError(t, p.RemoveItem(1))
	h.sched.Flush()
	h.sched.Advance(time.Second)
	h.sched.Flush()

	assert.Empty(t, h.repo.Updates())
	assert.Equal(t, []int64{1}, h.repo.Removes())
	v := p.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "10.00", v.Total)
}
