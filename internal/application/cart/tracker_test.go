package cart_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
	"github.com/jhoicas/laptophub-storefront/internal/testutil"
)

func TestTracker_RafagaDeEdiciones_UnaSolaEscrituraConElUltimoValor(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)

	_, err := p.UpdateQuantity(1, 2)
	require.NoError(t, err)
	h.sched.Advance(100 * time.Millisecond)
	_, err = p.UpdateQuantity(1, 3)
	require.NoError(t, err)
	h.sched.Advance(100 * time.Millisecond)
	_, err = p.UpdateQuantity(1, 4)
	require.NoError(t, err)

	it := viewItem(t, p.View(), 1)
	assert.Equal(t, 4, it.Cantidad, "el valor optimista se muestra de inmediato")
	assert.Equal(t, 1, it.CantidadConfirmada)
	assert.Equal(t, "pending", it.Estado)

	h.sched.Advance(299 * time.Millisecond)
	assert.Zero(t, h.sched.PendingIO(), "el debounce aún no vence")
	assert.Empty(t, h.repo.Updates())

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, 1, h.sched.PendingIO())
	it = viewItem(t, p.View(), 1)
	assert.Equal(t, "sending", it.Estado)
	assert.True(t, it.Updating)

	h.sched.Flush()
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 4}}, h.repo.Updates())

	it = viewItem(t, p.View(), 1)
	assert.Equal(t, 4, it.Cantidad)
	assert.Equal(t, 4, it.CantidadConfirmada)
	assert.Equal(t, "idle", it.Estado)
	assert.False(t, it.Updating)
	assert.Equal(t, "400.00", p.View().Total)
}

func TestTracker_CantidadAcotadaAlStock(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "10.00", 1, 2))
	p := h.page(t)

	q, err := p.UpdateQuantity(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, q)

	q, err = p.UpdateQuantity(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, q)

	q, err = p.UpdateQuantity(1, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, q)

	h.sched.Advance(300 * time.Millisecond)
	h.sched.Flush()
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 1}}, h.repo.Updates())
}

func TestTracker_EdicionDuranteEnvio_ReenviaAlCompletar(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)

	_, _ = p.UpdateQuantity(1, 2)
	h.sched.Advance(300 * time.Millisecond)
	require.Equal(t, 1, h.sched.PendingIO())

	_, _ = p.UpdateQuantity(1, 5)
	h.sched.Advance(300 * time.Millisecond)
	assert.Equal(t, 1, h.sched.PendingIO(), "nunca hay dos escrituras en vuelo para el mismo ítem")

	h.sched.Flush()
	assert.Equal(t, []testutil.QuantityCall{
		{ItemID: 1, Quantity: 2},
		{ItemID: 1, Quantity: 5},
	}, h.repo.Updates())

	it := viewItem(t, p.View(), 1)
	assert.Equal(t, 5, it.CantidadConfirmada)
	assert.Equal(t, "idle", it.Estado)
}

func TestTracker_EdicionConTimerVivo_QuedaPendienteTrasConfirmar(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)

	_, _ = p.UpdateQuantity(1, 2)
	h.sched.Advance(300 * time.Millisecond)
	_, _ = p.UpdateQuantity(1, 6)

	h.sched.Flush()
	it := viewItem(t, p.View(), 1)
	assert.Equal(t, 2, it.CantidadConfirmada)
	assert.Equal(t, 6, it.Cantidad)
	assert.Equal(t, "pending", it.Estado)

	h.sched.Advance(300 * time.Millisecond)
	h.sched.Flush()
	it = viewItem(t, p.View(), 1)
	assert.Equal(t, 6, it.CantidadConfirmada)
	assert.Equal(t, "idle", it.Estado)
}

func TestTracker_ErrorDeEscritura_RecargaElCarrito(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)
	h.repo.FailUpdate = errors.New("backend caído")

	_, _ = p.UpdateQuantity(1, 4)
	h.sched.Advance(300 * time.Millisecond)
	calls := h.repo.GetCalls()

	h.sched.Flush()
	assert.Equal(t, calls+1, h.repo.GetCalls(), "un fallo de escritura dispara una recarga autoritativa")

	it := viewItem(t, p.View(), 1)
	assert.Equal(t, 1, it.Cantidad)
	assert.Equal(t, 1, it.CantidadConfirmada)
	assert.False(t, it.Updating)
	assert.Equal(t, "idle", it.Estado)
}

func TestTracker_RespuestaTardiaDeItemEliminado_NoLoResucita(t *testing.T) {
	h := newHarness(t,
		testutil.Item(7, "100.00", 1, 10),
		testutil.Item(8, "20.00", 1, 10),
	)
	p := h.page(t)

	_, _ = p.UpdateQuantity(7, 3)
	h.sched.Advance(300 * time.Millisecond)
	require.NoError(t, p.RemoveItem(7))
	assert.True(t, viewItem(t, p.View(), 7).Deleting)
	require.Equal(t, 2, h.sched.PendingIO())

	// El borrado responde antes que la escritura de cantidad.
	require.True(t, h.sched.RunNewestIO())
	// Recarga provocada por el Refresh del borrado.
	require.True(t, h.sched.RunNewestIO())
	calls := h.repo.GetCalls()

	h.sched.RunIO()
	assert.Zero(t, h.sched.PendingIO())
	assert.Equal(t, calls, h.repo.GetCalls(), "la respuesta obsoleta se descarta sin recargar")

	c := p.Cart()
	assert.Equal(t, -1, c.IndexOf(7))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, "20.00", p.View().Total)
}

func TestTracker_EdicionDuranteEnvioYBorradoFallido_SeReenviaAlReanudar(t *testing.T) {
	h := newHarness(t, testutil.Item(1, "100.00", 1, 10))
	p := h.page(t)
	h.repo.FailRemove = errors.New("backend caído")

	_, _ = p.UpdateQuantity(1, 3)
	h.sched.Advance(300 * time.Millisecond)
	_, _ = p.UpdateQuantity(1, 5)
	require.NoError(t, p.RemoveItem(1))

	h.sched.Advance(300 * time.Millisecond)
	require.Equal(t, 2, h.sched.PendingIO(), "solo la escritura y el borrado")

	// Confirma 3 y luego falla el borrado.
	h.sched.RunIO()
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 3}}, h.repo.Updates())
	it := viewItem(t, p.View(), 1)
	assert.Equal(t, 3, it.CantidadConfirmada)
	assert.Equal(t, 5, it.Cantidad)
	assert.Equal(t, "pending", it.Estado)

	h.sched.Advance(300 * time.Millisecond)
	h.sched.Flush()
	assert.Equal(t, []testutil.QuantityCall{{ItemID: 1, Quantity: 3}, {ItemID: 1, Quantity: 5}}, h.repo.Updates())
	assert.Equal(t, 5, viewItem(t, p.View(), 1).CantidadConfirmada)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", cart.PhaseIdle.String())
	assert.Equal(t, "pending", cart.PhasePendingLocal.String())
	assert.Equal(t, "sending", cart.PhaseSending.String())
}
