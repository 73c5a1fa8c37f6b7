package postgres

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

func TestSnapshot_NoPersisteEstadoOptimista(t *testing.T) {
	pending := 9
	c := &entity.Cart{ID: 4, UserID: "u-1", Items: []entity.CartItem{
		{
			ID:              1,
			Quantity:        2,
			PendingQuantity: &pending,
			Updating:        true,
			Product:         entity.Product{ID: 100, Name: "ThinkPad", Price: decimal.RequireFromString("1299.99"), Stock: 10},
		},
		{
			ID:       2,
			Quantity: 1,
			Deleting: true,
			Product:  entity.Product{ID: 200, Name: "Mouse", Price: decimal.RequireFromString("49.50"), Stock: entity.UnknownStock},
		},
	}}

	raw, total, err := encodeSnapshot(c)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2649.48").Equal(total), "el total usa la cantidad confirmada")

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.NotContains(t, string(raw), "pending")

	back, err := decodeSnapshot(raw)
	require.NoError(t, err)
	require.Len(t, back.Items, 2)
	assert.Nil(t, back.Items[0].PendingQuantity)
	assert.False(t, back.Items[0].Updating)
	assert.False(t, back.Items[1].Deleting)
	assert.Equal(t, entity.UnknownStock, back.Items[1].Product.Stock)
	assert.Equal(t, []int64{1, 2}, []int64{back.Items[0].ID, back.Items[1].ID}, "se conserva el orden del servidor")
	assert.True(t, total.Equal(back.Total))
}

func TestDecodeSnapshot_JSONInvalido(t *testing.T) {
	_, err := decodeSnapshot([]byte("{"))
	assert.Error(t, err)
}
