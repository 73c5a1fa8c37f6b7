package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/pdf"
)

func TestReceiptGenerator_GeneraPDF(t *testing.T) {
	g := pdf.NewReceiptGenerator("")
	out, err := g.GenerateReceipt(context.Background(), dto.Receipt{
		OrderID:   77,
		Fecha:     time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Cliente:   "Ana Pérez",
		Email:     "ana@example.com",
		Direccion: "Calle 1 #2-3",
		Estado:    "aprobado",
		PaymentID: "pi_123",
		Items: []dto.ReceiptLine{{
			Nombre:         "ThinkPad X1",
			Cantidad:       2,
			PrecioUnitario: decimal.RequireFromString("100"),
			Subtotal:       decimal.RequireFromString("200"),
		}},
		Total: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestReceiptGenerator_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdf.NewReceiptGenerator("LaptopHub").GenerateReceipt(ctx, dto.Receipt{OrderID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
