package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
)

// ReceiptGenerator genera el comprobante de compra en PDF.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, r dto.Receipt) ([]byte, error)
}

func receiptLine(name string, qty int, unit decimal.Decimal) dto.ReceiptLine {
	return dto.ReceiptLine{
		Nombre:         name,
		Cantidad:       qty,
		PrecioUnitario: unit,
		Subtotal:       unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}
