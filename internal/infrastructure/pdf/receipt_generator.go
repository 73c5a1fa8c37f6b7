// Package pdf genera el comprobante de compra del storefront.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  LaptopHub                     │  Orden N° + Fecha          │
//	│  CLIENTE: nombre / email / dirección de envío               │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  TOTAL                                                      │
//	│  PAGO: estado + referencia + QR de la orden                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/laptophub-storefront/internal/application/checkout"
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

var _ checkout.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 13, Green: 110, Blue: 253}
	colorGray    = &props.Color{Red: 108, Green: 117, Blue: 125}
)

// ReceiptGenerator comprobante de compra con Maroto v2.
type ReceiptGenerator struct {
	storeName string
}

// NewReceiptGenerator construye el generador; storeName encabeza el documento.
func NewReceiptGenerator(storeName string) *ReceiptGenerator {
	if storeName == "" {
		storeName = "LaptopHub"
	}
	return &ReceiptGenerator{storeName: storeName}
}

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(ctx context.Context, r dto.Receipt) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Comprobante de compra #%d", r.OrderID), true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.5}))
	m.AddRows(customerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(r.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(totalRow(r))

	m.AddRows(row.New(4))
	m.AddRows(paymentRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(r dto.Receipt) core.Row {
	fecha := "-"
	if !r.Fecha.IsZero() {
		fecha = r.Fecha.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de compra", props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Orden N° %d", r.OrderID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{Size: 8, Align: align.Right, Top: 10, Color: colorGray}),
		),
	)
}

func customerRow(r dto.Receipt) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1}),
			text.New(nonEmpty(r.Cliente, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("Email: %s   |   Envío: %s",
				nonEmpty(r.Email, "-"),
				nonEmpty(r.Direccion, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []dto.ReceiptLine) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Cantidad), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Nombre, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money.Format(it.PrecioUnitario), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.Format(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(r dto.Receipt) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorAccent, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(money.Format(r.Total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorAccent, Top: 2, Right: 1,
		})),
	)
}

// paymentRow estado del pago y QR con la referencia de la orden.
func paymentRow(r dto.Receipt) core.Row {
	ref := fmt.Sprintf("LAPTOPHUB-ORDEN-%d", r.OrderID)
	if r.PaymentID != "" {
		ref += "/" + r.PaymentID
	}
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("PAGO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 2, Left: 3}),
			text.New("Estado: "+nonEmpty(r.Estado, "-"), props.Text{Size: 9, Top: 8, Left: 3}),
			text.New("Referencia: "+nonEmpty(r.PaymentID, "-"), props.Text{Size: 8, Top: 14, Left: 3, Color: colorGray}),
			text.New("Conserve este comprobante como soporte de su compra.", props.Text{
				Size: 7, Top: 24, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
