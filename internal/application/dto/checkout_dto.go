package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutView estado de la pantalla de pago.
type CheckoutView struct {
	Etapa              string        `json:"etapa"`
	Total              string        `json:"total"`
	TotalFormateado    string        `json:"totalFormateado"`
	Items              []HandoffItem `json:"items"`
	Direccion          string        `json:"direccion"`
	DireccionUsuario   string        `json:"direccionUsuario"`
	OtraDireccion      bool          `json:"otraDireccion"`
	UsuarioCargado     bool          `json:"usuarioCargado"`
	OrderID            int64         `json:"orderId,omitempty"`
	ClientSecret       string        `json:"clientSecret,omitempty"`
	MetodoSeleccionado bool          `json:"metodoSeleccionado"`
	Loading            bool          `json:"loading"`
	Error              string        `json:"error,omitempty"`
	Overlay            string        `json:"overlay,omitempty"`
	Aviso              *NoticeView   `json:"aviso,omitempty"`
}

// ShippingAddressRequest cuerpo de PUT /api/checkout/address.
// Otra=false vuelve a la dirección del perfil.
type ShippingAddressRequest struct {
	Otra      bool   `json:"otra"`
	Direccion string `json:"direccion"`
}

// PaymentMethodRequest cuerpo de PUT /api/checkout/method (evento change del widget de pago).
type PaymentMethodRequest struct {
	Completo bool `json:"completo"`
}

// ConfirmPaymentRequest resultado del widget de pago que reenvía el front.
type ConfirmPaymentRequest struct {
	Estado string `json:"estado"`
	Error  string `json:"error,omitempty"`
}

// ReceiptLine línea del comprobante.
type ReceiptLine struct {
	Nombre         string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// Receipt datos del comprobante de compra en PDF.
type Receipt struct {
	OrderID   int64
	Fecha     time.Time
	Cliente   string
	Email     string
	Direccion string
	Estado    string
	PaymentID string
	Items     []ReceiptLine
	Total     decimal.Decimal
}
