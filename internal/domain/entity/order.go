package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pago según el proveedor.
const (
	PaymentSucceeded = "succeeded"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
)

// Payment intento de pago asociado a una orden. ClientSecret se entrega al widget externo.
type Payment struct {
	ID                int64
	OrderID           int64
	ProviderPaymentID string
	ClientSecret      string
	Amount            decimal.Decimal
	Status            string
	CreatedAt         time.Time
}

// OrderItem línea de la orden con el precio unitario congelado.
type OrderItem struct {
	ID        int64
	Product   Product
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order orden creada a partir del carrito.
type Order struct {
	ID              int64
	UserID          string
	Total           decimal.Decimal
	Status          string
	ShippingAddress string
	ExpiresAt       *time.Time
	Items           []OrderItem
	Payment         *Payment
	CreatedAt       time.Time
}

// PaymentResult resultado del widget de pago: Status del intento o Err si el widget falló.
type PaymentResult struct {
	Status string
	Err    error
}
