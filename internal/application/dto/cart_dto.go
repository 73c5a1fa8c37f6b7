package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemView línea del carrito tal como se pinta. Cantidad es la visible (optimista si hay edición).
type CartItemView struct {
	ID                 int64  `json:"id"`
	ProductID          int64  `json:"productId"`
	Nombre             string `json:"nombre"`
	ImagenURL          string `json:"imagenUrl,omitempty"`
	Precio             string `json:"precio"`
	Cantidad           int    `json:"cantidad"`
	CantidadConfirmada int    `json:"cantidadConfirmada"`
	Stock              *int   `json:"stock"`
	Subtotal           string `json:"subtotal"`
	Updating           bool   `json:"updating"`
	Deleting           bool   `json:"deleting"`
	Estado             string `json:"estado"`
}

// NoticeView aviso visible (toast u overlay bloqueante).
type NoticeView struct {
	Tipo       string     `json:"tipo"`
	Titulo     string     `json:"titulo,omitempty"`
	Mensaje    string     `json:"mensaje"`
	Bloqueante bool       `json:"bloqueante"`
	Hasta      *time.Time `json:"hasta,omitempty"`
}

// CartView estado de la página del carrito.
type CartView struct {
	Items           []CartItemView `json:"items"`
	Total           string         `json:"total"`
	TotalFormateado string         `json:"totalFormateado"`
	Unidades        int            `json:"unidades"`
	Loading         bool           `json:"loading"`
	FirstLoad       bool           `json:"firstLoad"`
	Aviso           *NoticeView    `json:"aviso,omitempty"`
}

// BadgeView resumen del header. Items solo se envía con el desplegable visible.
type BadgeView struct {
	Unidades        int            `json:"unidades"`
	Total           string         `json:"total"`
	TotalFormateado string         `json:"totalFormateado"`
	Visible         bool           `json:"visible"`
	Items           []CartItemView `json:"items,omitempty"`
}

// HandoffItem producto que pasa del carrito al checkout.
type HandoffItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Cantidad  int             `json:"cantidad"`
	Precio    decimal.Decimal `json:"precio"`
	Nombre    string          `json:"nombre"`
	ImagenURL string          `json:"imagenUrl,omitempty"`
}

// CheckoutHandoff total y productos entregados al flujo de pago.
type CheckoutHandoff struct {
	Total decimal.Decimal `json:"total"`
	Items []HandoffItem   `json:"items"`
}

// UpdateQuantityRequest cuerpo de PUT /api/cart/items/:id.
type UpdateQuantityRequest struct {
	Cantidad int `json:"cantidad"`
}

// AddToCartRequest cuerpo de POST /api/cart/items.
type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Cantidad  int   `json:"cantidad"`
}

// BadgeVisibilityRequest cuerpo de PUT /api/badge/visible.
type BadgeVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// CheckoutRedirectResponse respuesta de un checkout válido.
type CheckoutRedirectResponse struct {
	Redirect string          `json:"redirect"`
	Handoff  CheckoutHandoff `json:"handoff"`
}

// CheckoutRejectedResponse el carrito no pasó la validación de stock; Carrito trae el aviso bloqueante.
type CheckoutRejectedResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Carrito CartView `json:"carrito"`
}
