package repository

import (
	"context"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

// OrderRepository puerto hacia /api/orders.
type OrderRepository interface {
	// CreateFromCart crea la orden con el contenido actual del carrito del usuario.
	CreateFromCart(ctx context.Context, userID, shippingAddress string) (*entity.Order, error)
}
