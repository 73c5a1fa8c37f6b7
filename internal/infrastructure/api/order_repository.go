package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepository)(nil)

// OrderRepository creación de órdenes en /api/orders.
type OrderRepository struct {
	c *Client
}

func NewOrderRepository(c *Client) *OrderRepository {
	return &OrderRepository{c: c}
}

// CreateFromCart el backend arma la orden con el carrito actual y crea el intento de pago.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID, shippingAddress string) (*entity.Order, error) {
	var out orderDTO
	path := "/api/orders/user/" + url.PathEscape(userID)
	if err := r.c.do(ctx, http.MethodPost, path, nil, createOrderRequest{DireccionEnvio: shippingAddress}, &out); err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}
