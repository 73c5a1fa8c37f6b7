package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepository)(nil)

// CartRepository endpoints /api/cart del backend.
type CartRepository struct {
	c *Client
}

// NewCartRepository construye el repositorio sobre el cliente compartido.
func NewCartRepository(c *Client) *CartRepository {
	return &CartRepository{c: c}
}

// GetCart con userID vacío consulta el carrito asociado a la sesión del backend.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (*entity.Cart, error) {
	path := "/api/cart"
	if userID != "" {
		path = "/api/cart/user/" + url.PathEscape(userID)
	}
	var out cartDTO
	if err := r.c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*entity.Cart, error) {
	var out cartDTO
	path := fmt.Sprintf("/api/cart/items/%d", itemID)
	if err := r.c.do(ctx, http.MethodPut, path, nil, quantityRequest{Cantidad: quantity}, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return nil, nil
	}
	return out.toEntity(), nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, itemID int64) error {
	return r.c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", itemID), nil, nil, nil)
}

func (r *CartRepository) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*entity.Cart, error) {
	if userID == "" {
		return nil, fmt.Errorf("api: agregar al carrito sin usuario")
	}
	var out cartDTO
	path := "/api/cart/user/" + url.PathEscape(userID) + "/items"
	if err := r.c.do(ctx, http.MethodPost, path, nil, addItemRequest{ProductID: productID, Cantidad: quantity}, &out); err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}
