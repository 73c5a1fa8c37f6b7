package repository

import (
	"context"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

// CartRepository puerto hacia los endpoints REST del carrito.
type CartRepository interface {
	// GetCart obtiene el carrito del usuario (userID vacío = carrito de la sesión del backend).
	GetCart(ctx context.Context, userID string) (*entity.Cart, error)
	// UpdateItemQuantity fija la cantidad de un ítem y devuelve el carrito resultante.
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*entity.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) error
	AddItem(ctx context.Context, userID string, productID int64, quantity int) (*entity.Cart, error)
}

// CartSnapshotCache guarda la última instantánea conocida del carrito para evitar el parpadeo de carga.
type CartSnapshotCache interface {
	Get(ctx context.Context) (*entity.Cart, error) // nil, nil si no hay instantánea
	Set(ctx context.Context, cart *entity.Cart) error
}
