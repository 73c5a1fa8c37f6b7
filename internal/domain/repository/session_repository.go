package repository

import (
	"context"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

// Session estado persistente del cliente: usuario actual y última instantánea del carrito.
type Session struct {
	ID        string
	UserID    string
	Cart      *entity.Cart
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepository puerto de persistencia de sesiones.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error) // nil, nil si no existe
	SetUser(ctx context.Context, id, userID string) error
	SaveCartSnapshot(ctx context.Context, id string, cart *entity.Cart) error
	Delete(ctx context.Context, id string) error
}
