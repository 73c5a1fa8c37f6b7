package session

import (
	"context"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.CartSnapshotCache = (*snapshotCache)(nil)

// snapshotCache guarda la instantánea del carrito dentro de la sesión persistida.
type snapshotCache struct {
	repo      repository.SessionRepository
	sessionID string
}

func (c *snapshotCache) Get(ctx context.Context) (*entity.Cart, error) {
	s, err := c.repo.GetByID(ctx, c.sessionID)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Cart, nil
}

func (c *snapshotCache) Set(ctx context.Context, cart *entity.Cart) error {
	return c.repo.SaveCartSnapshot(ctx, c.sessionID, cart)
}
