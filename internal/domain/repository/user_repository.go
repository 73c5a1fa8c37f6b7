package repository

import (
	"context"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

// UserRepository puerto hacia /api/users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, id string, in entity.UserUpdate) (*entity.User, error)
}
