package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository perfil del usuario en /api/users.
type UserRepository struct {
	c *Client
}

func NewUserRepository(c *Client) *UserRepository {
	return &UserRepository{c: c}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out userDTO
	if err := r.c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, userErr(err)
	}
	return out.toEntity(), nil
}

// Update envía solo los campos presentes (actualización parcial).
func (r *UserRepository) Update(ctx context.Context, id string, in entity.UserUpdate) (*entity.User, error) {
	body := userUpdateRequest{
		Nombre:    in.FirstName,
		Apellido:  in.LastName,
		Telefono:  in.Phone,
		Direccion: in.Address,
	}
	var out userDTO
	if err := r.c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), nil, body, &out); err != nil {
		return nil, userErr(err)
	}
	return out.toEntity(), nil
}

func userErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrUserNotFound, err)
	}
	return err
}
