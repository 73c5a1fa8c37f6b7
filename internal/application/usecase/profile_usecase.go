package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

// ProfileUseCase perfil del usuario de la sesión.
type ProfileUseCase struct {
	repo repository.UserRepository
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(repo repository.UserRepository) *ProfileUseCase {
	return &ProfileUseCase{repo: repo}
}

// Get perfil del usuario. Sin usuario en sesión retorna domain.ErrUnauthorized.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// Update aplica los campos presentes. El nombre, si viene, no puede quedar vacío.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	upd := entity.UserUpdate{
		FirstName: trimmed(in.Nombre),
		LastName:  trimmed(in.Apellido),
		Address:   trimmed(in.Direccion),
		Phone:     trimmed(in.Telefono),
	}
	if upd.FirstName != nil && *upd.FirstName == "" {
		return nil, domain.ErrInvalidInput
	}
	if upd.IsEmpty() {
		return uc.Get(ctx, userID)
	}
	u, err := uc.repo.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
