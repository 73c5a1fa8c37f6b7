package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

// CatalogUseCase listado, búsqueda y detalle de productos.
type CatalogUseCase struct {
	repo repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List página del catálogo.
func (uc *CatalogUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductPageResponse, error) {
	page.DefaultPage()
	pg, err := uc.repo.List(ctx, page.Page, page.Size)
	if err != nil {
		return nil, err
	}
	return toProductPageResponse(pg), nil
}

// Search busca por nombre. Un término vacío equivale al listado.
func (uc *CatalogUseCase) Search(ctx context.Context, nombre string, page dto.PageRequest) (*dto.ProductPageResponse, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return uc.List(ctx, page)
	}
	page.DefaultPage()
	pg, err := uc.repo.SearchByName(ctx, nombre, page.Page, page.Size)
	if err != nil {
		return nil, err
	}
	return toProductPageResponse(pg), nil
}

// ByBrand filtra por marca.
func (uc *CatalogUseCase) ByBrand(ctx context.Context, marca string, page dto.PageRequest) (*dto.ProductPageResponse, error) {
	marca = strings.TrimSpace(marca)
	if marca == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	pg, err := uc.repo.FindByBrand(ctx, marca, page.Page, page.Size)
	if err != nil {
		return nil, err
	}
	return toProductPageResponse(pg), nil
}

// Get ficha completa del producto.
func (uc *CatalogUseCase) Get(ctx context.Context, id int64) (*dto.ProductDetailResponse, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := toProductDetailResponse(d)
	return &out, nil
}
