package repository

import (
	"context"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo (DIP).
type ProductRepository interface {
	List(ctx context.Context, page, size int) (*entity.ProductPage, error)
	SearchByName(ctx context.Context, name string, page, size int) (*entity.ProductPage, error)
	FindByBrand(ctx context.Context, brand string, page, size int) (*entity.ProductPage, error)
	GetByID(ctx context.Context, id int64) (*entity.ProductDetail, error)
}
