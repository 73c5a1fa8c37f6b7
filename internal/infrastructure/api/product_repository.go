package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository lectura del catálogo en /api/products.
type ProductRepository struct {
	c *Client
}

func NewProductRepository(c *Client) *ProductRepository {
	return &ProductRepository{c: c}
}

func (r *ProductRepository) List(ctx context.Context, page, size int) (*entity.ProductPage, error) {
	return r.page(ctx, "/api/products", "", "", page, size)
}

func (r *ProductRepository) SearchByName(ctx context.Context, name string, page, size int) (*entity.ProductPage, error) {
	return r.page(ctx, "/api/products/search", "nombre", name, page, size)
}

func (r *ProductRepository) FindByBrand(ctx context.Context, brand string, page, size int) (*entity.ProductPage, error) {
	return r.page(ctx, "/api/products/brand", "marca", brand, page, size)
}

// GetByID devuelve nil, nil si el producto no existe.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.ProductDetail, error) {
	var out productDetailDTO
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, nil, &out); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out.toEntity(), nil
}

func (r *ProductRepository) page(ctx context.Context, path, key, value string, page, size int) (*entity.ProductPage, error) {
	q := pageQuery(page, size)
	if key != "" {
		q.Set(key, value)
	}
	var out pageDTO
	if err := r.c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out.toEntity(), nil
}
