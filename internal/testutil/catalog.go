package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.ProductRepository = (*FakeProductRepository)(nil)

// FakeProductRepository catálogo en memoria, paginado como el backend (base 0).
type FakeProductRepository struct {
	mu       sync.Mutex
	products []entity.ProductDetail
	detailed []int64
	Fail     error
}

// NewFakeProductRepository catálogo con las fichas dadas (en ese orden).
func NewFakeProductRepository(products ...entity.ProductDetail) *FakeProductRepository {
	return &FakeProductRepository{products: products}
}

func (r *FakeProductRepository) List(_ context.Context, page, size int) (*entity.ProductPage, error) {
	return r.filter(page, size, func(entity.ProductDetail) bool { return true })
}

func (r *FakeProductRepository) SearchByName(_ context.Context, name string, page, size int) (*entity.ProductPage, error) {
	name = strings.ToLower(name)
	return r.filter(page, size, func(p entity.ProductDetail) bool {
		return strings.Contains(strings.ToLower(p.Name), name)
	})
}

func (r *FakeProductRepository) FindByBrand(_ context.Context, brand string, page, size int) (*entity.ProductPage, error) {
	return r.filter(page, size, func(p entity.ProductDetail) bool { return strings.EqualFold(p.Brand, brand) })
}

func (r *FakeProductRepository) GetByID(_ context.Context, id int64) (*entity.ProductDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detailed = append(r.detailed, id)
	if r.Fail != nil {
		return nil, r.Fail
	}
	for _, p := range r.products {
		if p.ID == id {
			d := p
			return &d, nil
		}
	}
	return nil, nil
}

// Detailed IDs de las fichas pedidas.
func (r *FakeProductRepository) Detailed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.detailed...)
}

func (r *FakeProductRepository) filter(page, size int, keep func(entity.ProductDetail) bool) (*entity.ProductPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	var all []entity.Product
	for _, p := range r.products {
		if keep(p) {
			all = append(all, p.Product)
		}
	}
	out := &entity.ProductPage{Size: size, Number: page, TotalElements: int64(len(all))}
	if size > 0 {
		out.TotalPages = (len(all) + size - 1) / size
		from := page * size
		if from < len(all) {
			to := from + size
			if to > len(all) {
				to = len(all)
			}
			out.Content = all[from:to]
		}
	}
	out.Empty = len(out.Content) == 0
	return out, nil
}
