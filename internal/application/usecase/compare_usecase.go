package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

// compareSearchSize resultados de búsqueda que se enriquecen con su ficha.
const compareSearchSize = 12

// CompareUseCase búsqueda con ficha completa y comparación lado a lado de dos laptops.
type CompareUseCase struct {
	repo          repository.ProductRepository
	maxConcurrent int
}

// NewCompareUseCase construye el caso de uso. maxConcurrent acota las fichas pedidas en paralelo.
func NewCompareUseCase(repo repository.ProductRepository, maxConcurrent int) *CompareUseCase {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &CompareUseCase{repo: repo, maxConcurrent: maxConcurrent}
}

// Search busca por nombre y devuelve la ficha de cada resultado, en el orden del backend.
func (uc *CompareUseCase) Search(ctx context.Context, term string) ([]dto.ProductDetailResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.ProductDetailResponse{}, nil
	}
	pg, err := uc.repo.SearchByName(ctx, term, 0, compareSearchSize)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(pg.Content))
	for _, p := range pg.Content {
		ids = append(ids, p.ID)
	}
	details, err := uc.details(ctx, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductDetailResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toProductDetailResponse(d))
	}
	return out, nil
}

// Compare tabla de especificaciones de dos productos.
func (uc *CompareUseCase) Compare(ctx context.Context, a, b int64) (*dto.CompareResponse, error) {
	if a <= 0 || b <= 0 {
		return nil, domain.ErrInvalidInput
	}
	details, err := uc.details(ctx, a, b)
	if err != nil {
		return nil, err
	}
	da, db := details[0], details[1]
	return &dto.CompareResponse{
		A: toProductDetailResponse(da),
		B: toProductDetailResponse(db),
		Filas: []dto.CompareRow{
			row("Precio", money.Format(da.Price), money.Format(db.Price)),
			row("Procesador", da.Processor, db.Processor),
			row("RAM (GB)", da.RAM, db.RAM),
			row("Almacenamiento (GB)", da.Storage, db.Storage),
			row("Pantalla", da.Screen, db.Screen),
			row("GPU", da.GPU, db.GPU),
			row("Peso (g)", da.Weight, db.Weight),
		},
	}, nil
}

// details pide las fichas en paralelo conservando el orden de ids.
func (uc *CompareUseCase) details(ctx context.Context, ids ...int64) ([]*entity.ProductDetail, error) {
	out := make([]*entity.ProductDetail, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.maxConcurrent)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			d, err := uc.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if d == nil {
				return domain.ErrNotFound
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func row(campo, a, b string) dto.CompareRow {
	if strings.TrimSpace(a) == "" {
		a = "-"
	}
	if strings.TrimSpace(b) == "" {
		b = "-"
	}
	return dto.CompareRow{Campo: campo, A: a, B: b}
}
