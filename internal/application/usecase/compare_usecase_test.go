package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/application/usecase"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
)

func TestCompare_Search_DevuelveFichasEnOrden(t *testing.T) {
	repo := catalog()
	uc := usecase.NewCompareUseCase(repo, 2)

	res, err := uc.Search(context.Background(), "pad")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, int64(1), res[0].ID)
	assert.Equal(t, int64(2), res[1].ID)
	assert.Equal(t, "Intel Core i7", res[0].Procesador)
	assert.ElementsMatch(t, []int64{1, 2}, repo.Detailed())
}

func TestCompare_Search_TerminoVacio(t *testing.T) {
	repo := catalog()
	uc := usecase.NewCompareUseCase(repo, 0)

	res, err := uc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Empty(t, repo.Detailed())
}

func TestCompare_Compare_Tabla(t *testing.T) {
	uc := usecase.NewCompareUseCase(catalog(), 0)

	res, err := uc.Compare(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "ThinkPad X1", res.A.Nombre)
	assert.Equal(t, "MacBook Air", res.B.Nombre)

	require.Len(t, res.Filas, 7)
	assert.Equal(t, dto.CompareRow{Campo: "Precio", A: "$ 1,899.00", B: "$ 1,199.00"}, res.Filas[0])
	assert.Equal(t, dto.CompareRow{Campo: "GPU", A: "-", B: "-"}, res.Filas[5], "los datos vacíos se muestran como -")
}

func TestCompare_Compare_Errores(t *testing.T) {
	uc := usecase.NewCompareUseCase(catalog(), 0)

	_, err := uc.Compare(context.Background(), 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Compare(context.Background(), 1, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
