package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/application/usecase"
)

// CatalogHandler catálogo y comparador (público).
type CatalogHandler struct {
	catalog *usecase.CatalogUseCase
	compare *usecase.CompareUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog *usecase.CatalogUseCase, compare *usecase.CompareUseCase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, compare: compare}
}

func pageFrom(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Page: c.QueryInt("page", 0), Size: c.QueryInt("size", 12)}
	p.DefaultPage()
	return p
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        page  query  int  false  "Página (base 0)"  default(0)
// @Param        size  query  int  false  "Tamaño"           default(12)
// @Success      200   {object}  dto.ProductPageResponse
// @Router       /api/products [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.catalog.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por nombre
// @Tags         products
// @Produce      json
// @Param        nombre  query  string  false  "Texto a buscar"
// @Success      200     {object}  dto.ProductPageResponse
// @Router       /api/products/search [get]
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	out, err := h.catalog.Search(c.UserContext(), c.Query("nombre"), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByBrand godoc
// @Summary      Productos de una marca
// @Tags         products
// @Produce      json
// @Param        marca  query  string  true  "Marca"
// @Success      200    {object}  dto.ProductPageResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/products/brand [get]
func (h *CatalogHandler) ByBrand(c *fiber.Ctx) error {
	out, err := h.catalog.ByBrand(c.UserContext(), c.Query("marca"), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de producto
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.catalog.Get(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Compare godoc
// @Summary      Comparar dos productos
// @Tags         compare
// @Produce      json
// @Param        a  query  int  true  "Primer producto"
// @Param        b  query  int  true  "Segundo producto"
// @Success      200  {object}  dto.CompareResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/compare [get]
func (h *CatalogHandler) Compare(c *fiber.Ctx) error {
	a, errA := strconv.ParseInt(c.Query("a"), 10, 64)
	b, errB := strconv.ParseInt(c.Query("b"), 10, 64)
	if errA != nil || errB != nil {
		return badRequest(c, "VALIDATION", "a y b son requeridos")
	}
	out, err := h.compare.Compare(c.UserContext(), a, b)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompareSearch godoc
// @Summary      Buscar candidatos para el comparador (con ficha completa)
// @Tags         compare
// @Produce      json
// @Param        term  query  string  false  "Texto a buscar"
// @Success      200   {array}  dto.ProductDetailResponse
// @Router       /api/compare/search [get]
func (h *CatalogHandler) CompareSearch(c *fiber.Ctx) error {
	out, err := h.compare.Search(c.UserContext(), c.Query("term"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
