package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
)

// CartHandler página del carrito y resumen del header de la sesión.
type CartHandler struct{}

// NewCartHandler construye el handler.
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// Get godoc
// @Summary      Estado de la página del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        reload  query  bool  false  "Forzar recarga autoritativa"
// @Success      200  {object}  dto.CartView
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	sf := GetStorefront(c)
	var (
		out dto.CartView
		err error
	)
	if c.QueryBool("reload", false) {
		out, err = sf.ReloadCart(c.UserContext())
	} else {
		out, err = sf.CartView(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateQuantity godoc
// @Summary      Cambiar la cantidad de un ítem (optimista, con debounce)
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del ítem"
// @Param        body  body  dto.UpdateQuantityRequest  true  "Cantidad pedida"
// @Success      200   {object}  dto.CartView
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := GetStorefront(c).UpdateQuantity(c.UserContext(), int64(id), in.Cantidad)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Eliminar un ítem
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del ítem"
// @Success      202  {object}  dto.CartView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := GetStorefront(c).RemoveItem(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// AddItem godoc
// @Summary      Agregar un producto al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.NoticeView
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.ProductID <= 0 {
		return badRequest(c, "VALIDATION", "productId es requerido")
	}
	if in.Cantidad <= 0 {
		in.Cantidad = 1
	}
	out, err := GetStorefront(c).AddItem(c.UserContext(), in.ProductID, in.Cantidad)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Checkout godoc
// @Summary      Validar stock y pasar al pago
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CheckoutRedirectResponse
// @Failure      409  {object}  dto.CheckoutRejectedResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	sf := GetStorefront(c)
	out, err := sf.GoToCheckout(c.UserContext())
	if err == nil {
		return c.JSON(out)
	}
	if !errors.Is(err, domain.ErrInsufficientStock) {
		return writeError(c, err)
	}
	view, verr := sf.CartView(c.UserContext())
	if verr != nil {
		return writeError(c, verr)
	}
	return c.Status(fiber.StatusConflict).JSON(dto.CheckoutRejectedResponse{
		Code:    "INSUFFICIENT_STOCK",
		Message: err.Error(),
		Carrito: view,
	})
}

// Badge godoc
// @Summary      Resumen del carrito en el header
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BadgeView
// @Router       /api/badge [get]
func (h *CartHandler) Badge(c *fiber.Ctx) error {
	out, err := GetStorefront(c).Badge(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetBadgeVisible godoc
// @Summary      Abrir o cerrar el desplegable del header
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BadgeVisibilityRequest  true  "Visibilidad"
// @Success      200   {object}  dto.BadgeView
// @Router       /api/badge/visible [put]
func (h *CartHandler) SetBadgeVisible(c *fiber.Ctx) error {
	var in dto.BadgeVisibilityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := GetStorefront(c).SetBadgeVisible(c.UserContext(), in.Visible)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
