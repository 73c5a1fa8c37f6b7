package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/laptophub-storefront/internal/application/checkout"
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// CheckoutHandler pantalla de pago de la sesión.
type CheckoutHandler struct {
	receipts checkout.ReceiptGenerator
	log      *logger.Logger
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(receipts checkout.ReceiptGenerator, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{receipts: receipts, log: log}
}

// Get godoc
// @Summary      Estado del pago
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CheckoutView
// @Router       /api/checkout [get]
func (h *CheckoutHandler) Get(c *fiber.Ctx) error {
	out, err := GetStorefront(c).Checkout(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetAddress godoc
// @Summary      Elegir dirección de envío
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShippingAddressRequest  true  "Dirección"
// @Success      200   {object}  dto.CheckoutView
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkout/address [put]
func (h *CheckoutHandler) SetAddress(c *fiber.Ctx) error {
	var in dto.ShippingAddressRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := GetStorefront(c).SetShippingAddress(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PlaceOrder godoc
// @Summary      Crear la orden y preparar el pago
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  dto.CheckoutView
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/checkout/order [post]
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	out, err := GetStorefront(c).PlaceOrder(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// SetMethod godoc
// @Summary      Estado del formulario del medio de pago
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentMethodRequest  true  "Formulario completo"
// @Success      200   {object}  dto.CheckoutView
// @Router       /api/checkout/method [put]
func (h *CheckoutHandler) SetMethod(c *fiber.Ctx) error {
	var in dto.PaymentMethodRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := GetStorefront(c).SelectPaymentMethod(c.UserContext(), in.Completo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Resultado del widget de pago
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmPaymentRequest  true  "Resultado"
// @Success      200   {object}  dto.CheckoutView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/checkout/confirm [post]
func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := GetStorefront(c).ConfirmPayment(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante de compra en PDF
// @Tags         checkout
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/checkout/receipt [get]
func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	data, err := GetStorefront(c).Receipt(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.receipts.GenerateReceipt(c.UserContext(), data)
	if err != nil {
		h.log.Error().Err(err).Int64("order_id", data.OrderID).Msg("generar comprobante")
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="orden-%d.pdf"`, data.OrderID))
	return c.Send(pdf)
}
