package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/laptophub-storefront/internal/application/checkout"
	"github.com/jhoicas/laptophub-storefront/internal/application/session"
	"github.com/jhoicas/laptophub-storefront/internal/application/usecase"
	"github.com/jhoicas/laptophub-storefront/pkg/config"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions  *session.Manager
	CatalogUC *usecase.CatalogUseCase
	CompareUC *usecase.CompareUseCase
	ProfileUC *usecase.ProfileUseCase
	Receipts  checkout.ReceiptGenerator
	JWT       config.JWTConfig
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log.Component("http")))

	// Catálogo y comparador (público)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.CompareUC)
	products := api.Group("/products")
	products.Get("/", catalogHandler.List)
	products.Get("/search", catalogHandler.Search)
	products.Get("/brand", catalogHandler.ByBrand)
	products.Get("/:id", catalogHandler.Get)
	compare := api.Group("/compare")
	compare.Get("/", catalogHandler.Compare)
	compare.Get("/search", catalogHandler.CompareSearch)

	// Sesión
	sessionHandler := NewSessionHandler(deps.Sessions, deps.JWT, log.Component("http.session"))
	api.Post("/session", sessionHandler.Create)

	// Rutas con sesión (Bearer o cookie)
	withSession := SessionMiddleware(deps.JWT.Secret, deps.Sessions)
	api.Put("/session/user", withSession, sessionHandler.Login)
	api.Delete("/session", withSession, sessionHandler.Delete)

	cartHandler := NewCartHandler()
	cart := api.Group("/cart", withSession)
	cart.Get("/", cartHandler.Get)
	cart.Put("/items/:id", cartHandler.UpdateQuantity)
	cart.Delete("/items/:id", cartHandler.RemoveItem)
	cart.Post("/items", RequireUser(), cartHandler.AddItem)
	cart.Post("/checkout", cartHandler.Checkout)

	badge := api.Group("/badge", withSession)
	badge.Get("/", cartHandler.Badge)
	badge.Put("/visible", cartHandler.SetBadgeVisible)

	// Perfil y pago (requieren usuario)
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profile := api.Group("/profile", withSession, RequireUser())
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Update)

	checkoutHandler := NewCheckoutHandler(deps.Receipts, log.Component("http.checkout"))
	pay := api.Group("/checkout", withSession, RequireUser())
	pay.Get("/", checkoutHandler.Get)
	pay.Put("/address", checkoutHandler.SetAddress)
	pay.Post("/order", checkoutHandler.PlaceOrder)
	pay.Put("/method", checkoutHandler.SetMethod)
	pay.Post("/confirm", checkoutHandler.Confirm)
	pay.Get("/receipt", checkoutHandler.Receipt)
}

// RequestLogger registra cada petición con zerolog.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("request")
		return err
	}
}

// Health responde el estado del servicio.
func Health(service string, live func() int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := fiber.Map{"status": "ok", "service": service}
		if live != nil {
			out["sesiones"] = live()
		}
		return c.JSON(out)
	}
}
