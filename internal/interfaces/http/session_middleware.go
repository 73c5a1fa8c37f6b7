package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/application/session"
	"github.com/jhoicas/laptophub-storefront/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSessionID  = "session_id"
	LocalUserID     = "user_id"
	LocalStorefront = "storefront"
)

// SessionCookie cookie alternativa al header Authorization.
const SessionCookie = "laptophub_session"

// sessionSource resuelve la sesión viva a partir del id del token.
type sessionSource interface {
	Get(ctx context.Context, sessionID string) (*session.Storefront, error)
}

// SessionMiddleware valida el token de sesión (Bearer o cookie) y carga la sesión viva en c.Locals.
func SessionMiddleware(jwtSecret string, sessions sessionSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := tokenFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token de sesión requerido"})
		}
		sessionID, userID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		sf, err := sessions.Get(c.UserContext(), sessionID)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalSessionID, sessionID)
		c.Locals(LocalUserID, userID)
		c.Locals(LocalStorefront, sf)
		return c.Next()
	}
}

// RequireUser exige una sesión con usuario (perfil, agregar al carrito, pago).
// Debe usarse DESPUÉS de SessionMiddleware.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sf := GetStorefront(c)
		if sf == nil || sf.UserID() == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "LOGIN_REQUIRED",
				Message: "debe iniciar sesión para continuar",
			})
		}
		return c.Next()
	}
}

func tokenFrom(c *fiber.Ctx) (string, bool) {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		tok := strings.TrimSpace(parts[1])
		return tok, tok != ""
	}
	tok := c.Cookies(SessionCookie)
	return tok, tok != ""
}

// GetStorefront sesión viva del contexto (después de SessionMiddleware).
func GetStorefront(c *fiber.Ctx) *session.Storefront {
	sf, _ := c.Locals(LocalStorefront).(*session.Storefront)
	return sf
}

// GetSessionID id de la sesión del token.
func GetSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSessionID).(string)
	return s
}

// GetUserID usuario de la sesión ("" si es anónima).
func GetUserID(c *fiber.Ctx) string {
	if sf := GetStorefront(c); sf != nil {
		return sf.UserID()
	}
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
