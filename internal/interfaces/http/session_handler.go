package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/application/session"
	"github.com/jhoicas/laptophub-storefront/pkg/config"
	"github.com/jhoicas/laptophub-storefront/pkg/jwt"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// SessionHandler alta, login y cierre de sesiones del storefront.
type SessionHandler struct {
	sessions *session.Manager
	jwt      config.JWTConfig
	log      *logger.Logger
}

// NewSessionHandler construye el handler.
func NewSessionHandler(sessions *session.Manager, jwtCfg config.JWTConfig, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, jwt: jwtCfg, log: log}
}

// Create godoc
// @Summary      Crear sesión
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SessionRequest  false  "Usuario opcional"
// @Success      201   {object}  dto.SessionResponse
// @Router       /api/session [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var in dto.SessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	s, err := h.sessions.Create(c.UserContext(), strings.TrimSpace(in.UserID))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.issue(c, s.ID, s.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Asociar usuario a la sesión
// @Tags         session
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SessionRequest  true  "Usuario"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/session/user [put]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.SessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return badRequest(c, "VALIDATION", "userId es requerido")
	}
	sessionID := GetSessionID(c)
	if err := h.sessions.Login(c.UserContext(), sessionID, userID); err != nil {
		return writeError(c, err)
	}
	out, err := h.issue(c, sessionID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Cerrar sesión
// @Tags         session
// @Security     Bearer
// @Success      204
// @Router       /api/session [delete]
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.UserContext(), GetSessionID(c)); err != nil {
		return writeError(c, err)
	}
	c.ClearCookie(SessionCookie)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) issue(c *fiber.Ctx, sessionID, userID string) (*dto.SessionResponse, error) {
	tok, err := jwt.Generate(h.jwt.Secret, sessionID, userID, h.jwt.Issuer, h.jwt.Expiration)
	if err != nil {
		h.log.Error().Err(err).Msg("firmar token de sesión")
		return nil, err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(h.jwt.Expiration) * time.Minute),
	})
	return &dto.SessionResponse{Token: tok, SessionID: sessionID, UserID: userID}, nil
}
