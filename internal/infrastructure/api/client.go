// Package api adaptadores REST hacia el backend de LaptopHub (carrito, catálogo, usuarios y órdenes).
// Usa net/http de la librería estándar; cada petición respeta el contexto del llamador.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/pkg/config"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Client cliente HTTP compartido por todos los repositorios REST.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente. Con Timeout 0 se usa el contexto como único límite.
func NewClient(cfg config.APIConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.Component("api"),
	}
}

// StatusError respuesta no 2xx del backend. Unwrap la traduce al error de dominio equivalente
// para que los llamadores puedan usar errors.Is.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s %s: HTTP %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("api: %s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap error de dominio según el código y el mensaje.
func (e *StatusError) Unwrap() error {
	mentionsStock := strings.Contains(strings.ToLower(e.Message), "stock")
	switch {
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case (e.Status == http.StatusBadRequest || e.Status == http.StatusConflict) && mentionsStock:
		return domain.ErrInsufficientStock
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusConflict:
		return domain.ErrConflict
	case e.Status >= 500:
		return domain.ErrUnavailable
	default:
		return nil
	}
}

// apiResponse sobre de error del backend.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// do ejecuta la petición; body y out pueden ser nil. Una respuesta 2xx sin cuerpo deja out intacto.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("api: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: %s %s: timeout o cancelación: %w", method, path, ctx.Err())
		}
		return fmt.Errorf("api: %s %s: %w: %v", method, path, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("api: leer respuesta: %w", err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Method: method, Path: path, Status: resp.StatusCode}
		var envelope apiResponse
		if jsonErr := json.Unmarshal(raw, &envelope); jsonErr == nil && envelope.Message != "" {
			serr.Message = envelope.Message
		} else {
			serr.Message = strings.TrimSpace(string(raw))
		}
		return serr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: %s %s: decodificar respuesta: %w", method, path, err)
	}
	return nil
}

// pageQuery parámetros de paginación del catálogo (base 0).
func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return q
}

// IsStatus true si err es un StatusError con ese código.
func IsStatus(err error, status int) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Status == status
}
