package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnavailable       = errors.New("servicio no disponible")
	ErrSessionNotFound   = errors.New("sesión no encontrada")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrMissingHandoff    = errors.New("no hay datos del carrito")
	ErrPaymentFailed     = errors.New("el pago no fue aprobado")
	ErrPaymentNotReady   = errors.New("el pago no está listo para confirmarse")
)
