package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInsufficientAvailable = errors.New("stock disponible insuficiente para reservar")
	ErrInvariantViolation    = errors.New("la operación rompe un invariante de inventario")
	ErrConcurrencyConflict   = errors.New("conflicto de concurrencia, reintente la operación")
	ErrRecordRetired         = errors.New("el registro de stock está retirado")
)
