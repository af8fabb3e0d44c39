package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrCategoryNotFound = errors.New("categoría no encontrada")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")

	// Motor de inventario.
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrUnsupportedOperation   = errors.New("operación de stock no soportada")
	ErrPartNotFound           = errors.New("repuesto no encontrado")
	ErrConcurrentModification = errors.New("el repuesto fue modificado concurrentemente, reintente")
)
