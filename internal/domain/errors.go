package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada fallo visible para el operador debe poder atribuirse a uno de estos tipos.
var (
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrProductNotFound      = errors.New("producto no encontrado")
	ErrOrderNotFound        = errors.New("pedido no encontrado")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
	ErrDeletionNotConfirmed = errors.New("la eliminación no pudo confirmarse")
	ErrStoreConflict        = errors.New("conflicto de concurrencia en el almacén")
	ErrNotStockTracked      = errors.New("el producto no lleva control de stock")
	ErrInvalidPrice         = errors.New("precio inválido")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrStoreUnavailable     = errors.New("almacén no disponible temporalmente")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
)
