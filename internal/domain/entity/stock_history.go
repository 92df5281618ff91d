package entity

import "time"

// Dirección de un cambio de stock.
const (
	ChangeTypeIncrease = "increase"
	ChangeTypeDecrease = "decrease"
)

// SystemActor se usa como autor cuando la operación no trae usuario.
const SystemActor = "system"

// StockHistoryEntry registro inmutable de un cambio de cantidad en un producto.
// Seq es el orden de inserción asignado por el almacén; desempata entradas con el mismo CreatedAt.
type StockHistoryEntry struct {
	ID               string
	Seq              int64
	ProductID        string
	PreviousQuantity int
	NewQuantity      int
	ChangeType       string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}
