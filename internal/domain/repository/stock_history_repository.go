package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// HistoryFilter consulta del historial. From y To son inclusivos; Limit 0 = sin límite.
type HistoryFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockHistoryRepository puerto del historial de stock. Solo inserción y lectura:
// no existe operación de actualización ni de borrado.
type StockHistoryRepository interface {
	// Append asigna ID (si falta) y Seq a la entrada y la persiste.
	Append(ctx context.Context, entry *entity.StockHistoryEntry) error
	// Query devuelve las entradas más recientes primero.
	Query(ctx context.Context, filter HistoryFilter) ([]*entity.StockHistoryEntry, error)
}
