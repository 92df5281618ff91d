package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProfitFilter rango de fechas inclusivo sobre CreatedAt.
type ProfitFilter struct {
	From *time.Time
	To   *time.Time
}

// ProfitRecordRepository puerto de solo inserción para ganancias. Un registro por pedido.
type ProfitRecordRepository interface {
	Create(ctx context.Context, record *entity.ProfitRecord) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.ProfitRecord, error)
	// List devuelve los registros más recientes primero.
	List(ctx context.Context, filter ProfitFilter) ([]*entity.ProfitRecord, error)
}
