package ports

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// HistoryReport datos de entrada del reporte de historial de stock.
type HistoryReport struct {
	Title   string
	Product *entity.Product // nil si el reporte abarca todos los productos
	Entries []*entity.StockHistoryEntry
}

// HistoryReportGenerator genera la representación imprimible (PDF) del historial.
type HistoryReportGenerator interface {
	GenerateHistoryPDF(ctx context.Context, report HistoryReport) ([]byte, error)
}
