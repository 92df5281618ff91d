package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProfitQueryRequest query params de GET /api/analytics/profit.
type ProfitQueryRequest struct {
	From string `query:"from"` // YYYY-MM-DD
	To   string `query:"to"`   // YYYY-MM-DD, incluye el día completo
}

// ProfitRecordDTO ganancia registrada al validar un pedido.
type ProfitRecordDTO struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	ProductID     string          `json:"product_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Profit        decimal.Decimal `json:"profit"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProfitSummaryDTO agregado de ganancias de un rango. Se calcula al leer; no hay contadores que reiniciar.
type ProfitSummaryDTO struct {
	From         *time.Time        `json:"from,omitempty"`
	To           *time.Time        `json:"to,omitempty"`
	Count        int               `json:"count"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
	TotalProfit  decimal.Decimal   `json:"total_profit"`
	Records      []ProfitRecordDTO `json:"records"`
}

// ProfitDashboardDTO KPIs de ganancia del día y del mes en curso.
type ProfitDashboardDTO struct {
	TodayProfit   decimal.Decimal `json:"today_profit"`
	TodayOrders   int             `json:"today_orders"`
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`
	MonthlyOrders int             `json:"monthly_orders"`
	LowStockCount int             `json:"low_stock_count"`
	DateLabel     string          `json:"date_label"` // ej: "Marzo 2026"
}

// ToProfitRecordDTO convierte un registro del dominio.
func ToProfitRecordDTO(r *entity.ProfitRecord) ProfitRecordDTO {
	return ProfitRecordDTO{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ProductID:     r.ProductID,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
		Profit:        r.Profit,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
	}
}
