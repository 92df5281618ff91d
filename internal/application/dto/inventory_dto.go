package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// AdjustStockRequest body para PUT /api/inventory/products/:id/stock.
// Quantity se decodifica como decimal para distinguir 2.5 (cantidad inválida) de un body mal formado.
type AdjustStockRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	Notes    string           `json:"notes,omitempty"`
}

// AdjustThresholdRequest body para PUT /api/inventory/products/:id/threshold.
type AdjustThresholdRequest struct {
	Threshold *int `json:"threshold"`
}

// PurchasePriceRequest body para PUT /api/inventory/products/:id/purchase-price.
type PurchasePriceRequest struct {
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// HistoryQueryRequest query params de GET /api/inventory/history.
type HistoryQueryRequest struct {
	ProductID string `query:"product_id"`
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`   // YYYY-MM-DD, incluye el día completo
	PageRequest
}

// ── Responses ─────────────────────────────────────────────────────────────────

// ProductStockDTO producto con su estado de alerta.
type ProductStockDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SellingPrice   string          `json:"selling_price"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	IsPhysical     bool            `json:"is_physical"`
	StockQuantity  int             `json:"stock_quantity"`
	AlertThreshold int             `json:"alert_threshold"`
	AlertStatus    string          `json:"alert_status"` // ok | low | out
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StockHistoryEntryDTO entrada del historial.
type StockHistoryEntryDTO struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	PreviousQuantity int       `json:"previous_quantity"`
	NewQuantity      int       `json:"new_quantity"`
	ChangeType       string    `json:"change_type"`
	Notes            string    `json:"notes"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	Product        ProductStockDTO      `json:"product"`
	Entry          StockHistoryEntryDTO `json:"entry"`
	PreviousStatus string               `json:"previous_status"`
}

// HistoryPageDTO página del historial.
type HistoryPageDTO struct {
	Items []StockHistoryEntryDTO `json:"items"`
	Page  PageResponse           `json:"page"`
}

// HistoryVerificationDTO resultado de reproducir el historial de un producto.
type HistoryVerificationDTO struct {
	ProductID       string `json:"product_id"`
	CurrentQuantity int    `json:"current_quantity"`
	Entries         int    `json:"entries"`
	StartQuantity   int    `json:"start_quantity"`
	ReplayedFinal   int    `json:"replayed_final"`
	Consistent      bool   `json:"consistent"`
	BrokenAtSeq     int64  `json:"broken_at_seq,omitempty"`
}

// ToHistoryEntryDTO convierte una entrada del dominio.
func ToHistoryEntryDTO(e *entity.StockHistoryEntry) StockHistoryEntryDTO {
	return StockHistoryEntryDTO{
		ID:               e.ID,
		ProductID:        e.ProductID,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		ChangeType:       e.ChangeType,
		Notes:            e.Notes,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
	}
}

// ToProductStockDTO convierte un producto; status lo calcula el caller.
func ToProductStockDTO(p *entity.Product, status string) ProductStockDTO {
	return ProductStockDTO{
		ID:             p.ID,
		Name:           p.Name,
		SellingPrice:   p.SellingPrice,
		PurchasePrice:  p.PurchasePrice,
		IsPhysical:     p.IsPhysical,
		StockQuantity:  p.StockQuantity,
		AlertThreshold: p.AlertThreshold,
		AlertStatus:    status,
		UpdatedAt:      p.UpdatedAt,
	}
}
