package entity

import "time"

// Tipos de entidad publicados por el notificador.
const (
	EntityProduct      = "product"
	EntityOrder        = "order"
	EntityStockHistory = "stock_history"
	EntityProfitRecord = "profit_record"
)

// Tipos de cambio.
const (
	ChangeStockAdjusted        = "stock_adjusted"
	ChangeThresholdUpdated     = "threshold_updated"
	ChangePurchasePriceUpdated = "purchase_price_updated"
	ChangeOrderCreated         = "order_created"
	ChangeOrderValidated       = "order_validated"
	ChangeOrderCancelled       = "order_cancelled"
	ChangeOrderDeleted         = "order_deleted"
	ChangeHistoryAppended      = "history_appended"
	ChangeProfitRecorded       = "profit_recorded"
)

// ChangeEvent aviso de que una fila cambió. No lleva payload: los suscriptores releen.
type ChangeEvent struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ChangeKind string    `json:"change_kind"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ChangeFilter selecciona eventos por tipo e id de entidad; campos vacíos aceptan todo.
type ChangeFilter struct {
	EntityType string
	EntityID   string
}

// Match indica si el evento pasa el filtro.
func (f ChangeFilter) Match(e ChangeEvent) bool {
	if f.EntityType != "" && f.EntityType != e.EntityType {
		return false
	}
	if f.EntityID != "" && f.EntityID != e.EntityID {
		return false
	}
	return true
}
