package inventory

import "github.com/jhoicas/Tienda-api/internal/domain/entity"

// AlertStatus estado de alerta derivado de (cantidad, umbral). No se persiste.
type AlertStatus string

const (
	AlertOK  AlertStatus = "ok"
	AlertLow AlertStatus = "low"
	AlertOut AlertStatus = "out"
)

// Classify clasifica una cantidad contra su umbral:
// OUT si quantity == 0, LOW si 0 < quantity <= threshold, OK en otro caso.
func Classify(quantity, threshold int) AlertStatus {
	switch {
	case quantity <= 0:
		return AlertOut
	case quantity <= threshold:
		return AlertLow
	default:
		return AlertOK
	}
}

// ClassifyProduct atajo sobre los campos del producto.
func ClassifyProduct(p *entity.Product) AlertStatus {
	return Classify(p.StockQuantity, p.AlertThreshold)
}

// NeedsRestock indica si el estado requiere reposición.
func (s AlertStatus) NeedsRestock() bool { return s != AlertOK }

// ListLowStock devuelve los productos que requieren reposición, en el mismo orden del catálogo.
func ListLowStock(products []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if ClassifyProduct(p).NeedsRestock() {
			out = append(out, p)
		}
	}
	return out
}
