package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAlertThreshold umbral de alerta que recibe un producto nuevo.
const DefaultAlertThreshold = 5

// Product representa un SKU del catálogo con los campos que consume el libro de stock.
// SellingPrice se guarda tal como lo captura el catálogo ("1500 DA", "1,200.50"); se normaliza
// al calcular la ganancia. Solo los productos físicos (IsPhysical) llevan control de stock.
type Product struct {
	ID             string
	Name           string
	SellingPrice   string
	PurchasePrice  decimal.Decimal // costo de compra (inicia en 0)
	IsPhysical     bool
	StockQuantity  int
	AlertThreshold int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
