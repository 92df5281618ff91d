package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitRecord ganancia registrada al validar un pedido. Nunca se modifica.
type ProfitRecord struct {
	ID            string
	OrderID       string
	ProductID     string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Profit        decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}
