package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

// ParsePrice normaliza un precio con formato de moneda ("1500 DA", "1,250.75 DZD") y lo convierte a decimal.
// Se descarta todo carácter que no sea dígito o el separador decimal '.'.
func ParsePrice(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" || clean == "." {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, raw)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, raw)
	}
	return d, nil
}

// Profit resultado del cálculo con ambos precios ya normalizados.
type Profit struct {
	SellingPrice  decimal.Decimal
	PurchasePrice decimal.Decimal
	Amount        decimal.Decimal
}

// ComputeProfit ganancia = precio de venta - precio de compra. Puede ser negativa.
func ComputeProfit(sellingPrice string, purchasePrice decimal.Decimal) (Profit, error) {
	selling, err := ParsePrice(sellingPrice)
	if err != nil {
		return Profit{}, err
	}
	if purchasePrice.IsNegative() {
		return Profit{}, fmt.Errorf("%w: costo negativo", domain.ErrInvalidPrice)
	}
	return Profit{
		SellingPrice:  selling,
		PurchasePrice: purchasePrice,
		Amount:        selling.Sub(purchasePrice),
	}, nil
}
