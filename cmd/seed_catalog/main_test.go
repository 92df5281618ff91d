package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

func TestWriteSQL_EscapaYNoPisaStock(t *testing.T) {
	products := []*entity.Product{{
		ID: "6f1c9a8e-2b7d-4c4e-9a51-3d2f0e7b8c10", Name: "Caja d'Or", SellingPrice: "1500 DA",
		PurchasePrice: decimal.NewFromInt(800), IsPhysical: true, StockQuantity: 4, AlertThreshold: 5,
	}}
	var b strings.Builder
	require.NoError(t, writeSQL(&b, "/tmp/catalogo.csv", products))
	sql := b.String()

	assert.Contains(t, sql, "-- Generado desde catalogo.csv")
	assert.Contains(t, sql, "VALUES ('6f1c9a8e-2b7d-4c4e-9a51-3d2f0e7b8c10', 'Caja d''Or', '1500 DA', 800, true, 4, 5)")
	assert.NotContains(t, sql, "stock_quantity = EXCLUDED")
	assert.Contains(t, sql, "BEGIN;\n")
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}

func TestWriteSQL_RechazaIDNoUUID(t *testing.T) {
	var b strings.Builder
	err := writeSQL(&b, "catalogo.csv", []*entity.Product{{ID: "p-1", Name: "Caja"}})
	assert.Error(t, err)
	assert.Empty(t, b.String())
}
