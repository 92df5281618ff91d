package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
)

func sampleEntries() []*entity.StockHistoryEntry {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []*entity.StockHistoryEntry{
		{ID: "h-2", Seq: 2, ProductID: "0b6f3c1e-aaaa-bbbb-cccc-000000000001", PreviousQuantity: 15, NewQuantity: 3,
			ChangeType: entity.ChangeTypeDecrease, Notes: "venta mayorista", CreatedBy: "admin-1", CreatedAt: at.Add(time.Hour)},
		{ID: "h-1", Seq: 1, ProductID: "0b6f3c1e-aaaa-bbbb-cccc-000000000001", PreviousQuantity: 10, NewQuantity: 15,
			ChangeType: entity.ChangeTypeIncrease, Notes: "Stock changed from 10 to 15", CreatedBy: "system", CreatedAt: at},
	}
}

func TestGenerateHistoryPDF_ConProducto(t *testing.T) {
	g := NewMarotoHistoryReport()
	product := &entity.Product{ID: "0b6f3c1e-aaaa-bbbb-cccc-000000000001", Name: "Caja IPTV", SellingPrice: "1500 DA",
		IsPhysical: true, StockQuantity: 3, AlertThreshold: 5}

	out, err := g.GenerateHistoryPDF(context.Background(), ports.HistoryReport{
		Title:   "Historial de stock - Caja IPTV",
		Product: product,
		Entries: sampleEntries(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateHistoryPDF_SinMovimientos(t *testing.T) {
	out, err := NewMarotoHistoryReport().GenerateHistoryPDF(context.Background(), ports.HistoryReport{Title: "Historial de stock"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateHistoryPDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoHistoryReport().GenerateHistoryPDF(ctx, ports.HistoryReport{Title: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	s := summarize(sampleEntries())
	assert.Equal(t, reportSummary{Entries: 2, Increases: 1, Decreases: 1, NetChange: -7}, s)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "AGOTADO", statusLabel(domaininv.AlertOut))
	assert.Equal(t, "STOCK BAJO", statusLabel(domaininv.AlertLow))
	assert.Equal(t, "OK", statusLabel(domaininv.AlertOK))
}
