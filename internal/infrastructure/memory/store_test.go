package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, s *memory.Store, id string, qty int) {
	t.Helper()
	require.NoError(t, s.Repos().Products.Create(context.Background(), &entity.Product{
		ID: id, Name: id, SellingPrice: "100", IsPhysical: true,
		StockQuantity: qty, AlertThreshold: entity.DefaultAlertThreshold,
	}))
}

func TestRun_RollbackSiFnFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "P1", 10)

	boom := errors.New("boom")
	err := s.Run(ctx, func(r ports.Repos) error {
		ok, err := r.Products.CompareAndSetStock(ctx, "P1", 10, 9)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, r.History.Append(ctx, &entity.StockHistoryEntry{ProductID: "P1", PreviousQuantity: 10, NewQuantity: 9}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Repos().Products.GetByID(ctx, "P1")
	assert.Equal(t, 10, p.StockQuantity)
	hist, _ := s.Repos().History.Query(ctx, repository.HistoryFilter{ProductID: "P1"})
	assert.Empty(t, hist)
}

func TestRun_ContextoCanceladoNoConfirma(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "P1", 10)

	ctx, cancel := context.WithCancel(context.Background())
	err := s.Run(ctx, func(r ports.Repos) error {
		_, _ = r.Products.CompareAndSetStock(ctx, "P1", 10, 0)
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	p, _ := s.Repos().Products.GetByID(context.Background(), "P1")
	assert.Equal(t, 10, p.StockQuantity)
}

func TestCompareAndSetStock_FallaSiCambio(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "P1", 10)
	products := s.Repos().Products

	ok, err := products.CompareAndSetStock(ctx, "P1", 9, 20)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = products.CompareAndSetStock(ctx, "P1", 10, 20)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "P1", 10)

	p, _ := s.Repos().Products.GetByID(ctx, "P1")
	p.StockQuantity = 999

	again, _ := s.Repos().Products.GetByID(ctx, "P1")
	assert.Equal(t, 10, again.StockQuantity)
}

func TestHistory_OrdenYFiltros(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	h := s.Repos().History
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{ProductID: "P1", PreviousQuantity: 0, NewQuantity: 5, CreatedAt: base}))
	require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{ProductID: "P2", PreviousQuantity: 0, NewQuantity: 1, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{ProductID: "P1", PreviousQuantity: 5, NewQuantity: 7, CreatedAt: base.Add(48 * time.Hour)}))

	all, err := h.Query(ctx, repository.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Seq, "más reciente primero")
	assert.NotEmpty(t, all[0].ID)

	from := base
	to := base.Add(2 * time.Hour)
	p1, err := h.Query(ctx, repository.HistoryFilter{ProductID: "P1", From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, p1, 1)
	assert.Equal(t, 5, p1[0].NewQuantity)

	page, _ := h.Query(ctx, repository.HistoryFilter{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, int64(2), page[0].Seq)
}

func TestHistory_OrdenaPorSeqAunqueElRelojDifiera(t *testing.T) {
	ctx := context.Background()
	h := memory.NewStore().Repos().History
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{ProductID: "P1", PreviousQuantity: 10, NewQuantity: 8, CreatedAt: at}))
	// Escrito después por una instancia con el reloj atrasado.
	require.NoError(t, h.Append(ctx, &entity.StockHistoryEntry{ProductID: "P1", PreviousQuantity: 8, NewQuantity: 3, CreatedAt: at.Add(-2 * time.Second)}))

	list, err := h.Query(ctx, repository.HistoryFilter{ProductID: "P1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].NewQuantity, "la última escritura va primero")
}

func TestDeleteProduct_InvalidaHistorial(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedProduct(t, s, "P1", 1)
	require.NoError(t, s.Repos().History.Append(ctx, &entity.StockHistoryEntry{ProductID: "P1", NewQuantity: 1}))

	require.NoError(t, s.Repos().Products.Delete(ctx, "P1"))

	p, _ := s.Repos().Products.GetByID(ctx, "P1")
	assert.Nil(t, p)
	hist, _ := s.Repos().History.Query(ctx, repository.HistoryFilter{ProductID: "P1"})
	assert.Empty(t, hist)
}

func TestOrders_UpdateStatusCondicional(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	orders := s.Repos().Orders
	require.NoError(t, orders.Create(ctx, &entity.Order{ID: "O1", ProductID: "P1", Status: entity.OrderStatusPending}))

	ok, err := orders.UpdateStatus(ctx, "O1", entity.OrderStatusPending, entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = orders.UpdateStatus(ctx, "O1", entity.OrderStatusPending, entity.OrderStatusValidated)
	require.NoError(t, err)
	assert.False(t, ok)

	list, _ := orders.List(ctx, repository.OrderFilter{Status: entity.OrderStatusCancelled})
	assert.Len(t, list, 1)

	deleted, _ := orders.Delete(ctx, "O1")
	assert.True(t, deleted)
	deleted, _ = orders.Delete(ctx, "O1")
	assert.False(t, deleted)
}

func TestProfits_UnoPorPedido(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	profits := s.Repos().Profits
	rec := &entity.ProfitRecord{OrderID: "O1", ProductID: "P1", Profit: decimal.NewFromInt(700)}
	require.NoError(t, profits.Create(ctx, rec))

	err := profits.Create(ctx, &entity.ProfitRecord{OrderID: "O1", ProductID: "P1"})
	assert.ErrorIs(t, err, domain.ErrStoreConflict)

	got, _ := profits.GetByOrderID(ctx, "O1")
	require.NotNil(t, got)
	assert.True(t, decimal.NewFromInt(700).Equal(got.Profit))
}
