package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// recordingNotifier guarda los eventos publicados.
type recordingNotifier struct {
	mu     sync.Mutex
	events []entity.ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev entity.ChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) Events() []entity.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]entity.ChangeEvent, len(n.events))
	copy(out, n.events)
	return out
}

// conflictingRunner simula escrituras concurrentes: las primeras `failures` actualizaciones
// condicionales de stock pierden la carrera.
type conflictingRunner struct {
	store    *memory.Store
	mu       sync.Mutex
	failures int
	attempts int
}

func (r *conflictingRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	r.mu.Lock()
	r.attempts++
	r.mu.Unlock()
	return r.store.Run(ctx, func(repos ports.Repos) error {
		repos.Products = &losingProductRepo{ProductRepository: repos.Products, runner: r}
		return fn(repos)
	})
}

type losingProductRepo struct {
	repository.ProductRepository
	runner *conflictingRunner
}

func (p *losingProductRepo) CompareAndSetStock(ctx context.Context, id string, expected, next int) (bool, error) {
	p.runner.mu.Lock()
	lose := p.runner.failures > 0
	if lose {
		p.runner.failures--
	}
	p.runner.mu.Unlock()
	if lose {
		return false, nil
	}
	return p.ProductRepository.CompareAndSetStock(ctx, id, expected, next)
}

func seedProduct(t *testing.T, store *memory.Store, name string, physical bool, qty, threshold int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:           name,
		SellingPrice:   "1500 DA",
		PurchasePrice:  decimal.NewFromInt(1000),
		IsPhysical:     physical,
		StockQuantity:  qty,
		AlertThreshold: threshold,
	}
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))
	return p
}

func historyOf(t *testing.T, store *memory.Store, productID string) []*entity.StockHistoryEntry {
	t.Helper()
	entries, err := store.Repos().History.Query(context.Background(), repository.HistoryFilter{ProductID: productID})
	require.NoError(t, err)
	return entries
}

func stockOf(t *testing.T, store *memory.Store, productID string) int {
	t.Helper()
	p, err := store.Repos().Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}
