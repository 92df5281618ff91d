package orders_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/orders"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

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

func (n *recordingNotifier) Kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.ChangeKind)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	notifier *recordingNotifier
	uc       *orders.OrderUseCase
}

func newFixture(runner ports.TxRunner, store *memory.Store) *fixture {
	n := &recordingNotifier{}
	if runner == nil {
		runner = store
	}
	coord := orders.NewFulfillmentCoordinator(runner, n, logger.Nop(), 3)
	uc := orders.NewOrderUseCase(runner, store.Repos(), coord, n, logger.Nop(), orders.Options{ConflictRetries: 3, ReadRetries: 2})
	return &fixture{store: store, notifier: n, uc: uc}
}

func (f *fixture) product(t *testing.T, selling string, purchase int64, physical bool, qty int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:           "Caja IPTV " + selling,
		SellingPrice:   selling,
		PurchasePrice:  decimal.NewFromInt(purchase),
		IsPhysical:     physical,
		StockQuantity:  qty,
		AlertThreshold: entity.DefaultAlertThreshold,
	}
	require.NoError(t, f.store.Repos().Products.Create(context.Background(), p))
	return p
}

func (f *fixture) order(t *testing.T, productID string) *entity.Order {
	t.Helper()
	o, err := f.uc.Create(context.Background(), orders.CreateInput{
		ProductID: productID,
		Customer:  entity.CustomerInfo{Name: "Karim", Contact: "karim@example.com"},
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

func (f *fixture) status(t *testing.T, orderID string) entity.OrderStatus {
	t.Helper()
	o, err := f.store.Repos().Orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o.Status
}

func (f *fixture) profits(t *testing.T) []*entity.ProfitRecord {
	t.Helper()
	list, err := f.store.Repos().Profits.List(context.Background(), repository.ProfitFilter{})
	require.NoError(t, err)
	return list
}

func (f *fixture) history(t *testing.T, productID string) []*entity.StockHistoryEntry {
	t.Helper()
	list, err := f.store.Repos().History.Query(context.Background(), repository.HistoryFilter{ProductID: productID})
	require.NoError(t, err)
	return list
}

// stickyDeleteRunner simula un almacén que acepta el borrado de pedidos sin aplicarlo.
type stickyDeleteRunner struct {
	store *memory.Store
}

func (r *stickyDeleteRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	return r.store.Run(ctx, func(repos ports.Repos) error {
		repos.Orders = &stickyOrderRepo{OrderRepository: repos.Orders}
		return fn(repos)
	})
}

type stickyOrderRepo struct {
	repository.OrderRepository
}

func (s *stickyOrderRepo) Delete(context.Context, string) (bool, error) { return true, nil }
