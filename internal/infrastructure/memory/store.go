// Package memory implementa los puertos de persistencia en memoria. Las transacciones son
// copy-on-write: trabajan sobre un clon del estado y lo publican de una vez al confirmar,
// así que un error o un contexto cancelado no dejan escrituras parciales.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store almacén en memoria. Las escrituras se serializan (writeMu); las lecturas ven
// siempre el último estado confirmado.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	st      *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repositorios atados a un clon del estado y lo publica si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(txRepos(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// Repos devuelve repositorios fuera de transacción: cada escritura es su propia transacción.
func (s *Store) Repos() ports.Repos {
	return ports.Repos{
		Products: &productRepo{s: s},
		History:  &historyRepo{s: s},
		Orders:   &orderRepo{s: s},
		Profits:  &profitRepo{s: s},
	}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
}

func txRepos(st *state) ports.Repos {
	return ports.Repos{
		Products: &txProductRepo{st: st},
		History:  &txHistoryRepo{st: st},
		Orders:   &txOrderRepo{st: st},
		Profits:  &txProfitRepo{st: st},
	}
}

// ── repositorios dentro de transacción ───────────────────────────────────────

type txProductRepo struct{ st *state }

func (r *txProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.st.createProduct(p)
}
func (r *txProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.st.getProduct(id), nil
}
func (r *txProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	return r.st.listProducts(f), nil
}
func (r *txProductRepo) CompareAndSetStock(_ context.Context, id string, expected, next int) (bool, error) {
	return r.st.casStock(id, expected, next), nil
}
func (r *txProductRepo) UpdateAlertThreshold(_ context.Context, id string, threshold int) (bool, error) {
	return r.st.updateThreshold(id, threshold), nil
}
func (r *txProductRepo) UpdatePurchasePrice(_ context.Context, id string, price decimal.Decimal) (bool, error) {
	return r.st.updatePurchasePrice(id, price), nil
}
func (r *txProductRepo) Delete(_ context.Context, id string) error {
	r.st.deleteProduct(id)
	return nil
}

type txHistoryRepo struct{ st *state }

func (r *txHistoryRepo) Append(_ context.Context, e *entity.StockHistoryEntry) error {
	r.st.appendHistory(e)
	return nil
}
func (r *txHistoryRepo) Query(_ context.Context, f repository.HistoryFilter) ([]*entity.StockHistoryEntry, error) {
	return r.st.queryHistory(f), nil
}

type txOrderRepo struct{ st *state }

func (r *txOrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.st.createOrder(o)
}
func (r *txOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return r.st.getOrder(id), nil
}
func (r *txOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	return r.st.listOrders(f), nil
}
func (r *txOrderRepo) UpdateStatus(_ context.Context, id string, from, to entity.OrderStatus) (bool, error) {
	return r.st.updateOrderStatus(id, from, to), nil
}
func (r *txOrderRepo) Delete(_ context.Context, id string) (bool, error) {
	return r.st.deleteOrder(id), nil
}

type txProfitRepo struct{ st *state }

func (r *txProfitRepo) Create(_ context.Context, rec *entity.ProfitRecord) error {
	return r.st.createProfit(rec)
}
func (r *txProfitRepo) GetByOrderID(_ context.Context, orderID string) (*entity.ProfitRecord, error) {
	return r.st.profitByOrder(orderID), nil
}
func (r *txProfitRepo) List(_ context.Context, f repository.ProfitFilter) ([]*entity.ProfitRecord, error) {
	return r.st.listProfits(f), nil
}
