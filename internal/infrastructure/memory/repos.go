package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*productRepo)(nil)
	_ repository.StockHistoryRepository = (*historyRepo)(nil)
	_ repository.OrderRepository        = (*orderRepo)(nil)
	_ repository.ProfitRecordRepository = (*profitRepo)(nil)
)

// Repositorios fuera de transacción: lecturas sobre el estado confirmado,
// escrituras como transacción de una sola operación.

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.s.Run(ctx, func(tx ports.Repos) error { return tx.Products.Create(ctx, p) })
}

func (r *productRepo) GetByID(_ context.Context, id string) (p *entity.Product, _ error) {
	r.s.read(func(st *state) { p = st.getProduct(id) })
	return p, nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) (list []*entity.Product, _ error) {
	r.s.read(func(st *state) { list = st.listProducts(f) })
	return list, nil
}

func (r *productRepo) CompareAndSetStock(ctx context.Context, id string, expected, next int) (ok bool, err error) {
	err = r.s.Run(ctx, func(tx ports.Repos) error {
		ok, err = tx.Products.CompareAndSetStock(ctx, id, expected, next)
		return err
	})
	return ok, err
}

func (r *productRepo) UpdateAlertThreshold(ctx context.Context, id string, threshold int) (ok bool, err error) {
	err = r.s.Run(ctx, func(tx ports.Repos) error {
		ok, err = tx.Products.UpdateAlertThreshold(ctx, id, threshold)
		return err
	})
	return ok, err
}

func (r *productRepo) UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) (ok bool, err error) {
	err = r.s.Run(ctx, func(tx ports.Repos) error {
		ok, err = tx.Products.UpdatePurchasePrice(ctx, id, price)
		return err
	})
	return ok, err
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.s.Run(ctx, func(tx ports.Repos) error { return tx.Products.Delete(ctx, id) })
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Append(ctx context.Context, e *entity.StockHistoryEntry) error {
	return r.s.Run(ctx, func(tx ports.Repos) error { return tx.History.Append(ctx, e) })
}

func (r *historyRepo) Query(_ context.Context, f repository.HistoryFilter) (list []*entity.StockHistoryEntry, _ error) {
	r.s.read(func(st *state) { list = st.queryHistory(f) })
	return list, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.s.Run(ctx, func(tx ports.Repos) error { return tx.Orders.Create(ctx, o) })
}

func (r *orderRepo) GetByID(_ context.Context, id string) (o *entity.Order, _ error) {
	r.s.read(func(st *state) { o = st.getOrder(id) })
	return o, nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) (list []*entity.Order, _ error) {
	r.s.read(func(st *state) { list = st.listOrders(f) })
	return list, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) (ok bool, err error) {
	err = r.s.Run(ctx, func(tx ports.Repos) error {
		ok, err = tx.Orders.UpdateStatus(ctx, id, from, to)
		return err
	})
	return ok, err
}

func (r *orderRepo) Delete(ctx context.Context, id string) (ok bool, err error) {
	err = r.s.Run(ctx, func(tx ports.Repos) error {
		ok, err = tx.Orders.Delete(ctx, id)
		return err
	})
	return ok, err
}

type profitRepo struct{ s *Store }

func (r *profitRepo) Create(ctx context.Context, rec *entity.ProfitRecord) error {
	return r.s.Run(ctx, func(tx ports.Repos) error { return tx.Profits.Create(ctx, rec) })
}

func (r *profitRepo) GetByOrderID(_ context.Context, orderID string) (rec *entity.ProfitRecord, _ error) {
	r.s.read(func(st *state) { rec = st.profitByOrder(orderID) })
	return rec, nil
}

func (r *profitRepo) List(_ context.Context, f repository.ProfitFilter) (list []*entity.ProfitRecord, _ error) {
	r.s.read(func(st *state) { list = st.listProfits(f) })
	return list, nil
}
