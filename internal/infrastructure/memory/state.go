package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// state es una foto completa del almacén. Las transacciones trabajan sobre un clon
// y lo publican entero al confirmar.
type state struct {
	products map[string]*entity.Product
	history  []*entity.StockHistoryEntry
	orders   map[string]*entity.Order
	profits  []*entity.ProfitRecord
	seq      int64
}

func newState() *state {
	return &state{
		products: make(map[string]*entity.Product),
		orders:   make(map[string]*entity.Order),
	}
}

// clone copia mapas y slices; las entradas de historial y ganancias son inmutables y se comparten.
func (s *state) clone() *state {
	c := &state{
		products: make(map[string]*entity.Product, len(s.products)),
		orders:   make(map[string]*entity.Order, len(s.orders)),
		history:  append([]*entity.StockHistoryEntry(nil), s.history...),
		profits:  append([]*entity.ProfitRecord(nil), s.profits...),
		seq:      s.seq,
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, o := range s.orders {
		co := *o
		c.orders[id] = &co
	}
	return c
}

// ── productos ────────────────────────────────────────────────────────────────

func (s *state) createProduct(p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, ok := s.products[p.ID]; ok {
		return fmt.Errorf("%w: producto %s duplicado", domain.ErrInvalidInput, p.ID)
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *state) getProduct(id string) *entity.Product {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (s *state) listProducts(filter repository.ProductFilter) []*entity.Product {
	list := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.PhysicalOnly && !p.IsPhysical {
			continue
		}
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *state) casStock(id string, expected, next int) bool {
	p, ok := s.products[id]
	if !ok || p.StockQuantity != expected {
		return false
	}
	p.StockQuantity = next
	p.UpdatedAt = time.Now()
	return true
}

func (s *state) updateThreshold(id string, threshold int) bool {
	p, ok := s.products[id]
	if !ok {
		return false
	}
	p.AlertThreshold = threshold
	p.UpdatedAt = time.Now()
	return true
}

func (s *state) updatePurchasePrice(id string, price decimal.Decimal) bool {
	p, ok := s.products[id]
	if !ok {
		return false
	}
	p.PurchasePrice = price
	p.UpdatedAt = time.Now()
	return true
}

// deleteProduct borra el producto y su historial (equivalente al ON DELETE CASCADE).
func (s *state) deleteProduct(id string) {
	delete(s.products, id)
	kept := s.history[:0:0]
	for _, e := range s.history {
		if e.ProductID != id {
			kept = append(kept, e)
		}
	}
	s.history = kept
}

// ── historial ────────────────────────────────────────────────────────────────

func (s *state) appendHistory(e *entity.StockHistoryEntry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.seq++
	e.Seq = s.seq
	cp := *e
	s.history = append(s.history, &cp)
}

func (s *state) queryHistory(f repository.HistoryFilter) []*entity.StockHistoryEntry {
	list := make([]*entity.StockHistoryEntry, 0)
	for _, e := range s.history {
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if !inRange(e.CreatedAt, f.From, f.To) {
			continue
		}
		cp := *e
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Seq > list[j].Seq })
	return paginate(list, f.Limit, f.Offset)
}

// ── pedidos ──────────────────────────────────────────────────────────────────

func (s *state) createOrder(o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("%w: pedido %s duplicado", domain.ErrInvalidInput, o.ID)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	co := *o
	s.orders[o.ID] = &co
	return nil
}

func (s *state) getOrder(id string) *entity.Order {
	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	co := *o
	return &co
}

func (s *state) listOrders(f repository.OrderFilter) []*entity.Order {
	list := make([]*entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		co := *o
		list = append(list, &co)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return paginate(list, f.Limit, f.Offset)
}

func (s *state) updateOrderStatus(id string, from, to entity.OrderStatus) bool {
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return true
}

func (s *state) deleteOrder(id string) bool {
	if _, ok := s.orders[id]; !ok {
		return false
	}
	delete(s.orders, id)
	return true
}

// ── ganancias ────────────────────────────────────────────────────────────────

func (s *state) createProfit(r *entity.ProfitRecord) error {
	for _, existing := range s.profits {
		if existing.OrderID == r.OrderID {
			return fmt.Errorf("%w: ganancia ya registrada para el pedido %s", domain.ErrStoreConflict, r.OrderID)
		}
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	cp := *r
	s.profits = append(s.profits, &cp)
	return nil
}

func (s *state) profitByOrder(orderID string) *entity.ProfitRecord {
	for _, r := range s.profits {
		if r.OrderID == orderID {
			cp := *r
			return &cp
		}
	}
	return nil
}

func (s *state) listProfits(f repository.ProfitFilter) []*entity.ProfitRecord {
	list := make([]*entity.ProfitRecord, 0)
	for _, r := range s.profits {
		if !inRange(r.CreatedAt, f.From, f.To) {
			continue
		}
		cp := *r
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// ── helpers ──────────────────────────────────────────────────────────────────

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
