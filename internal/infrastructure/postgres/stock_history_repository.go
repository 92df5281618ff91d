package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo historial de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Append inserta la entrada y devuelve en ella el seq asignado por la secuencia.
func (r *StockHistoryRepo) Append(ctx context.Context, e *entity.StockHistoryEntry) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO stock_history (id, product_id, previous_quantity, new_quantity, change_type, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.ProductID, e.PreviousQuantity, e.NewQuantity, e.ChangeType, e.Notes, e.CreatedBy, e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return wrapErr("insert stock history", err)
	}
	return nil
}

// Query devuelve las entradas más recientes primero (seq, no created_at: el reloj es de cada instancia).
func (r *StockHistoryRepo) Query(ctx context.Context, f repository.HistoryFilter) ([]*entity.StockHistoryEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		if !validID(f.ProductID) {
			return []*entity.StockHistoryEntry{}, nil
		}
		add("product_id = $%d", f.ProductID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	query := `
		SELECT id, seq, product_id, previous_quantity, new_quantity, change_type, notes, created_by, created_at
		FROM stock_history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("query stock history", err)
	}
	defer rows.Close()
	list := make([]*entity.StockHistoryEntry, 0)
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, wrapErr("scan stock history", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("query stock history", err)
	}
	return list, nil
}

func scanHistoryEntry(row pgx.Row) (*entity.StockHistoryEntry, error) {
	var e entity.StockHistoryEntry
	if err := row.Scan(&e.ID, &e.Seq, &e.ProductID, &e.PreviousQuantity, &e.NewQuantity,
		&e.ChangeType, &e.Notes, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
