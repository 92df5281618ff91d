package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.ProfitRecordRepository = (*ProfitRecordRepo)(nil)

const profitColumns = `id, order_id, product_id, purchase_price, selling_price, profit, created_by, created_at`

// ProfitRecordRepo registros de ganancia sobre PostgreSQL. order_id es UNIQUE.
type ProfitRecordRepo struct {
	q Querier
}

// NewProfitRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfitRecordRepository(q Querier) *ProfitRecordRepo {
	return &ProfitRecordRepo{q: q}
}

// Create inserta el registro. Un segundo registro para el mismo pedido es domain.ErrStoreConflict:
// otra validación concurrente ganó y la transacción debe repetirse para ver el estado nuevo.
func (r *ProfitRecordRepo) Create(ctx context.Context, rec *entity.ProfitRecord) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO profit_records (`+profitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.OrderID, rec.ProductID, rec.PurchasePrice, rec.SellingPrice, rec.Profit, rec.CreatedBy, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ganancia ya registrada para el pedido %s", domain.ErrStoreConflict, rec.OrderID)
		}
		return wrapErr("insert profit record", err)
	}
	return nil
}

// GetByOrderID (nil, nil) si el pedido no tiene registro.
func (r *ProfitRecordRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.ProfitRecord, error) {
	if !validID(orderID) {
		return nil, nil
	}
	rec, err := scanProfit(r.q.QueryRow(ctx, `SELECT `+profitColumns+` FROM profit_records WHERE order_id = $1`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get profit record", err)
	}
	return rec, nil
}

// List más recientes primero, rango inclusivo sobre created_at.
func (r *ProfitRecordRepo) List(ctx context.Context, f repository.ProfitFilter) ([]*entity.ProfitRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	query := `SELECT ` + profitColumns + ` FROM profit_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list profit records", err)
	}
	defer rows.Close()
	list := make([]*entity.ProfitRecord, 0)
	for rows.Next() {
		rec, err := scanProfit(rows)
		if err != nil {
			return nil, wrapErr("scan profit record", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list profit records", err)
	}
	return list, nil
}

func scanProfit(row pgx.Row) (*entity.ProfitRecord, error) {
	var rec entity.ProfitRecord
	if err := row.Scan(&rec.ID, &rec.OrderID, &rec.ProductID, &rec.PurchasePrice, &rec.SellingPrice,
		&rec.Profit, &rec.CreatedBy, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
