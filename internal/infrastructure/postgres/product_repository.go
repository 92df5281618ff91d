package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, selling_price, purchase_price, is_physical, stock_quantity, alert_threshold, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. PurchasePrice inicia en 0 si no se indica.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = newID()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = product.CreatedAt
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SellingPrice, product.PurchasePrice, product.IsPhysical,
		product.StockQuantity, product.AlertThreshold, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %s duplicado", domain.ErrInvalidInput, product.ID)
		}
		return wrapErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return p, nil
}

// List lista productos en orden de catálogo (alta, luego id).
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if filter.PhysicalOnly {
		query += ` WHERE is_physical`
	}
	query += ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list products", err)
	}
	return list, nil
}

// CompareAndSetStock actualiza la cantidad solo si sigue siendo expected.
// Con READ COMMITTED, si otra tx confirmó antes, el WHERE se reevalúa sobre la fila nueva y no afecta filas.
func (r *ProductRepo) CompareAndSetStock(ctx context.Context, id string, expected, next int) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $3, updated_at = now() WHERE id = $1 AND stock_quantity = $2`,
		id, expected, next,
	)
	if err != nil {
		return false, wrapErr("update product stock", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// UpdateAlertThreshold cambia el umbral. false si el producto no existe.
func (r *ProductRepo) UpdateAlertThreshold(ctx context.Context, id string, threshold int) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET alert_threshold = $2, updated_at = now() WHERE id = $1`,
		id, threshold,
	)
	if err != nil {
		return false, wrapErr("update alert threshold", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// UpdatePurchasePrice cambia el precio de compra. false si el producto no existe.
func (r *ProductRepo) UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET purchase_price = $2, updated_at = now() WHERE id = $1`,
		id, price,
	)
	if err != nil {
		return false, wrapErr("update purchase price", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Delete elimina un producto; el historial cae por ON DELETE CASCADE.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return wrapErr("delete product", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SellingPrice, &p.PurchasePrice, &p.IsPhysical,
		&p.StockQuantity, &p.AlertThreshold, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
