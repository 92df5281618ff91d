package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProductFilter filtros de listado del catálogo.
type ProductFilter struct {
	PhysicalOnly bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List devuelve los productos en orden de catálogo (fecha de alta, luego id).
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// CompareAndSetStock fija la cantidad solo si la actual sigue siendo expected.
	// Devuelve false si otra escritura la cambió entre la lectura y la actualización.
	CompareAndSetStock(ctx context.Context, id string, expected, next int) (bool, error)
	// UpdateAlertThreshold y UpdatePurchasePrice devuelven false si el producto no existe.
	UpdateAlertThreshold(ctx context.Context, id string, threshold int) (bool, error)
	UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) (bool, error)
	// Delete elimina el producto y con él su historial de stock.
	Delete(ctx context.Context, id string) error
}
