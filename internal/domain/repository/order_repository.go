package repository

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos. Status vacío = todos.
type OrderFilter struct {
	Status entity.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository puerto de persistencia de pedidos. GetByID devuelve (nil, nil) si no existe.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// UpdateStatus cambia el estado solo si el actual es from. Devuelve false si no coincidió.
	UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) (bool, error)
	// Delete devuelve false si no había fila que borrar.
	Delete(ctx context.Context, id string) (bool, error)
}
