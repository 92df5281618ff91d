package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// ProductAlert producto con su estado de alerta calculado.
type ProductAlert struct {
	Product *entity.Product
	Status  domaininv.AlertStatus
}

// AlertUseCase evalúa alertas de stock sobre el catálogo físico. Es de solo lectura.
type AlertUseCase struct {
	products    repository.ProductRepository
	readRetries int
}

func NewAlertUseCase(repos ports.Repos, readRetries int) *AlertUseCase {
	return &AlertUseCase{products: repos.Products, readRetries: readRetries}
}

// Dashboard devuelve todos los productos físicos con su estado, en orden de catálogo.
func (uc *AlertUseCase) Dashboard(ctx context.Context) ([]ProductAlert, error) {
	products, err := uc.physical(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProductAlert, 0, len(products))
	for _, p := range products {
		out = append(out, ProductAlert{Product: p, Status: domaininv.ClassifyProduct(p)})
	}
	return out, nil
}

// LowStock devuelve los productos físicos en LOW u OUT, en orden de catálogo.
func (uc *AlertUseCase) LowStock(ctx context.Context) ([]ProductAlert, error) {
	products, err := uc.physical(ctx)
	if err != nil {
		return nil, err
	}
	low := domaininv.ListLowStock(products)
	out := make([]ProductAlert, 0, len(low))
	for _, p := range low {
		out = append(out, ProductAlert{Product: p, Status: domaininv.ClassifyProduct(p)})
	}
	return out, nil
}

// Product estado de alerta de un producto.
func (uc *AlertUseCase) Product(ctx context.Context, id string) (*ProductAlert, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) (*entity.Product, error) {
		return uc.products.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return &ProductAlert{Product: p, Status: domaininv.ClassifyProduct(p)}, nil
}

func (uc *AlertUseCase) physical(ctx context.Context) ([]*entity.Product, error) {
	return ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) ([]*entity.Product, error) {
		return uc.products.List(ctx, repository.ProductFilter{PhysicalOnly: true})
	})
}
