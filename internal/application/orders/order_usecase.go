package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// CreateInput datos de un pedido nuevo. Customer.UserID vacío = invitado.
type CreateInput struct {
	ProductID string
	Customer  entity.CustomerInfo
}

// OrderUseCase máquina de estados del pedido: pending → validated | cancelled.
type OrderUseCase struct {
	txRunner    ports.TxRunner
	orders      repository.OrderRepository
	products    repository.ProductRepository
	coordinator *FulfillmentCoordinator
	notifier    ports.ChangeNotifier
	log         *logger.Logger
	attempts    int
	readRetries int
	now         func() time.Time
}

// Options parámetros de reintento del caso de uso.
type Options struct {
	ConflictRetries int
	ReadRetries     int
}

// NewOrderUseCase construye el caso de uso. repos son los repositorios fuera de transacción
// usados para lecturas y para la verificación posterior a un borrado.
func NewOrderUseCase(
	txRunner ports.TxRunner,
	repos ports.Repos,
	coordinator *FulfillmentCoordinator,
	notifier ports.ChangeNotifier,
	log *logger.Logger,
	opts Options,
) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		txRunner:    txRunner,
		orders:      repos.Orders,
		products:    repos.Products,
		coordinator: coordinator,
		notifier:    notifier,
		log:         log.Component("orders"),
		attempts:    opts.ConflictRetries,
		readRetries: opts.ReadRetries,
		now:         time.Now,
	}
}

// Create registra un pedido pending copiando nombre y precio de venta vigentes del producto.
func (uc *OrderUseCase) Create(ctx context.Context, in CreateInput) (*entity.Order, error) {
	if in.ProductID == "" || in.Customer.Name == "" || in.Customer.Contact == "" {
		return nil, fmt.Errorf("%w: product_id, nombre y contacto son obligatorios", domain.ErrInvalidInput)
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		amount, err := domaininv.ParsePrice(product.SellingPrice)
		if err != nil {
			return err
		}
		now := uc.now()
		order = &entity.Order{
			ProductID:   product.ID,
			ProductName: product.Name,
			Amount:      amount,
			Customer:    in.Customer,
			Status:      entity.OrderStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("product_id", order.ProductID).
		Bool("guest", order.Customer.IsGuest()).Msg("pedido creado")
	uc.publish(ctx, order.ID, entity.ChangeOrderCreated)
	return order, nil
}

// Get devuelve un pedido o domain.ErrOrderNotFound.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) (*entity.Order, error) {
		return uc.orders.GetByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// List pedidos más recientes primero, opcionalmente filtrados por estado.
func (uc *OrderUseCase) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	return ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) ([]*entity.Order, error) {
		return uc.orders.List(ctx, filter)
	})
}

// Cancel pasa un pedido pending a cancelled. No toca stock ni ganancias.
func (uc *OrderUseCase) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.Order
	err := ports.RunAtomic(ctx, uc.txRunner, uc.attempts, uc.log, func(repos ports.Repos) error {
		o, err := repos.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if !o.Status.CanTransitionTo(entity.OrderStatusCancelled) {
			return domain.ErrInvalidTransition
		}
		ok, err := repos.Orders.UpdateStatus(ctx, id, entity.OrderStatusPending, entity.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrStoreConflict
		}
		o.Status = entity.OrderStatusCancelled
		o.UpdatedAt = uc.now()
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", id).Msg("pedido cancelado")
	uc.publish(ctx, id, entity.ChangeOrderCancelled)
	return order, nil
}

// Validate delega en el coordinador de despacho.
func (uc *OrderUseCase) Validate(ctx context.Context, id, actor string) (*ValidationResult, error) {
	return uc.coordinator.ValidateOrder(ctx, id, actor)
}

// Delete borra el pedido y relee la fila para confirmar que ya no es visible.
// Si sigue ahí (p. ej. una política del almacén descartó el borrado sin error) devuelve
// domain.ErrDeletionNotConfirmed.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		o, err := repos.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		_, err = repos.Orders.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	still, err := ports.RetryRead(ctx, uc.readRetries, func(ctx context.Context) (*entity.Order, error) {
		return uc.orders.GetByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("verificar borrado: %w", err)
	}
	if still != nil {
		uc.log.Error().Str("order_id", id).Msg("el pedido sigue visible después de borrarlo")
		return domain.ErrDeletionNotConfirmed
	}
	uc.log.Info().Str("order_id", id).Msg("pedido eliminado")
	uc.publish(ctx, id, entity.ChangeOrderDeleted)
	return nil
}

func (uc *OrderUseCase) publish(ctx context.Context, orderID, kind string) {
	ports.Publish(context.WithoutCancel(ctx), uc.notifier, uc.log, entity.ChangeEvent{
		EntityType: entity.EntityOrder,
		EntityID:   orderID,
		ChangeKind: kind,
		OccurredAt: uc.now(),
	})
}
