package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// ValidationResult resultado de validar un pedido.
type ValidationResult struct {
	Order  *entity.Order
	Profit *entity.ProfitRecord
	Stock  *entity.StockHistoryEntry // nil si el producto no es físico
}

// FulfillmentCoordinator orquesta la validación de un pedido como una sola unidad:
// registro de ganancia, descuento de una unidad de stock y cambio de estado se confirman juntos o no se confirman.
type FulfillmentCoordinator struct {
	txRunner ports.TxRunner
	notifier ports.ChangeNotifier
	log      *logger.Logger
	attempts int
	now      func() time.Time
}

// NewFulfillmentCoordinator construye el coordinador.
func NewFulfillmentCoordinator(txRunner ports.TxRunner, notifier ports.ChangeNotifier, log *logger.Logger, conflictRetries int) *FulfillmentCoordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &FulfillmentCoordinator{
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Component("fulfillment"),
		attempts: conflictRetries,
		now:      time.Now,
	}
}

// ValidateOrder pasa un pedido pending a validated.
//
// Pasos, en una transacción:
//  1. carga el pedido (ErrOrderNotFound) y exige estado pending (ErrInvalidTransition)
//  2. carga el producto (ErrProductNotFound)
//  3. calcula la ganancia con los precios actuales del producto
//  4. inserta el ProfitRecord
//  5. si el producto es físico descuenta una unidad; sin stock devuelve ErrInsufficientStock
//  6. marca el pedido como validated
//
// El primer paso que falla aborta la transacción completa.
func (c *FulfillmentCoordinator) ValidateOrder(ctx context.Context, orderID, actor string) (*ValidationResult, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if actor == "" {
		actor = entity.SystemActor
	}

	var res ValidationResult
	err := ports.RunAtomic(ctx, c.txRunner, c.attempts, c.log, func(repos ports.Repos) error {
		res = ValidationResult{}
		order, err := repos.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !order.Status.CanTransitionTo(entity.OrderStatusValidated) {
			return domain.ErrInvalidTransition
		}

		product, err := repos.Products.GetByID(ctx, order.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		profit, err := domaininv.ComputeProfit(product.SellingPrice, product.PurchasePrice)
		if err != nil {
			return err
		}
		now := c.now()
		record := &entity.ProfitRecord{
			ID:            uuid.New().String(),
			OrderID:       order.ID,
			ProductID:     product.ID,
			PurchasePrice: profit.PurchasePrice,
			SellingPrice:  profit.SellingPrice,
			Profit:        profit.Amount,
			CreatedBy:     actor,
			CreatedAt:     now,
		}
		if err := repos.Profits.Create(ctx, record); err != nil {
			return err
		}

		if product.IsPhysical {
			if product.StockQuantity <= 0 {
				return domain.ErrInsufficientStock
			}
			entry, err := inventory.ApplyStockChange(ctx, repos, product, product.StockQuantity-1,
				"Pedido "+order.ID+" validado", actor, now)
			if err != nil {
				return err
			}
			res.Stock = entry
		}

		ok, err := repos.Orders.UpdateStatus(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusValidated)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrStoreConflict
		}
		order.Status = entity.OrderStatusValidated
		order.UpdatedAt = now
		res.Order = order
		res.Profit = record
		return nil
	})
	if err != nil {
		c.log.Debug().Err(err).Str("order_id", orderID).Msg("validación de pedido rechazada")
		return nil, err
	}

	c.log.Info().Str("order_id", orderID).Str("product_id", res.Order.ProductID).
		Str("profit", res.Profit.Profit.String()).Msg("pedido validado")

	events := []entity.ChangeEvent{{
		EntityType: entity.EntityOrder,
		EntityID:   res.Order.ID,
		ChangeKind: entity.ChangeOrderValidated,
		OccurredAt: res.Order.UpdatedAt,
	}}
	if res.Stock != nil {
		events = append(events, inventory.StockAdjustedEvent(res.Stock))
	}
	events = append(events, entity.ChangeEvent{
		EntityType: entity.EntityProfitRecord,
		EntityID:   res.Profit.ID,
		ChangeKind: entity.ChangeProfitRecorded,
		OccurredAt: res.Profit.CreatedAt,
	})
	ports.Publish(context.WithoutCancel(ctx), c.notifier, c.log, events...)
	return &res, nil
}
