package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// LedgerUseCase es el libro de stock: única vía para cambiar la cantidad de un producto.
// Cada ajuste lee la cantidad, la escribe con una actualización condicional y agrega la entrada
// de historial dentro de la misma transacción; si otra escritura ganó la carrera se repite todo.
type LedgerUseCase struct {
	txRunner ports.TxRunner
	notifier ports.ChangeNotifier
	log      *logger.Logger
	attempts int
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. conflictRetries es el número máximo de intentos
// ante conflicto optimista antes de devolver domain.ErrStoreConflict.
func NewLedgerUseCase(txRunner ports.TxRunner, notifier ports.ChangeNotifier, log *logger.Logger, conflictRetries int) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Component("ledger"),
		attempts: conflictRetries,
		now:      time.Now,
	}
}

// AdjustInput entrada de un ajuste de stock. Notes vacío genera una nota automática;
// Actor vacío se registra como "system".
type AdjustInput struct {
	ProductID   string
	NewQuantity int
	Notes       string
	Actor       string
}

// AdjustOutcome resultado de un ajuste: la entrada de historial creada y el estado de alerta
// antes y después, para que el caller sepa si la alerta se activó o se despejó.
type AdjustOutcome struct {
	Entry          *entity.StockHistoryEntry
	Product        *entity.Product
	PreviousStatus domaininv.AlertStatus
	Status         domaininv.AlertStatus
}

// Adjust fija la cantidad de un producto físico y registra exactamente una entrada de historial.
// Una cantidad negativa se rechaza con domain.ErrInvalidQuantity sin tocar el almacén.
func (uc *LedgerUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustOutcome, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.NewQuantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var out AdjustOutcome
	err := ports.RunAtomic(ctx, uc.txRunner, uc.attempts, uc.log, func(repos ports.Repos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		previous := domaininv.ClassifyProduct(product)

		entry, err := ApplyStockChange(ctx, repos, product, in.NewQuantity, in.Notes, in.Actor, uc.now())
		if err != nil {
			return err
		}
		product.StockQuantity = in.NewQuantity
		out = AdjustOutcome{
			Entry:          entry,
			Product:        product,
			PreviousStatus: previous,
			Status:         domaininv.ClassifyProduct(product),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logAlertTransition(out)
	ports.Publish(context.WithoutCancel(ctx), uc.notifier, uc.log, StockAdjustedEvent(out.Entry))
	return &out, nil
}

// ApplyStockChange fija la cantidad de un producto ya leído dentro de la transacción (repos) y agrega
// su entrada de historial. Devuelve domain.ErrStoreConflict si la cantidad cambió desde esa lectura;
// el caller debe abortar la transacción y repetirla completa.
func ApplyStockChange(
	ctx context.Context,
	repos ports.Repos,
	product *entity.Product,
	next int,
	notes, actor string,
	at time.Time,
) (*entity.StockHistoryEntry, error) {
	if next < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !product.IsPhysical {
		return nil, domain.ErrNotStockTracked
	}
	ok, err := repos.Products.CompareAndSetStock(ctx, product.ID, product.StockQuantity, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrStoreConflict
	}
	entry := domaininv.NewHistoryEntry(uuid.New().String(), product.ID, product.StockQuantity, next, notes, actor, at)
	if err := repos.History.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AdjustThreshold cambia el umbral de alerta. Es configuración, no movimiento: no genera historial.
func (uc *LedgerUseCase) AdjustThreshold(ctx context.Context, productID string, threshold int) (*entity.Product, error) {
	if productID == "" || threshold < 0 {
		return nil, domain.ErrInvalidInput
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		ok, err := repos.Products.UpdateAlertThreshold(ctx, productID, threshold)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrProductNotFound
		}
		product, err = repos.Products.GetByID(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	ports.Publish(context.WithoutCancel(ctx), uc.notifier, uc.log, entity.ChangeEvent{
		EntityType: entity.EntityProduct,
		EntityID:   productID,
		ChangeKind: entity.ChangeThresholdUpdated,
		OccurredAt: uc.now(),
	})
	return product, nil
}

// SetPurchasePrice cambia el precio de compra usado en el cálculo de ganancia. No genera historial.
func (uc *LedgerUseCase) SetPurchasePrice(ctx context.Context, productID string, price decimal.Decimal) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		ok, err := repos.Products.UpdatePurchasePrice(ctx, productID, price)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrProductNotFound
		}
		product, err = repos.Products.GetByID(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	ports.Publish(context.WithoutCancel(ctx), uc.notifier, uc.log, entity.ChangeEvent{
		EntityType: entity.EntityProduct,
		EntityID:   productID,
		ChangeKind: entity.ChangePurchasePriceUpdated,
		OccurredAt: uc.now(),
	})
	return product, nil
}

func (uc *LedgerUseCase) logAlertTransition(out AdjustOutcome) {
	switch {
	case out.PreviousStatus.NeedsRestock() && !out.Status.NeedsRestock():
		uc.log.Info().Str("product_id", out.Product.ID).Int("quantity", out.Product.StockQuantity).
			Msg("alerta de stock despejada")
	case out.Status != out.PreviousStatus && out.Status.NeedsRestock():
		uc.log.Warn().Str("product_id", out.Product.ID).Int("quantity", out.Product.StockQuantity).
			Int("threshold", out.Product.AlertThreshold).Str("alert_status", string(out.Status)).
			Msg("producto requiere reposición")
	}
}

// StockAdjustedEvent evento del canal del producto tras un cambio de cantidad.
func StockAdjustedEvent(e *entity.StockHistoryEntry) entity.ChangeEvent {
	return entity.ChangeEvent{
		EntityType: entity.EntityProduct,
		EntityID:   e.ProductID,
		ChangeKind: entity.ChangeStockAdjusted,
		OccurredAt: e.CreatedAt,
	}
}
