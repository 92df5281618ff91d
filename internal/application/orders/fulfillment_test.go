package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
)

// Pedido O1: "1500 DA" con costo 800 y stock 4 → ganancia 700, stock 3, validated.
func TestValidateOrder_DescuentaStockYRegistraGanancia(t *testing.T) {
	f := newFixture(nil, memory.NewStore())
	p := f.product(t, "1500 DA", 800, true, 4)
	o := f.order(t, p.ID)

	res, err := f.uc.Validate(context.Background(), o.ID, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusValidated, res.Order.Status)
	assert.True(t, res.Profit.Profit.Equal(decimal.NewFromInt(700)), res.Profit.Profit.String())
	assert.True(t, res.Profit.SellingPrice.Equal(decimal.NewFromInt(1500)))
	assert.True(t, res.Profit.PurchasePrice.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, o.ID, res.Profit.OrderID)
	assert.Equal(t, "admin-1", res.Profit.CreatedBy)

	require.NotNil(t, res.Stock)
	assert.Equal(t, 4, res.Stock.PreviousQuantity)
	assert.Equal(t, 3, res.Stock.NewQuantity)
	assert.Equal(t, entity.ChangeTypeDecrease, res.Stock.ChangeType)
	assert.Equal(t, "admin-1", res.Stock.CreatedBy)

	assert.Equal(t, 3, f.stock(t, p.ID))
	assert.Equal(t, entity.OrderStatusValidated, f.status(t, o.ID))
	assert.Len(t, f.profits(t), 1)
	assert.Len(t, f.history(t, p.ID), 1)
	assert.Equal(t, []string{
		entity.ChangeOrderCreated,
		entity.ChangeOrderValidated,
		entity.ChangeStockAdjusted,
		entity.ChangeProfitRecorded,
	}, f.notifier.Kinds())
}

// Sin stock: nada se persiste y el pedido sigue pending.
func TestValidateOrder_SinStockAbortaTodo(t *testing.T) {
	f := newFixture(nil, memory.NewStore())
	p := f.product(t, "1500 DA", 800, true, 0)
	o := f.order(t, p.ID)

	_, err := f.uc.Validate(context.Background(), o.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, entity.OrderStatusPending, f.status(t, o.ID))
	assert.Empty(t, f.profits(t))
	assert.Empty(t, f.history(t, p.ID))
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Equal(t, []string{entity.ChangeOrderCreated}, f.notifier.Kinds())
}

func TestValidateOrder_ProductoDigitalNoTocaStock(t *testing.T) {
	f := newFixture(nil, memory.NewStore())
	p := f.product(t, "2500", 1000, false, 0)
	o := f.order(t, p.ID)

	res, err := f.uc.Validate(context.Background(), o.ID, "")
	require.NoError(t, err)
	assert.Nil(t, res.Stock)
	assert.True(t, res.Profit.Profit.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, entity.SystemActor, res.Profit.CreatedBy)
	assert.Empty(t, f.history(t, p.ID))
	assert.NotContains(t, f.notifier.Kinds(), entity.ChangeStockAdjusted)
}

// La ganancia usa los precios vigentes al validar, no los copiados al crear el pedido.
func TestValidateOrder_UsaPreciosActuales(t *testing.T) {
	f := newFixture(nil, memory.NewStore())
	p := f.product(t, "1500 DA", 800, true, 4)
	o := f.order(t, p.ID)

	ok, err := f.store.Repos().Products.UpdatePurchasePrice(context.Background(), p.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.True(t, ok)

	res, err := f.uc.Validate(context.Background(), o.ID, "admin-1")
	require.NoError(t, err)
	assert.True(t, res.Profit.Profit.Equal(decimal.NewFromInt(500)))
	assert.True(t, res.Order.Amount.Equal(decimal.NewFromInt(1500)))
}

func TestValidateOrder_DosVeces(t *testing.T) {
	f := newFixture(nil, memory.NewStore())
	p := f.product(t, "1500 DA", 800, true, 4)
	o := f.order(t, p.ID)

	_, err := f.uc.Validate(context.Background(), o.ID, "admin-1")
	require.NoError(t, err)
	_, err = f.uc.Validate(context.Background(), o.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.profits(t), 1)
	assert.Equal(t, 3, f.stock(t, p.ID))
}

func TestValidateOrder_Errores(t *testing.T) {
	f := newFixture(nil, memory.NewStore())

	_, err := f.uc.Validate(context.Background(), "no-existe", "admin-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	p := f.product(t, "1500 DA", 800, true, 4)
	o := f.order(t, p.ID)
	require.NoError(t, f.store.Repos().Products.Delete(context.Background(), p.ID))
	_, err = f.uc.Validate(context.Background(), o.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, entity.OrderStatusPending, f.status(t, o.ID))
}

func TestValidateOrder_ContextoCanceladoNoEscribe(t *testing.T) {
	f := newFixture(nil, memory.NewStore())
	p := f.product(t, "1500 DA", 800, true, 4)
	o := f.order(t, p.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.uc.Validate(ctx, o.ID, "admin-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, f.stock(t, p.ID))
	assert.Equal(t, entity.OrderStatusPending, f.status(t, o.ID))
	assert.Empty(t, f.profits(t))
}
