package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Products repository.ProductRepository
	History  repository.StockHistoryRepository
	Orders   repository.OrderRepository
	Profits  repository.ProfitRecordRepository
}

// TxRunner ejecuta fn dentro de una transacción del almacén y hace Commit si fn no devuelve error;
// en cualquier otro caso (error, panic, ctx cancelado) hace Rollback y no queda escritura parcial.
// Garantiza atomicidad para el libro de stock y la validación de pedidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// RunAtomic ejecuta fn como una transacción y, si el almacén detecta un conflicto optimista
// (domain.ErrStoreConflict: la fila cambió entre la lectura y la escritura condicional), repite la
// transacción completa hasta attempts veces. Como la transacción fallida se revirtió, repetirla no
// aplica nada dos veces. Cualquier otro error (incluidos los transitorios) se devuelve sin reintentar.
func RunAtomic(ctx context.Context, tx TxRunner, attempts int, log *logger.Logger, fn func(repos Repos) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = tx.Run(ctx, fn)
		if !errors.Is(err, domain.ErrStoreConflict) {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if log != nil {
			log.Debug().Int("attempt", attempt).Int("max_attempts", attempts).Msg("conflicto optimista, reintentando transacción")
		}
	}
	return fmt.Errorf("%w: %d intentos agotados", err, attempts)
}
