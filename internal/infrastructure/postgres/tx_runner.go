package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// Beginner lo cumplen *pgxpool.Pool y el pool de pgxmock.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// NewRepos repositorios sobre q: el pool para lecturas sueltas o una tx.
func NewRepos(q Querier) ports.Repos {
	return ports.Repos{
		Products: NewProductRepository(q),
		History:  NewStockHistoryRepository(q),
		Orders:   NewOrderRepository(q),
		Profits:  NewProfitRecordRepository(q),
	}
}

func newID() string { return uuid.New().String() }

var _ Querier = (pgx.Tx)(nil)
