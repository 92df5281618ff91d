package ports

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

// RetryRead reintenta una lectura pura mientras el almacén devuelva errores transitorios
// (domain.ErrStoreUnavailable), hasta attempts intentos en total. Cualquier otro error se devuelve tal cual.
// No usar en rutas de escritura: un read-modify-write reintentado podría aplicarse dos veces.
func RetryRead[T any](ctx context.Context, attempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if attempts < 1 {
		attempts = 1
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 20 * time.Millisecond
	eb.MaxInterval = 500 * time.Millisecond
	eb.MaxElapsedTime = 5 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	err := backoff.Retry(func() error {
		v, err := fn(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = v
		return nil
	}, policy)
	return out, err
}
