package api

import (
	"context"
	"errors"
	"log"
	"time"

	"FinBpoSaas/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IsStorageConflict reports whether an error is a unique-constraint or
// serialization failure caused by a concurrent write to the same period.
func IsStorageConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "40001"
	}
	return false
}

// IsTransient reports whether an error is worth retrying with backoff:
// timeouts and broken connections, not SQL or data errors.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// connection_exception class
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	return pgconn.Timeout(err)
}

// WithTxRetry runs fn inside a transaction with a bounded timeout per
// attempt. Transient failures are retried up to three times with exponential
// backoff; a storage conflict is retried once; anything else rolls back and
// surfaces immediately. Either every statement of fn commits or none does.
func WithTxRetry(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	var lastErr error
	transientLeft := config.TransientRetries
	conflictLeft := config.ConflictRetries

	for attempt := 0; ; attempt++ {
		lastErr = runTx(ctx, pool, fn)
		if lastErr == nil {
			return nil
		}
		switch {
		case IsStorageConflict(lastErr) && conflictLeft > 0:
			conflictLeft--
		case IsTransient(lastErr) && transientLeft > 0:
			transientLeft--
			backoff := config.TransientBackoffBase * time.Duration(1<<attempt)
			log.Printf("[DB] transient failure, retrying in %s: %v", backoff, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		default:
			return lastErr
		}
	}
}

func runTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	callCtx, cancel := context.WithTimeout(ctx, config.DBCallTimeout)
	defer cancel()

	tx, err := pool.Begin(callCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(callCtx)

	if err := fn(callCtx, tx); err != nil {
		return err
	}
	return tx.Commit(callCtx)
}
