package mysql

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	errDeadlock        = 1213
	errLockWaitTimeout = 1205
)

// TxRunner runs a function inside a transaction and retries it when MySQL
// reports a deadlock or a lock wait timeout.
type TxRunner struct {
	db          *sql.DB
	maxAttempts int
	timeout     time.Duration
}

func NewTxRunner(db *sql.DB, maxAttempts int, timeout time.Duration) *TxRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TxRunner{db: db, maxAttempts: maxAttempts, timeout: timeout}
}

func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !IsDeadlock(err) {
			return err
		}
		if attempt < r.maxAttempts {
			if waitErr := sleep(ctx, backoff(attempt)); waitErr != nil {
				return waitErr
			}
		}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return err
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func IsDeadlock(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
	}
	return false
}

// backoff is 50ms, 100ms, 200ms... with ±20% jitter.
func backoff(attempt int) time.Duration {
	base := 50 * time.Millisecond << (attempt - 1)
	jitter := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(base) * jitter)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
