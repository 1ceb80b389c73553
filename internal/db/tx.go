package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Querier - общий набор методов *sqlx.DB и *sqlx.Tx, которым пользуются репозитории.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// TxRunner выполняет fn внутри одной транзакции.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx Querier) error) error
}

// ErrTxRetryLimit оборачивает последнюю ошибку, когда все попытки упёрлись в конфликт сериализации.
var ErrTxRetryLimit = errors.New("transaction retry limit exceeded")

const defaultMaxAttempts = 5

// SQLXTxRunner запускает SERIALIZABLE транзакции и повторяет их при конфликтах сериализации.
type SQLXTxRunner struct {
	db          *sqlx.DB
	maxAttempts int
}

func NewTxRunner(db *sqlx.DB, maxAttempts int) *SQLXTxRunner {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &SQLXTxRunner{db: db, maxAttempts: maxAttempts}
}

// WithTx выполняет fn в SERIALIZABLE транзакции.
// fn может быть вызвана повторно, поэтому она не должна иметь побочных эффектов вне tx.
func (r *SQLXTxRunner) WithTx(ctx context.Context, fn func(tx Querier) error) error {
	return retry(ctx, r.maxAttempts, func() error {
		return r.runOnce(ctx, fn)
	})
}

// retry повторяет op, пока она падает с конфликтом сериализации, но не больше attempts раз.
func retry(ctx context.Context, attempts int, op func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if sleepErr := sleepWithBackoff(ctx, attempt); sleepErr != nil {
			return sleepErr
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrTxRetryLimit, attempts, err)
}

func (r *SQLXTxRunner) runOnce(ctx context.Context, fn func(tx Querier) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsRetryable сообщает, что ошибка - конфликт сериализации или deadlock.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// IsNumericOverflow сообщает о выходе значения за точность колонки (22003).
func IsNumericOverflow(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22003"
}

// IsForeignKeyViolation сообщает о нарушении внешнего ключа (23503).
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func backoff(attempt int) time.Duration {
	base := 20 * time.Millisecond
	return time.Duration(attempt*attempt) * base
}

func sleepWithBackoff(ctx context.Context, attempt int) error {
	jitter := time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	timer := time.NewTimer(backoff(attempt) + jitter)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
