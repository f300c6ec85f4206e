package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

type txContextKey struct{}

// Tx is the transactional surface repositories work against. The material
// cascade delete is the heaviest user: children and parent go in one
// transaction or not at all.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Transaction owns an open sqlx transaction. Commit and Rollback are
// idempotent so a deferred Rollback after a successful Commit is a no-op.
type Transaction struct {
	*sqlx.Tx
	logger ectologger.Logger
	closed bool
}

// nestedTx is handed to callers that joined a transaction already on the
// context. The opener owns the lifecycle; Commit and Rollback here do
// nothing so an inner method can't close the outer transaction.
type nestedTx struct {
	*Transaction
}

func (nestedTx) Commit(context.Context) error   { return nil }
func (nestedTx) Rollback(context.Context) error { return nil }

// GetTx joins the transaction already carried by the context, or begins a
// new one and stores it on the returned context so nested repository calls
// share it.
func GetTx(ctx context.Context, logger ectologger.Logger, db DB, opts *sql.TxOptions) (context.Context, Tx, error) {
	if existing, ok := ctx.Value(txContextKey{}).(*Transaction); ok && !existing.closed {
		return ctx, nestedTx{existing}, nil
	}

	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("failed to begin transaction")
		return ctx, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	t := &Transaction{Tx: tx, logger: logger}
	return context.WithValue(ctx, txContextKey{}, t), t, nil
}

func (t *Transaction) Commit(ctx context.Context) error {
	if t.closed {
		return nil
	}
	if err := t.Tx.Commit(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Error("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.closed = true
	return nil
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	if err := t.Tx.Rollback(); err != nil {
		t.logger.WithContext(ctx).WithError(err).Error("failed to roll back transaction")
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	t.closed = true
	return nil
}
