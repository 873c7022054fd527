package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is anything that can open a pgx transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager runs a function inside a single database transaction.
// The open transaction travels in the context, so every repository
// call made by fn joins it; any error rolls the whole unit back.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txManager struct {
	db TxBeginner
}

// NewTxManager creates a TxManager over the given pool.
func NewTxManager(db TxBeginner) TxManager {
	return &txManager{db: db}
}

func (m *txManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
