package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// TxManager открывает READ COMMITTED транзакции; сериализацию по заявке даёт SELECT ... FOR UPDATE.
type TxManager struct {
	pool    *pgxpool.Pool
	options pgx.TxOptions
}

func NewTxManager(pool *pgxpool.Pool) TxManagerInterface {
	return &TxManager{pool: pool, options: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// RunInTransaction коммитит, только если fn вернула nil. Ошибка fn возвращается без обёртки.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, m.options)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	// после Commit откат ничего не делает; при панике соединение не остаётся в транзакции
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}
	return nil
}
