package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	SequenceRequestReference = "maintenance_request.reference"
	SequenceEquipmentCode    = "equipment.code"
)

type SequenceRepositoryInterface interface {
	Next(ctx context.Context, tx pgx.Tx, name string) (uint64, error)
}

type SequenceRepository struct {
	storage *pgxpool.Pool
}

func NewSequenceRepository(storage *pgxpool.Pool) SequenceRepositoryInterface {
	return &SequenceRepository{storage: storage}
}

// Next атомарно выдаёт следующее значение счётчика. Первое значение - 1.
// Внутри транзакции строка счётчика блокируется до коммита, поэтому номера не повторяются.
func (r *SequenceRepository) Next(ctx context.Context, tx pgx.Tx, name string) (uint64, error) {
	const query = `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`

	var value uint64
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
