package seeders

import (
	"context"
	"log"

	"maintenance-system/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
)

// true - обновить описание, если возможность с таким name уже есть.
const updateIfExistsPermissions = false

func seedPermissions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'permissions'...")

	query := `INSERT INTO permissions (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	if updateIfExistsPermissions {
		query = `INSERT INTO permissions (name, description) VALUES ($1, $2)
				 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, name := range authz.AllCapabilities {
		if _, err := tx.Exec(ctx, query, name, authz.Describe(name)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
