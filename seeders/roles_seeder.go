package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'roles'...")

	query := `INSERT INTO roles (name, description) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range rolesData {
		if _, err := tx.Exec(ctx, query, r.Name, r.Description); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// seedRolePermissions только добавляет недостающие связи, ручные изменения не трогает.
func seedRolePermissions(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'role_permissions'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO role_permissions (role_id, permission_id)
			  SELECT r.id, p.id FROM roles r, permissions p WHERE r.name = $1 AND p.name = $2
			  ON CONFLICT DO NOTHING`

	for _, r := range rolesData {
		for _, capability := range r.Capabilities {
			tag, err := tx.Exec(ctx, query, r.Name, capability)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				log.Printf("    - Связь %s -> %s уже есть или роль/право не найдены", r.Name, capability)
			}
		}
	}
	return tx.Commit(ctx)
}
