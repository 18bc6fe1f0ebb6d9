package seeders

import (
	"context"
	"fmt"
	"log"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'teams'...")

	query := `INSERT INTO teams (name, description, color, leader_name, leader_email)
			  VALUES ($1, $2, $3, $4, $5) ON CONFLICT (name) DO NOTHING`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, t := range teamsData {
		if _, err := tx.Exec(ctx, query, t.Name, t.Description, t.Color, t.LeaderName, t.LeaderEmail); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func seedTeamMembers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'team_members'...")

	txManager := repositories.NewTxManager(db)
	return txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM team_members").Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			log.Println("    - Участники команд уже есть. Пропускаем.")
			return nil
		}

		teams, err := mapIDsByColumn(ctx, tx, "teams", "name")
		if err != nil {
			return err
		}
		query := `INSERT INTO team_members (team_id, name, email, role) VALUES ($1, $2, $3, $4)`
		for _, m := range teamMembersData {
			teamID := optionalID(teams, m.Team)
			if teamID == nil {
				return fmt.Errorf("участник '%s': команда '%s' не найдена", m.Name, m.Team)
			}
			var email *string
			if m.Email != "" {
				email = &m.Email
			}
			if _, err := tx.Exec(ctx, query, *teamID, m.Name, email, m.Role); err != nil {
				return fmt.Errorf("участник '%s': %w", m.Name, err)
			}
		}
		return nil
	})
}

func seedCategories(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'equipment_categories'...")

	query := `INSERT INTO equipment_categories (name, description, color, icon)
			  VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range categoriesData {
		if _, err := tx.Exec(ctx, query, c.Name, c.Description, c.Color, c.Icon); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// seedEquipment выдаёт коды через тот же счётчик, что и API, чтобы EQ-номера не пересекались.
func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'equipment'...")

	sequenceRepo := repositories.NewSequenceRepository(db)
	txManager := repositories.NewTxManager(db)

	return txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM equipment").Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			log.Println("    - Оборудование уже есть. Пропускаем.")
			return nil
		}

		teams, err := mapIDsByColumn(ctx, tx, "teams", "name")
		if err != nil {
			return err
		}
		users, err := mapIDsByColumn(ctx, tx, "users", "email")
		if err != nil {
			return err
		}
		categories, err := mapIDsByColumn(ctx, tx, "equipment_categories", "name")
		if err != nil {
			return err
		}

		query := `INSERT INTO equipment (code, name, category_id, location, department, owner_name, status,
					manufacturer, model, default_team_id, default_technician_id)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

		for _, e := range equipmentData {
			n, err := sequenceRepo.Next(ctx, tx, repositories.SequenceEquipmentCode)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query,
				entities.FormatEquipmentCode(n), e.Name, optionalID(categories, e.Category), e.Location, e.Department, e.OwnerName, e.Status,
				e.Manufacturer, e.Model, optionalID(teams, e.Team), optionalID(users, e.Technician),
			); err != nil {
				return fmt.Errorf("оборудование '%s': %w", e.Name, err)
			}
		}
		return nil
	})
}

func mapIDsByColumn(ctx context.Context, tx pgx.Tx, table, column string) (map[string]uint64, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT id, %s FROM %s", column, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]uint64)
	for rows.Next() {
		var id uint64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		result[key] = id
	}
	return result, rows.Err()
}

func optionalID(ids map[string]uint64, key string) *uint64 {
	id, ok := ids[key]
	if !ok {
		return nil
	}
	return &id
}
