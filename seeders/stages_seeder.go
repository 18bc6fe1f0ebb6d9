package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedStages заполняет стадии только в пустой таблице: имена стадий не уникальны,
// а настроенный вручную конвейер перезаписывать нельзя.
func seedStages(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'stages'...")

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM stages").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Println("    - Стадии уже настроены. Пропускаем.")
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO stages (name, sequence, color, is_done, is_scrap, fold) VALUES ($1, $2, $3, $4, $5, $6)`
	for _, s := range stagesData {
		if _, err := tx.Exec(ctx, query, s.Name, s.Sequence, s.Color, s.IsDone, s.IsScrap, s.Fold); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
