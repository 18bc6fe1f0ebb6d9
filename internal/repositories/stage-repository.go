package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const stageTable = "stages"

var stageColumns = []string{"id", "name", "sequence", "is_done", "is_scrap", "fold", "color", "description", "created_at", "updated_at"}

type StageRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Stage, error)
	FindFirst(ctx context.Context, tx pgx.Tx) (*entities.Stage, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Stage, error)
	Create(ctx context.Context, tx pgx.Tx, stage *entities.Stage) (*entities.Stage, error)
	Update(ctx context.Context, tx pgx.Tx, stage *entities.Stage) (*entities.Stage, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type StageRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewStageRepository(storage *pgxpool.Pool, logger *zap.Logger) StageRepositoryInterface {
	return &StageRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanStage(row pgx.Row) (*entities.Stage, error) {
	var s entities.Stage
	err := row.Scan(&s.ID, &s.Name, &s.Sequence, &s.IsDone, &s.IsScrap, &s.Fold, &s.Color, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "стадия")
	}
	return &s, nil
}

func (r *StageRepository) List(ctx context.Context) ([]entities.Stage, error) {
	query, args, err := r.psql.Select(stageColumns...).From(stageTable).OrderBy("sequence ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса стадий: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]entities.Stage, 0)
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, *s)
	}
	return stages, rows.Err()
}

func (r *StageRepository) FindFirst(ctx context.Context, tx pgx.Tx) (*entities.Stage, error) {
	query, args, err := r.psql.Select(stageColumns...).From(stageTable).OrderBy("sequence ASC", "id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return scanStage(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *StageRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Stage, error) {
	query, args, err := r.psql.Select(stageColumns...).From(stageTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanStage(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *StageRepository) Create(ctx context.Context, tx pgx.Tx, stage *entities.Stage) (*entities.Stage, error) {
	query, args, err := r.psql.Insert(stageTable).
		Columns("name", "sequence", "is_done", "is_scrap", "fold", "color", "description").
		Values(stage.Name, stage.Sequence, stage.IsDone, stage.IsScrap, stage.Fold, stage.Color, stage.Description).
		Suffix("RETURNING " + joinColumns(stageColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanStage(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *StageRepository) Update(ctx context.Context, tx pgx.Tx, stage *entities.Stage) (*entities.Stage, error) {
	query, args, err := r.psql.Update(stageTable).
		Set("name", stage.Name).
		Set("sequence", stage.Sequence).
		Set("is_done", stage.IsDone).
		Set("is_scrap", stage.IsScrap).
		Set("fold", stage.Fold).
		Set("color", stage.Color).
		Set("description", stage.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": stage.ID}).
		Suffix("RETURNING " + joinColumns(stageColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanStage(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *StageRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := r.psql.Delete(stageTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "стадия")
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "стадия")
	}
	return nil
}
