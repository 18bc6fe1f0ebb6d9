package repositories

import (
	"context"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const categoryTable = "equipment_categories"

var categoryColumns = []string{
	"id", "name", "description", "color", "icon",
	"(SELECT COUNT(*) FROM equipment e WHERE e.category_id = equipment_categories.id) AS equipment_count",
	"created_at", "updated_at",
}

type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]entities.EquipmentCategory, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentCategory, error)
	Create(ctx context.Context, tx pgx.Tx, category *entities.EquipmentCategory) (*entities.EquipmentCategory, error)
	Update(ctx context.Context, tx pgx.Tx, category *entities.EquipmentCategory) (*entities.EquipmentCategory, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type CategoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewCategoryRepository(storage *pgxpool.Pool, logger *zap.Logger) CategoryRepositoryInterface {
	return &CategoryRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanCategory(row pgx.Row) (*entities.EquipmentCategory, error) {
	var c entities.EquipmentCategory
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.EquipmentCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "категория")
	}
	return &c, nil
}

// List - справочник целиком, по имени. Категорий мало, пагинация не нужна.
func (r *CategoryRepository) List(ctx context.Context) ([]entities.EquipmentCategory, error) {
	query, args, err := r.psql.Select(categoryColumns...).From(categoryTable).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]entities.EquipmentCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EquipmentCategory, error) {
	query, args, err := r.psql.Select(categoryColumns...).From(categoryTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCategory(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *CategoryRepository) Create(ctx context.Context, tx pgx.Tx, c *entities.EquipmentCategory) (*entities.EquipmentCategory, error) {
	query, args, err := r.psql.Insert(categoryTable).
		Columns("name", "description", "color", "icon").
		Values(c.Name, c.Description, c.Color, c.Icon).
		Suffix("RETURNING " + joinColumns(categoryColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanCategory(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *CategoryRepository) Update(ctx context.Context, tx pgx.Tx, c *entities.EquipmentCategory) (*entities.EquipmentCategory, error) {
	query, args, err := r.psql.Update(categoryTable).
		Set("name", c.Name).
		Set("description", c.Description).
		Set("color", c.Color).
		Set("icon", c.Icon).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + joinColumns(categoryColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanCategory(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// Delete: оборудование категории остаётся, category_id обнуляется (ON DELETE SET NULL).
func (r *CategoryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := r.psql.Delete(categoryTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "категория")
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "категория")
	}
	return nil
}
