package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const equipmentTable = "equipment"

var equipmentColumns = []string{
	"id", "code", "name", "category_id",
	"(SELECT c.name FROM equipment_categories c WHERE c.id = equipment.category_id) AS category_name",
	"serial_number", "model", "manufacturer",
	"location", "department", "owner_name", "owner_email", "status",
	"default_team_id", "default_technician_id", "purchase_date", "warranty_expiry",
	"is_scrapped", "scrap_date", "scrap_reason", "notes", "created_at", "updated_at",
}

var equipmentAllowedFields = map[string]string{
	"status":          "status",
	"department":      "department",
	"category_id":     "category_id",
	"default_team_id": "default_team_id",
	"is_scrapped":     "is_scrapped",
	"name":            "name",
	"code":            "code",
	"created_at":      "created_at",
}

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	Create(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (*entities.Equipment, error)
	Update(ctx context.Context, tx pgx.Tx, eq *entities.Equipment) (*entities.Equipment, error)
	SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &e.CategoryID, &e.CategoryName, &e.SerialNumber, &e.Model, &e.Manufacturer,
		&e.Location, &e.Department, &e.OwnerName, &e.OwnerEmail, &e.Status,
		&e.DefaultTeamID, &e.DefaultTechnicianID, &e.PurchaseDate, &e.WarrantyExpiry,
		&e.IsScrapped, &e.ScrapDate, &e.ScrapReason, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "оборудование")
	}
	return &e, nil
}

func (r *EquipmentRepository) List(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	base := r.psql.Select().From(equipmentTable)
	base = db.ApplyFilters(base, filter, equipmentAllowedFields)
	base = db.ApplySearch(base, filter.Search, "name", "code", "serial_number", "location")

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта оборудования: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	listQuery := db.ApplyListParams(base.Columns(equipmentColumns...), filter, equipmentAllowedFields, "name ASC", "id ASC")
	query, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, total, rows.Err()
}

func (r *EquipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query, args, err := r.psql.Select(equipmentColumns...).From(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.Equipment) (*entities.Equipment, error) {
	query, args, err := r.psql.Insert(equipmentTable).
		Columns(
			"code", "name", "category_id", "serial_number", "model", "manufacturer",
			"location", "department", "owner_name", "owner_email", "status",
			"default_team_id", "default_technician_id", "purchase_date", "warranty_expiry",
			"is_scrapped", "scrap_date", "scrap_reason", "notes",
		).
		Values(
			e.Code, e.Name, e.CategoryID, e.SerialNumber, e.Model, e.Manufacturer,
			e.Location, e.Department, e.OwnerName, e.OwnerEmail, e.Status,
			e.DefaultTeamID, e.DefaultTechnicianID, e.PurchaseDate, e.WarrantyExpiry,
			e.IsScrapped, e.ScrapDate, e.ScrapReason, e.Notes,
		).
		Suffix("RETURNING " + joinColumns(equipmentColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// Update перезаписывает все изменяемые поля; code не меняется.
func (r *EquipmentRepository) Update(ctx context.Context, tx pgx.Tx, e *entities.Equipment) (*entities.Equipment, error) {
	query, args, err := r.psql.Update(equipmentTable).
		SetMap(map[string]interface{}{
			"name":                  e.Name,
			"category_id":           e.CategoryID,
			"serial_number":         e.SerialNumber,
			"model":                 e.Model,
			"manufacturer":          e.Manufacturer,
			"location":              e.Location,
			"department":            e.Department,
			"owner_name":            e.OwnerName,
			"owner_email":           e.OwnerEmail,
			"status":                e.Status,
			"default_team_id":       e.DefaultTeamID,
			"default_technician_id": e.DefaultTechnicianID,
			"purchase_date":         e.PurchaseDate,
			"warranty_expiry":       e.WarrantyExpiry,
			"is_scrapped":           e.IsScrapped,
			"scrap_date":            e.ScrapDate,
			"scrap_reason":          e.ScrapReason,
			"notes":                 e.Notes,
			"updated_at":            sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": e.ID}).
		Suffix("RETURNING " + joinColumns(equipmentColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// SetStatus меняет только статус: побочный эффект перевода заявки в стадию списания.
func (r *EquipmentRepository) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	query, args, err := r.psql.Update(equipmentTable).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "оборудование")
	}
	return nil
}

func (r *EquipmentRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := r.psql.Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "оборудование")
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "оборудование")
	}
	return nil
}
