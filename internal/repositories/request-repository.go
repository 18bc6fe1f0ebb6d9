package repositories

import (
	"context"
	"fmt"
	"time"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const requestTable = "maintenance_requests"

var requestColumns = []string{
	"id", "reference", "name", "description", "equipment_id", "team_id", "technician_id",
	"stage_id", "request_type", "priority", "requester_name", "requester_email",
	"scheduled_date", "deadline", "completed_date", "hours_spent", "maintenance_cost",
	"resolution", "created_at", "updated_at",
}

var requestAllowedFields = map[string]string{
	"stage_id":      "r.stage_id",
	"team_id":       "r.team_id",
	"technician_id": "r.technician_id",
	"equipment_id":  "r.equipment_id",
	"priority":      "r.priority",
	"request_type":  "r.request_type",
	"reference":     "r.reference",
	"deadline":      "r.deadline",
	"created_at":    "r.created_at",
	"updated_at":    "r.updated_at",
	"name":          "r.name",
}

// openStageCondition - заявка на стадии, которая не done и не scrap.
const openStageCondition = "NOT (s.is_done OR s.is_scrap)"

type RequestRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter, now time.Time) ([]entities.MaintenanceRequest, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	Create(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error)
	Update(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	CountByStage(ctx context.Context, tx pgx.Tx, stageID uint64) (uint64, error)
	CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error)
	ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error)
	CountOpenByTeam(ctx context.Context, teamID uint64) (uint64, error)
	ListScheduled(ctx context.Context, from, to *time.Time) ([]entities.ScheduledRequest, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var m entities.MaintenanceRequest
	err := row.Scan(
		&m.ID, &m.Reference, &m.Name, &m.Description, &m.EquipmentID, &m.TeamID, &m.TechnicianID,
		&m.StageID, &m.RequestType, &m.Priority, &m.RequesterName, &m.RequesterEmail,
		&m.ScheduledDate, &m.Deadline, &m.CompletedDate, &m.HoursSpent, &m.MaintenanceCost,
		&m.Resolution, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "заявка")
	}
	return &m, nil
}

func (r *RequestRepository) collect(rows pgx.Rows) ([]entities.MaintenanceRequest, error) {
	defer rows.Close()
	items := make([]entities.MaintenanceRequest, 0)
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (r *RequestRepository) List(ctx context.Context, filter types.Filter, now time.Time) ([]entities.MaintenanceRequest, uint64, error) {
	base := r.psql.Select().
		From(requestTable + " r").
		Join(stageTable + " s ON s.id = r.stage_id")
	base = db.ApplyFilters(base, filter, requestAllowedFields)
	base = db.ApplySearch(base, filter.Search, "r.name", "r.reference", "r.description")
	if filter.Bool("overdue") {
		base = base.Where(sq.And{
			sq.NotEq{"r.deadline": nil},
			sq.Lt{"r.deadline": now},
			sq.Expr(openStageCondition),
		})
	}

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта заявок: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.MaintenanceRequest{}, 0, nil
	}

	listQuery := db.ApplyListParams(base.Columns(prefixed("r", requestColumns)...), filter, requestAllowedFields, "r.created_at DESC", "r.id DESC")
	query, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := r.psql.Select(requestColumns...).From(requestTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// FindForUpdate блокирует строку до конца транзакции: операции над одной заявкой идут последовательно.
func (r *RequestRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := r.psql.Select(requestColumns...).From(requestTable).Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *RequestRepository) Create(ctx context.Context, tx pgx.Tx, m *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	query, args, err := r.psql.Insert(requestTable).
		Columns(
			"reference", "name", "description", "equipment_id", "team_id", "technician_id",
			"stage_id", "request_type", "priority", "requester_name", "requester_email",
			"scheduled_date", "deadline", "completed_date", "hours_spent", "maintenance_cost", "resolution",
		).
		Values(
			m.Reference, m.Name, m.Description, m.EquipmentID, m.TeamID, m.TechnicianID,
			m.StageID, m.RequestType, m.Priority, m.RequesterName, m.RequesterEmail,
			m.ScheduledDate, m.Deadline, m.CompletedDate, m.HoursSpent, m.MaintenanceCost, m.Resolution,
		).
		Suffix("RETURNING " + joinColumns(requestColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// Update сохраняет всё, кроме reference: номер заявки неизменяем.
func (r *RequestRepository) Update(ctx context.Context, tx pgx.Tx, m *entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	query, args, err := r.psql.Update(requestTable).
		SetMap(map[string]interface{}{
			"name":             m.Name,
			"description":      m.Description,
			"equipment_id":     m.EquipmentID,
			"team_id":          m.TeamID,
			"technician_id":    m.TechnicianID,
			"stage_id":         m.StageID,
			"request_type":     m.RequestType,
			"priority":         m.Priority,
			"requester_name":   m.RequesterName,
			"requester_email":  m.RequesterEmail,
			"scheduled_date":   m.ScheduledDate,
			"deadline":         m.Deadline,
			"completed_date":   m.CompletedDate,
			"hours_spent":      m.HoursSpent,
			"maintenance_cost": m.MaintenanceCost,
			"resolution":       m.Resolution,
			"updated_at":       sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": m.ID}).
		Suffix("RETURNING " + joinColumns(requestColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *RequestRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := r.psql.Delete(requestTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "заявка")
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "заявка")
	}
	return nil
}

func (r *RequestRepository) count(ctx context.Context, q querier, builder sq.SelectBuilder) (uint64, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total uint64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *RequestRepository) CountByStage(ctx context.Context, tx pgx.Tx, stageID uint64) (uint64, error) {
	builder := r.psql.Select("COUNT(*)").From(requestTable).Where(sq.Eq{"stage_id": stageID})
	return r.count(ctx, getQuerier(r.storage, tx), builder)
}

// CountOpenByEquipment - заявки оборудования на нетерминальных стадиях.
func (r *RequestRepository) CountOpenByEquipment(ctx context.Context, equipmentID uint64) (uint64, error) {
	builder := r.psql.Select("COUNT(*)").
		From(requestTable + " r").
		Join(stageTable + " s ON s.id = r.stage_id").
		Where(sq.Eq{"r.equipment_id": equipmentID}).
		Where(openStageCondition)
	return r.count(ctx, r.storage, builder)
}

func (r *RequestRepository) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRequest, error) {
	query, args, err := r.psql.Select(requestColumns...).
		From(requestTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *RequestRepository) CountOpenByTeam(ctx context.Context, teamID uint64) (uint64, error) {
	builder := r.psql.Select("COUNT(*)").
		From(requestTable + " r").
		Join(stageTable + " s ON s.id = r.stage_id").
		Where(sq.Eq{"r.team_id": teamID}).
		Where(openStageCondition)
	return r.count(ctx, r.storage, builder)
}

// ListScheduled - заявки с плановой датой в [from, to]; пустая граница не ограничивает.
func (r *RequestRepository) ListScheduled(ctx context.Context, from, to *time.Time) ([]entities.ScheduledRequest, error) {
	columns := append(prefixed("r", requestColumns), "e.name", "t.name")
	builder := r.psql.Select(columns...).
		From(requestTable + " r").
		LeftJoin(equipmentTable + " e ON e.id = r.equipment_id").
		LeftJoin(teamTable + " t ON t.id = r.team_id").
		Where(sq.NotEq{"r.scheduled_date": nil}).
		OrderBy("r.scheduled_date ASC", "r.id ASC")
	if from != nil {
		builder = builder.Where(sq.GtOrEq{"r.scheduled_date": *from})
	}
	if to != nil {
		builder = builder.Where(sq.LtOrEq{"r.scheduled_date": *to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.ScheduledRequest, 0)
	for rows.Next() {
		var s entities.ScheduledRequest
		m := &s.MaintenanceRequest
		err := rows.Scan(
			&m.ID, &m.Reference, &m.Name, &m.Description, &m.EquipmentID, &m.TeamID, &m.TechnicianID,
			&m.StageID, &m.RequestType, &m.Priority, &m.RequesterName, &m.RequesterEmail,
			&m.ScheduledDate, &m.Deadline, &m.CompletedDate, &m.HoursSpent, &m.MaintenanceCost,
			&m.Resolution, &m.CreatedAt, &m.UpdatedAt,
			&s.EquipmentName, &s.TeamName,
		)
		if err != nil {
			return nil, mapPgError(err, "заявка")
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
