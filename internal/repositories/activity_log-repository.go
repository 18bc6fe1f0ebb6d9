package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"
	db "maintenance-system/internal/infrastructure/bd"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const activityLogTable = "activity_logs"

var activityLogColumns = []string{"id", "user_id", "action", "entity_type", "entity_id", "entity_ref", "description", "request_id", "created_at"}

var activityLogAllowedFields = map[string]string{
	"user_id":     "a.user_id",
	"action":      "a.action",
	"entity_type": "a.entity_type",
	"entity_id":   "a.entity_id",
	"created_at":  "a.created_at",
}

type ActivityLogRepositoryInterface interface {
	Create(ctx context.Context, entry *entities.ActivityLog) error
	List(ctx context.Context, filter types.Filter) ([]entities.ActivityLog, uint64, error)
}

type ActivityLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewActivityLogRepository(storage *pgxpool.Pool, logger *zap.Logger) ActivityLogRepositoryInterface {
	return &ActivityLogRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create пишет запись вне транзакции основной операции.
func (r *ActivityLogRepository) Create(ctx context.Context, e *entities.ActivityLog) error {
	query, args, err := r.psql.Insert(activityLogTable).
		Columns("user_id", "action", "entity_type", "entity_id", "entity_ref", "description", "request_id").
		Values(e.UserID, e.Action, e.EntityType, e.EntityID, e.EntityRef, e.Description, e.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.storage.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt)
}

func (r *ActivityLogRepository) List(ctx context.Context, filter types.Filter) ([]entities.ActivityLog, uint64, error) {
	base := r.psql.Select().
		From(activityLogTable + " a").
		LeftJoin("users u ON u.id = a.user_id")
	base = db.ApplyFilters(base, filter, activityLogAllowedFields)
	base = db.ApplySearch(base, filter.Search, "a.description", "a.entity_ref")

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта журнала: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.ActivityLog{}, 0, nil
	}

	cols := append(prefixed("a", activityLogColumns), "u.full_name")
	query, args, err := db.ApplyListParams(base.Columns(cols...), filter, activityLogAllowedFields, "a.created_at DESC", "a.id DESC").ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]entities.ActivityLog, 0)
	for rows.Next() {
		var e entities.ActivityLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.EntityRef, &e.Description, &e.RequestID, &e.CreatedAt, &e.UserName); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
