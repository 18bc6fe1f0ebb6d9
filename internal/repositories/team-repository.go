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

const teamTable = "teams"

var teamColumns = []string{
	"id", "name", "description", "color", "leader_name", "leader_email", "leader_phone", "is_active",
	"(SELECT COUNT(*) FROM team_members m WHERE m.team_id = teams.id) AS member_count",
	"created_at",
}

var teamAllowedFields = map[string]string{
	"is_active":  "is_active",
	"name":       "name",
	"created_at": "created_at",
}

type TeamRepositoryInterface interface {
	List(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Team, error)
	Create(ctx context.Context, tx pgx.Tx, team *entities.Team) (*entities.Team, error)
	Update(ctx context.Context, tx pgx.Tx, team *entities.Team) (*entities.Team, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type TeamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &TeamRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.Color, &t.LeaderName, &t.LeaderEmail, &t.LeaderPhone,
		&t.IsActive, &t.MemberCount, &t.CreatedAt,
	)
	if err != nil {
		return nil, mapPgError(err, "команда")
	}
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context, filter types.Filter) ([]entities.Team, uint64, error) {
	base := r.psql.Select().From(teamTable)
	base = db.ApplyFilters(base, filter, teamAllowedFields)
	base = db.ApplySearch(base, filter.Search, "name")

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчёта команд: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Team{}, 0, nil
	}

	query, args, err := db.ApplyListParams(base.Columns(teamColumns...), filter, teamAllowedFields, "name ASC").ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, 0, err
		}
		teams = append(teams, *t)
	}
	return teams, total, rows.Err()
}

func (r *TeamRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Team, error) {
	query, args, err := r.psql.Select(teamColumns...).From(teamTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeam(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TeamRepository) Create(ctx context.Context, tx pgx.Tx, t *entities.Team) (*entities.Team, error) {
	query, args, err := r.psql.Insert(teamTable).
		Columns("name", "description", "color", "leader_name", "leader_email", "leader_phone", "is_active").
		Values(t.Name, t.Description, t.Color, t.LeaderName, t.LeaderEmail, t.LeaderPhone, t.IsActive).
		Suffix("RETURNING " + joinColumns(teamColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeam(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TeamRepository) Update(ctx context.Context, tx pgx.Tx, t *entities.Team) (*entities.Team, error) {
	query, args, err := r.psql.Update(teamTable).
		Set("name", t.Name).
		Set("description", t.Description).
		Set("color", t.Color).
		Set("leader_name", t.LeaderName).
		Set("leader_email", t.LeaderEmail).
		Set("leader_phone", t.LeaderPhone).
		Set("is_active", t.IsActive).
		Where(sq.Eq{"id": t.ID}).
		Suffix("RETURNING " + joinColumns(teamColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeam(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TeamRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := r.psql.Delete(teamTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "команда")
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "команда")
	}
	return nil
}
