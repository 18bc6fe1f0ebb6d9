package repositories

import (
	"context"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const teamMemberTable = "team_members"

var teamMemberColumns = []string{"id", "team_id", "name", "email", "phone", "role", "is_active", "created_at"}

// TeamMemberRepositoryInterface: участник всегда ищется в рамках своей команды,
// чужой id даёт not found.
type TeamMemberRepositoryInterface interface {
	ListByTeam(ctx context.Context, tx pgx.Tx, teamID uint64) ([]entities.TeamMember, error)
	FindByID(ctx context.Context, tx pgx.Tx, teamID, id uint64) (*entities.TeamMember, error)
	Create(ctx context.Context, tx pgx.Tx, member *entities.TeamMember) (*entities.TeamMember, error)
	Update(ctx context.Context, tx pgx.Tx, member *entities.TeamMember) (*entities.TeamMember, error)
	Delete(ctx context.Context, tx pgx.Tx, teamID, id uint64) error
}

type TeamMemberRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewTeamMemberRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamMemberRepositoryInterface {
	return &TeamMemberRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanTeamMember(row pgx.Row) (*entities.TeamMember, error) {
	var m entities.TeamMember
	if err := row.Scan(&m.ID, &m.TeamID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.IsActive, &m.CreatedAt); err != nil {
		return nil, mapPgError(err, "участник команды")
	}
	return &m, nil
}

func (r *TeamMemberRepository) ListByTeam(ctx context.Context, tx pgx.Tx, teamID uint64) ([]entities.TeamMember, error) {
	query, args, err := r.psql.Select(teamMemberColumns...).
		From(teamMemberTable).
		Where(sq.Eq{"team_id": teamID}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := getQuerier(r.storage, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]entities.TeamMember, 0)
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *TeamMemberRepository) FindByID(ctx context.Context, tx pgx.Tx, teamID, id uint64) (*entities.TeamMember, error) {
	query, args, err := r.psql.Select(teamMemberColumns...).
		From(teamMemberTable).
		Where(sq.Eq{"id": id, "team_id": teamID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeamMember(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TeamMemberRepository) Create(ctx context.Context, tx pgx.Tx, m *entities.TeamMember) (*entities.TeamMember, error) {
	query, args, err := r.psql.Insert(teamMemberTable).
		Columns("team_id", "name", "email", "phone", "role", "is_active").
		Values(m.TeamID, m.Name, m.Email, m.Phone, m.Role, m.IsActive).
		Suffix("RETURNING " + joinColumns(teamMemberColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeamMember(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TeamMemberRepository) Update(ctx context.Context, tx pgx.Tx, m *entities.TeamMember) (*entities.TeamMember, error) {
	query, args, err := r.psql.Update(teamMemberTable).
		Set("name", m.Name).
		Set("email", m.Email).
		Set("phone", m.Phone).
		Set("role", m.Role).
		Set("is_active", m.IsActive).
		Where(sq.Eq{"id": m.ID, "team_id": m.TeamID}).
		Suffix("RETURNING " + joinColumns(teamMemberColumns)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeamMember(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *TeamMemberRepository) Delete(ctx context.Context, tx pgx.Tx, teamID, id uint64) error {
	query, args, err := r.psql.Delete(teamMemberTable).Where(sq.Eq{"id": id, "team_id": teamID}).ToSql()
	if err != nil {
		return err
	}
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "участник команды")
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, "участник команды")
	}
	return nil
}
