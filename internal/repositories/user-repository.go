package repositories

import (
	"context"
	"strings"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var userSelectColumns = []string{
	"u.id", "u.email", "u.full_name", "u.password_hash", "u.role_id", "u.team_id",
	"u.is_active", "r.name", "u.created_at", "u.updated_at",
}

type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, tx pgx.Tx, user *entities.User) (*entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	psql    sq.StatementBuilderType
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{
		storage: storage,
		logger:  logger,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Password, &u.RoleID, &u.TeamID, &u.IsActive, &u.RoleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err, "пользователь")
	}
	return &u, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.User, error) {
	query, args, err := r.psql.Select(userSelectColumns...).
		From("users u").
		LeftJoin("roles r ON r.id = u.role_id").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Expr("LOWER(u.email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

func (r *UserRepository) CreateUser(ctx context.Context, tx pgx.Tx, u *entities.User) (*entities.User, error) {
	query, args, err := r.psql.Insert("users").
		Columns("email", "full_name", "password_hash", "role_id", "team_id", "is_active").
		Values(u.Email, u.FullName, u.Password, u.RoleID, u.TeamID, u.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	created := *u
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapPgError(err, "пользователь")
	}
	return &created, nil
}
