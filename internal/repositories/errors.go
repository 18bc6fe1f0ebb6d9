package repositories

import (
	"errors"
	"fmt"

	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError переводит ошибки драйвера в доменные.
func mapPgError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s с такими данными уже существует (%s)", apperrors.ErrConflict, entity, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s используется или ссылается на несуществующую запись (%s)", apperrors.ErrConflict, entity, pgErr.ConstraintName)
		}
	}
	return err
}
