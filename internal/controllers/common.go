package controllers

import (
	"io"
	"net/http"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func principalFrom(c echo.Context) (*authz.Principal, error) {
	principal, err := middleware.PrincipalFromContext(c.Request().Context())
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return principal, nil
}

// bindPatch читает тело целиком: присланные ключи нужны, чтобы отличить
// отсутствующее поле от явного null.
func bindPatch(c echo.Context, dst interface{}) (map[string]bool, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Не удалось прочитать тело запроса", err, nil)
	}
	fields, err := utils.DecodePatch(raw, dst)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil)
	}
	return fields, nil
}

func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных", err, nil)
	}
	return c.Validate(dst)
}

func respondOutcome[T any](c echo.Context, out services.Outcome[T], message string, code int, logger *zap.Logger) error {
	if out.Degraded() {
		return utils.DegradedResponse(c, out.Data, message, code, out.AuditErr, logger)
	}
	return utils.SuccessResponse(c, out.Data, message, code)
}
