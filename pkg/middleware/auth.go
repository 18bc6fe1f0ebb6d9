package middleware

import (
	"context"
	"strings"

	"maintenance-system/internal/authz"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PrincipalResolver превращает ID из токена в субъекта с набором возможностей.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uint64) (*authz.Principal, error)
}

type AuthMiddleware struct {
	jwtService service.JWTService
	resolver   PrincipalResolver
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, resolver PrincipalResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		resolver:   resolver,
		logger:     logger,
	}
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		principal, err := m.resolver.ResolvePrincipal(ctx, claims.UserID)
		if err != nil {
			m.logger.Warn("AuthMiddleware: не удалось определить пользователя", zap.Uint64("userID", claims.UserID), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.PrincipalKey, principal)
		c.SetRequest(c.Request().WithContext(ctx))

		m.logger.Debug("AuthMiddleware: пользователь аутентифицирован", zap.Uint64("userID", claims.UserID))
		return next(c)
	}
}

// PrincipalFromContext достаёт субъекта, положенного Auth.
func PrincipalFromContext(ctx context.Context) (*authz.Principal, error) {
	principal, ok := ctx.Value(contextkeys.PrincipalKey).(*authz.Principal)
	if !ok || principal == nil {
		return nil, apperrors.ErrPrincipalNotFoundInContext
	}
	return principal, nil
}

// AuthorizeAny пропускает запрос, если у субъекта есть хотя бы одна из возможностей.
func (m *AuthMiddleware) AuthorizeAny(capabilities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := PrincipalFromContext(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			for _, capability := range capabilities {
				if authz.Authorize(principal, capability) {
					return next(c)
				}
			}
			m.logger.Warn("AuthMiddleware: недостаточно прав",
				zap.Uint64("userID", principal.UserID),
				zap.Strings("required", capabilities),
			)
			return utils.ErrorResponse(c, apperrors.ErrPermissionDenied, m.logger)
		}
	}
}
