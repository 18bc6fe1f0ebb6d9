package controllers

import (
	"net/http"
	"sort"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const refreshTokenCookie = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Warn("Login: неверные данные", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("email", payload.Email), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return ctrl.generateTokensAndRespond(c, user.ID, &dto.UserPublicDTO{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		RoleID:   user.RoleID,
		RoleName: user.RoleName,
		TeamID:   user.TeamID,
	}, "Авторизация прошла успешно")
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

// RefreshToken принимает токен из cookie либо из тела запроса.
func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var payload dto.RefreshTokenDTO
		if err := bindAndValidate(c, &payload); err != nil {
			return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
		}
		token = payload.RefreshToken
	}

	claims, err := ctrl.jwtSvc.ValidateToken(token)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	if !claims.IsRefreshToken {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusUnauthorized, "Для обновления должен использоваться refresh токен", nil, nil))
	}
	return ctrl.generateTokensAndRespond(c, claims.UserID, nil, "Токены успешно обновлены")
}

func (ctrl *AuthController) Me(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	user, err := ctrl.authService.GetUserByID(c.Request().Context(), principal.UserID)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	response := dto.UserPublicDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		RoleID:      user.RoleID,
		RoleName:    user.RoleName,
		TeamID:      user.TeamID,
		Permissions: make([]string, 0, len(principal.Permissions)),
	}
	for name, granted := range principal.Permissions {
		if granted {
			response.Permissions = append(response.Permissions, name)
		}
	}
	sort.Strings(response.Permissions)
	return utils.SuccessResponse(c, response, "Профиль пользователя успешно получен", http.StatusOK)
}

func (ctrl *AuthController) generateTokensAndRespond(c echo.Context, userID uint64, user *dto.UserPublicDTO, message string) error {
	accessToken, refreshToken, err := ctrl.jwtSvc.GenerateTokens(userID)
	if err != nil {
		ctrl.logger.Error("Не удалось сгенерировать токены", zap.Uint64("userID", userID), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
	})

	return utils.SuccessResponse(c, dto.AuthResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, message, http.StatusOK)
}
