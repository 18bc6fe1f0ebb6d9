package controllers

import (
	"net/http"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
	appwebsocket "maintenance-system/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BoardController - живая лента изменений канбан-доски.
// Браузер не умеет слать заголовки при апгрейде, поэтому токен приходит в ?token=.
type BoardController struct {
	hub         *appwebsocket.Hub
	jwtService  service.JWTService
	authService services.AuthServiceInterface
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

func NewBoardController(hub *appwebsocket.Hub, jwtService service.JWTService, authService services.AuthServiceInterface, allowedOrigins []string, logger *zap.Logger) *BoardController {
	return &BoardController{
		hub:         hub,
		jwtService:  jwtService,
		authService: authService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

func (ctrl *BoardController) principal(c echo.Context) (*authz.Principal, error) {
	token := c.QueryParam("token")
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	claims, err := ctrl.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotAccess
	}
	return ctrl.authService.ResolvePrincipal(c.Request().Context(), claims.UserID)
}

func (ctrl *BoardController) ServeWs(c echo.Context) error {
	principal, err := ctrl.principal(c)
	if err != nil {
		ctrl.logger.Warn("WebSocket: отказ в подключении", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	conn, err := ctrl.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		ctrl.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(ctrl.hub, conn, principal.UserID)
	if !ctrl.hub.Register(client) {
		_ = conn.Close()
		return nil
	}
	client.Serve()

	ctrl.logger.Info("WebSocket: клиент подключён к доске", zap.Uint64("userID", principal.UserID))
	return nil
}
