package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/service"
	appwebsocket "maintenance-system/pkg/websocket"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// runBoardRouter: /ws/board вне secureGroup, токен проверяет сам контроллер.
func runBoardRouter(api *echo.Group, hub *appwebsocket.Hub, jwtSvc service.JWTService, authService services.AuthServiceInterface, allowedOrigins []string, logger *zap.Logger) {
	ctrl := controllers.NewBoardController(hub, jwtSvc, authService, allowedOrigins, logger)
	api.GET("/ws/board", ctrl.ServeWs)
}
