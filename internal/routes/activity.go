package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runActivityRouter(secureGroup *echo.Group, activityService services.ActivityLogServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewActivityController(activityService, logger)
	secureGroup.GET("/activity", ctrl.GetActivity)
}
