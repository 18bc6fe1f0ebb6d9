package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runCalendarRouter(secureGroup *echo.Group, requestService services.RequestServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewRequestController(requestService, logger)

	calendar := secureGroup.Group("/calendar")
	calendar.GET("/events", ctrl.CalendarEvents)
}
