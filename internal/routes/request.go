package routes

import (
	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runRequestRouter(secureGroup *echo.Group, requestService services.RequestServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewRequestController(requestService, logger)

	requests := secureGroup.Group("/requests")
	requests.GET("/export", ctrl.ExportRequests, authMW.AuthorizeAny(authz.ViewReports, authz.ManageRequests))
	requests.GET("", ctrl.GetRequests)
	requests.POST("", ctrl.CreateRequest)
	requests.GET("/:id", ctrl.FindRequest)
	requests.PUT("/:id", ctrl.UpdateRequest)
	requests.DELETE("/:id", ctrl.DeleteRequest)
	requests.POST("/:id/move-stage", ctrl.MoveStage)
	requests.POST("/:id/assign", ctrl.AssignTeam)
}
