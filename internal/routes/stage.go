package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runStageRouter(secureGroup *echo.Group, stageService services.StageServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewStageController(stageService, logger)

	stages := secureGroup.Group("/stages")
	stages.GET("", ctrl.GetStages)
	stages.POST("", ctrl.CreateStage)
	stages.PUT("/:id", ctrl.UpdateStage)
	stages.DELETE("/:id", ctrl.DeleteStage)
}
