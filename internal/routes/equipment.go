package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEquipmentRouter(secureGroup *echo.Group, equipmentService services.EquipmentServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewEquipmentController(equipmentService, logger)

	equipment := secureGroup.Group("/equipment")
	equipment.GET("", ctrl.GetEquipment)
	equipment.POST("", ctrl.CreateEquipment)
	equipment.GET("/:id", ctrl.FindEquipment)
	equipment.PUT("/:id", ctrl.UpdateEquipment)
	equipment.DELETE("/:id", ctrl.DeleteEquipment)
	equipment.POST("/:id/scrap", ctrl.ScrapEquipment)
	equipment.GET("/:id/autofill", ctrl.Autofill)
	equipment.GET("/:id/requests", ctrl.EquipmentRequests)
	equipment.GET("/:id/open-requests", ctrl.OpenRequests)
}
