package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runCategoryRouter(secureGroup *echo.Group, categoryService services.CategoryServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewCategoryController(categoryService, logger)

	categories := secureGroup.Group("/categories")
	categories.GET("", ctrl.GetCategories)
	categories.POST("", ctrl.CreateCategory)
	categories.GET("/:id", ctrl.FindCategory)
	categories.PUT("/:id", ctrl.UpdateCategory)
	categories.DELETE("/:id", ctrl.DeleteCategory)
}
