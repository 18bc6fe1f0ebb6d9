package controllers

import (
	"net/http"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ActivityController struct {
	activityService services.ActivityLogServiceInterface
	logger          *zap.Logger
}

func NewActivityController(activityService services.ActivityLogServiceInterface, logger *zap.Logger) *ActivityController {
	return &ActivityController{activityService: activityService, logger: logger}
}

func (ctrl *ActivityController) GetActivity(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	list, total, err := ctrl.activityService.ListActivity(c.Request().Context(), principal, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if list == nil {
		list = make([]entities.ActivityLog, 0)
	}
	return utils.SuccessResponse(c, list, "Успешно", http.StatusOK, total)
}
