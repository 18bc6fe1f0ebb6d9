package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type StageController struct {
	stageService services.StageServiceInterface
	logger       *zap.Logger
}

func NewStageController(stageService services.StageServiceInterface, logger *zap.Logger) *StageController {
	return &StageController{stageService: stageService, logger: logger}
}

func (ctrl *StageController) GetStages(c echo.Context) error {
	stages, err := ctrl.stageService.ListStages(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if stages == nil {
		stages = make([]entities.Stage, 0)
	}
	return utils.SuccessResponse(c, stages, "Успешно", http.StatusOK)
}

func (ctrl *StageController) CreateStage(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CreateStageDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.stageService.CreateStage(c.Request().Context(), principal, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Стадия создана", http.StatusCreated, ctrl.logger)
}

func (ctrl *StageController) UpdateStage(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateStageDTO
	if payload.Fields, err = bindPatch(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.stageService.UpdateStage(c.Request().Context(), principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Стадия обновлена", http.StatusOK, ctrl.logger)
}

func (ctrl *StageController) DeleteStage(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.stageService.DeleteStage(c.Request().Context(), principal, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if out.Degraded() {
		return utils.DegradedResponse(c, nil, "Стадия удалена", http.StatusOK, out.AuditErr, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Стадия удалена", http.StatusOK)
}
