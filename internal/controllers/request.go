package controllers

import (
	"fmt"
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestController(requestService services.RequestServiceInterface, logger *zap.Logger) *RequestController {
	return &RequestController{requestService: requestService, logger: logger}
}

func (ctrl *RequestController) GetRequests(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	list, total, err := ctrl.requestService.ListRequests(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if list == nil {
		list = make([]dto.RequestResponseDTO, 0)
	}
	return utils.SuccessResponse(c, list, "Успешно", http.StatusOK, total)
}

func (ctrl *RequestController) FindRequest(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.requestService.FindRequest(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Успешно", http.StatusOK)
}

func (ctrl *RequestController) CreateRequest(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CreateRequestDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.requestService.CreateRequest(c.Request().Context(), principal, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Заявка создана", http.StatusCreated, ctrl.logger)
}

func (ctrl *RequestController) UpdateRequest(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateRequestDTO
	if payload.Fields, err = bindPatch(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.requestService.UpdateRequest(c.Request().Context(), principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Заявка обновлена", http.StatusOK, ctrl.logger)
}

func (ctrl *RequestController) MoveStage(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.MoveStageDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.requestService.MoveStage(c.Request().Context(), principal, id, payload.StageID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Стадия заявки изменена", http.StatusOK, ctrl.logger)
}

func (ctrl *RequestController) AssignTeam(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.AssignTeamDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.requestService.AssignTeam(c.Request().Context(), principal, id, payload.TeamID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Команда назначена", http.StatusOK, ctrl.logger)
}

func (ctrl *RequestController) DeleteRequest(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.requestService.DeleteRequest(c.Request().Context(), principal, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if out.Degraded() {
		return utils.DegradedResponse(c, nil, "Заявка удалена", http.StatusOK, out.AuditErr, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Заявка удалена", http.StatusOK)
}

// ExportRequests отдаёт xlsx с теми же фильтрами, что и список.
func (ctrl *RequestController) ExportRequests(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	content, err := ctrl.requestService.ExportRequests(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "maintenance_requests.xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, content)
}
