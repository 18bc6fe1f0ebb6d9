package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(equipmentService services.EquipmentServiceInterface, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{equipmentService: equipmentService, logger: logger}
}

func (ctrl *EquipmentController) GetEquipment(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	list, total, err := ctrl.equipmentService.ListEquipment(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if list == nil {
		list = make([]dto.EquipmentResponseDTO, 0)
	}
	return utils.SuccessResponse(c, list, "Успешно", http.StatusOK, total)
}

func (ctrl *EquipmentController) FindEquipment(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.equipmentService.FindEquipment(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Успешно", http.StatusOK)
}

func (ctrl *EquipmentController) CreateEquipment(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CreateEquipmentDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.equipmentService.CreateEquipment(c.Request().Context(), principal, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Оборудование добавлено", http.StatusCreated, ctrl.logger)
}

func (ctrl *EquipmentController) UpdateEquipment(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateEquipmentDTO
	if payload.Fields, err = bindPatch(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.equipmentService.UpdateEquipment(c.Request().Context(), principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Оборудование обновлено", http.StatusOK, ctrl.logger)
}

func (ctrl *EquipmentController) DeleteEquipment(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.equipmentService.DeleteEquipment(c.Request().Context(), principal, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if out.Degraded() {
		return utils.DegradedResponse(c, nil, "Оборудование удалено", http.StatusOK, out.AuditErr, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Оборудование удалено", http.StatusOK)
}

func (ctrl *EquipmentController) ScrapEquipment(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.ScrapEquipmentDTO
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &payload); err != nil {
			return utils.ErrorResponse(c, err, ctrl.logger)
		}
	}

	out, err := ctrl.equipmentService.ScrapEquipment(c.Request().Context(), principal, id, payload.Reason)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Оборудование списано", http.StatusOK, ctrl.logger)
}

func (ctrl *EquipmentController) Autofill(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.equipmentService.Autofill(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Успешно", http.StatusOK)
}

func (ctrl *EquipmentController) EquipmentRequests(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	res, err := ctrl.equipmentService.EquipmentRequests(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Успешно", http.StatusOK)
}

func (ctrl *EquipmentController) OpenRequests(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	count, err := ctrl.equipmentService.CountOpenRequests(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.OpenRequestsDTO{EquipmentID: id, OpenCount: count}, "Успешно", http.StatusOK)
}
