package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CategoryController struct {
	categoryService services.CategoryServiceInterface
	logger          *zap.Logger
}

func NewCategoryController(categoryService services.CategoryServiceInterface, logger *zap.Logger) *CategoryController {
	return &CategoryController{categoryService: categoryService, logger: logger}
}

func (ctrl *CategoryController) GetCategories(c echo.Context) error {
	categories, err := ctrl.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, categories, "Успешно", http.StatusOK, uint64(len(categories)))
}

func (ctrl *CategoryController) FindCategory(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	category, err := ctrl.categoryService.FindCategory(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, category, "Успешно", http.StatusOK)
}

func (ctrl *CategoryController) CreateCategory(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CreateCategoryDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.categoryService.CreateCategory(c.Request().Context(), principal, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Категория создана", http.StatusCreated, ctrl.logger)
}

func (ctrl *CategoryController) UpdateCategory(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateCategoryDTO
	if payload.Fields, err = bindPatch(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.categoryService.UpdateCategory(c.Request().Context(), principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Категория обновлена", http.StatusOK, ctrl.logger)
}

func (ctrl *CategoryController) DeleteCategory(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.categoryService.DeleteCategory(c.Request().Context(), principal, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if out.Degraded() {
		return utils.DegradedResponse(c, nil, "Категория удалена", http.StatusOK, out.AuditErr, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Категория удалена", http.StatusOK)
}
