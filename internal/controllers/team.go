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

type TeamController struct {
	teamService services.TeamServiceInterface
	logger      *zap.Logger
}

func NewTeamController(teamService services.TeamServiceInterface, logger *zap.Logger) *TeamController {
	return &TeamController{teamService: teamService, logger: logger}
}

func (ctrl *TeamController) GetTeams(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())
	teams, total, err := ctrl.teamService.ListTeams(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if teams == nil {
		teams = make([]entities.Team, 0)
	}
	return utils.SuccessResponse(c, teams, "Успешно", http.StatusOK, total)
}

func (ctrl *TeamController) FindTeam(c echo.Context) error {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	team, err := ctrl.teamService.FindTeam(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, team, "Успешно", http.StatusOK)
}

func (ctrl *TeamController) CreateTeam(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CreateTeamDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.teamService.CreateTeam(c.Request().Context(), principal, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Команда создана", http.StatusCreated, ctrl.logger)
}

func (ctrl *TeamController) UpdateTeam(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateTeamDTO
	if payload.Fields, err = bindPatch(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.teamService.UpdateTeam(c.Request().Context(), principal, id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Команда обновлена", http.StatusOK, ctrl.logger)
}

func (ctrl *TeamController) DeleteTeam(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.teamService.DeleteTeam(c.Request().Context(), principal, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if out.Degraded() {
		return utils.DegradedResponse(c, nil, "Команда удалена", http.StatusOK, out.AuditErr, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Команда удалена", http.StatusOK)
}

func (ctrl *TeamController) AddMember(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	teamID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.CreateTeamMemberDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.teamService.AddMember(c.Request().Context(), principal, teamID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Участник добавлен", http.StatusCreated, ctrl.logger)
}

func (ctrl *TeamController) UpdateMember(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	teamID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	memberID, err := utils.ParseIDParam(c, "member_id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateTeamMemberDTO
	if payload.Fields, err = bindPatch(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.teamService.UpdateMember(c.Request().Context(), principal, teamID, memberID, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return respondOutcome(c, out, "Участник обновлён", http.StatusOK, ctrl.logger)
}

func (ctrl *TeamController) RemoveMember(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	teamID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	memberID, err := utils.ParseIDParam(c, "member_id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	out, err := ctrl.teamService.RemoveMember(c.Request().Context(), principal, teamID, memberID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if out.Degraded() {
		return utils.DegradedResponse(c, nil, "Участник удалён", http.StatusOK, out.AuditErr, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Участник удалён", http.StatusOK)
}
