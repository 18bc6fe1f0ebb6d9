package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runTeamRouter(secureGroup *echo.Group, teamService services.TeamServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewTeamController(teamService, logger)

	teams := secureGroup.Group("/teams")
	teams.GET("", ctrl.GetTeams)
	teams.POST("", ctrl.CreateTeam)
	teams.GET("/:id", ctrl.FindTeam)
	teams.PUT("/:id", ctrl.UpdateTeam)
	teams.DELETE("/:id", ctrl.DeleteTeam)
	teams.POST("/:id/members", ctrl.AddMember)
	teams.PUT("/:id/members/:member_id", ctrl.UpdateMember)
	teams.DELETE("/:id/members/:member_id", ctrl.RemoveMember)
}
