package services

import (
	"context"
	"testing"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStage_LowestSequence(t *testing.T) {
	env := newTestEnv()

	stage, err := env.stages.DefaultStage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, env.stageNew.ID, stage.ID)

	list, err := env.stages.ListStages(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "New", list[0].Name)
	assert.Equal(t, "Scrap", list[3].Name)
}

func TestCreateStage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.stages.CreateStage(ctx, principalWith("m@plant.io", authz.ManageRequests), dto.CreateStageDTO{Name: "Waiting parts"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	out, err := env.stages.CreateStage(ctx, adminPrincipal(), dto.CreateStageDTO{Name: " Waiting parts ", Sequence: 15})
	require.NoError(t, err)
	assert.Equal(t, "Waiting parts", out.Data.Name)
	assert.Equal(t, defaultStageColor, out.Data.Color)
	assert.Equal(t, "Created stage: Waiting parts", env.activity.last().Description)
}

func TestUpdateStage_Partial(t *testing.T) {
	env := newTestEnv()

	out, err := env.stages.UpdateStage(context.Background(), adminPrincipal(), env.stageProgress.ID, dto.UpdateStageDTO{
		Fold:  null.BoolFrom(true),
		Color: null.String{},
		Patch: patchOf("fold", "color"),
	})
	require.NoError(t, err)
	assert.True(t, out.Data.Fold)
	assert.Equal(t, defaultStageColor, out.Data.Color)
	assert.Equal(t, "In Progress", out.Data.Name)
	assert.Equal(t, 20, out.Data.Sequence)
}

func TestDeleteStage_InUseConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	admin := adminPrincipal()
	env.createRequest(t, admin, dto.CreateRequestDTO{})

	_, err := env.stages.DeleteStage(ctx, admin, env.stageNew.ID)
	assert.True(t, apperrors.IsConflict(err))
	_, err = env.stages.GetStage(ctx, env.stageNew.ID)
	assert.NoError(t, err, "стадия осталась")

	out, err := env.stages.DeleteStage(ctx, admin, env.stageScrap.ID)
	require.NoError(t, err)
	assert.False(t, out.Degraded())
	assert.Equal(t, "Deleted stage: Scrap", env.activity.last().Description)

	_, err = env.stages.GetStage(ctx, env.stageScrap.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTeams(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := principalWith("m@plant.io", authz.ManageTeams)

	_, err := env.teams.CreateTeam(ctx, principalWith("user@plant.io"), dto.CreateTeamDTO{Name: "Welders"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	created, err := env.teams.CreateTeam(ctx, manager, dto.CreateTeamDTO{Name: "Welders"})
	require.NoError(t, err)
	assert.True(t, created.Data.IsActive)
	assert.Equal(t, defaultTeamColor, created.Data.Color)

	_, err = env.teams.CreateTeam(ctx, manager, dto.CreateTeamDTO{Name: "welders"})
	assert.True(t, apperrors.IsConflict(err))

	updated, err := env.teams.UpdateTeam(ctx, manager, created.Data.ID, dto.UpdateTeamDTO{
		IsActive: null.BoolFrom(false),
		Patch:    patchOf("is_active"),
	})
	require.NoError(t, err)
	assert.False(t, updated.Data.IsActive)
	assert.Equal(t, "Welders", updated.Data.Name)

	_, err = env.teams.DeleteTeam(ctx, manager, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ActionDelete, env.activity.last().Action)
	assert.Equal(t, "Deleted team: Welders", env.activity.last().Description)

	_, err = env.teams.FindTeam(ctx, created.Data.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
