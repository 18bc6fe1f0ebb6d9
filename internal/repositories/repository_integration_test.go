package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/migrations"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Интеграционные тесты запускаются только при заданном TEST_DATABASE_URL.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	ctx := context.Background()
	logger := zap.NewNop()
	pool, err := postgresql.ConnectDB(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgresql.Migrate(pool, migrations.FS, logger))
	_, err = pool.Exec(ctx, `TRUNCATE TABLE activity_logs, maintenance_requests, equipment, equipment_categories, team_members, teams, stages, counters RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "Не удалось очистить таблицы")
	return pool
}

func TestSequenceRepository_Next(t *testing.T) {
	pool := setupPool(t)
	repo := NewSequenceRepository(pool)
	ctx := context.Background()

	first, err := repo.Next(ctx, nil, SequenceRequestReference)
	require.NoError(t, err)
	second, err := repo.Next(ctx, nil, SequenceRequestReference)
	require.NoError(t, err)
	other, err := repo.Next(ctx, nil, SequenceEquipmentCode)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(1), other)
}

func TestRequestRepository_Lifecycle(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	logger := zap.NewNop()

	stages := NewStageRepository(pool, logger)
	equipment := NewEquipmentRepository(pool, logger)
	requests := NewRequestRepository(pool, logger)
	txManager := NewTxManager(pool)

	newStage, err := stages.Create(ctx, nil, &entities.Stage{Name: "New", Sequence: 1, Color: "#6c757d"})
	require.NoError(t, err)
	doneStage, err := stages.Create(ctx, nil, &entities.Stage{Name: "Repaired", Sequence: 3, IsDone: true, Color: "#198754"})
	require.NoError(t, err)

	first, err := stages.FindFirst(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, newStage.ID, first.ID)

	eq, err := equipment.Create(ctx, nil, &entities.Equipment{Code: entities.FormatEquipmentCode(1), Name: "Pump", Status: entities.EquipmentOperational})
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	created, err := requests.Create(ctx, nil, &entities.MaintenanceRequest{
		Reference:      entities.FormatReference(1),
		Name:           "Leak",
		EquipmentID:    eq.ID,
		StageID:        newStage.ID,
		RequestType:    entities.RequestTypeCorrective,
		Priority:       entities.PriorityHigh,
		RequesterEmail: "user@plant.io",
		Deadline:       &past,
	})
	require.NoError(t, err)

	open, err := requests.CountOpenByEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), open)

	overdue, total, err := requests.List(ctx, types.Filter{Filter: map[string]interface{}{"overdue": "true"}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Len(t, overdue, 1)

	err = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		locked, err := requests.FindForUpdate(ctx, tx, created.ID)
		if err != nil {
			return err
		}
		locked.StageID = doneStage.ID
		_, err = requests.Update(ctx, tx, locked)
		return err
	})
	require.NoError(t, err)

	open, err = requests.CountOpenByEquipment(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), open)

	inUse, err := requests.CountByStage(ctx, nil, doneStage.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), inUse)

	require.NoError(t, requests.Delete(ctx, nil, created.ID))
	_, err = requests.FindByID(ctx, nil, created.ID)
	assert.Error(t, err)
}

func TestCategoryAndTeamRepositories_Counts(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	logger := zap.NewNop()

	categories := NewCategoryRepository(pool, logger)
	equipment := NewEquipmentRepository(pool, logger)
	teams := NewTeamRepository(pool, logger)
	members := NewTeamMemberRepository(pool, logger)

	pumps, err := categories.Create(ctx, nil, &entities.EquipmentCategory{Name: "Pumps", Color: "#0d6efd", Icon: "bi-droplet"})
	require.NoError(t, err)
	assert.Zero(t, pumps.EquipmentCount)

	eq, err := equipment.Create(ctx, nil, &entities.Equipment{
		Code:       entities.FormatEquipmentCode(1),
		Name:       "Pump",
		Status:     entities.EquipmentOperational,
		CategoryID: &pumps.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, eq.CategoryName)
	assert.Equal(t, "Pumps", *eq.CategoryName)

	found, err := categories.FindByID(ctx, nil, pumps.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), found.EquipmentCount)

	require.NoError(t, categories.Delete(ctx, nil, pumps.ID))
	eq, err = equipment.FindByID(ctx, nil, eq.ID)
	require.NoError(t, err)
	assert.Nil(t, eq.CategoryID)

	team, err := teams.Create(ctx, nil, &entities.Team{Name: "Mechanics", Color: "#0d6efd", IsActive: true})
	require.NoError(t, err)
	_, err = members.Create(ctx, nil, &entities.TeamMember{TeamID: team.ID, Name: "Ivan", Role: entities.DefaultMemberRole, IsActive: true})
	require.NoError(t, err)

	team, err = teams.FindByID(ctx, nil, team.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), team.MemberCount)

	_, err = members.FindByID(ctx, nil, team.ID+1, 1)
	assert.Error(t, err)
}

func TestRequestRepository_ListScheduled(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	logger := zap.NewNop()

	stages := NewStageRepository(pool, logger)
	equipment := NewEquipmentRepository(pool, logger)
	requests := NewRequestRepository(pool, logger)

	stage, err := stages.Create(ctx, nil, &entities.Stage{Name: "New", Sequence: 1, Color: "#6c757d"})
	require.NoError(t, err)
	eq, err := equipment.Create(ctx, nil, &entities.Equipment{Code: entities.FormatEquipmentCode(1), Name: "Pump", Status: entities.EquipmentOperational})
	require.NoError(t, err)

	day := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	for i, scheduled := range []*time.Time{&day, nil} {
		_, err := requests.Create(ctx, nil, &entities.MaintenanceRequest{
			Reference:      entities.FormatReference(uint64(i + 1)),
			Name:           "Check",
			EquipmentID:    eq.ID,
			StageID:        stage.ID,
			RequestType:    entities.RequestTypeCorrective,
			Priority:       entities.PriorityNormal,
			RequesterEmail: "user@plant.io",
			ScheduledDate:  scheduled,
		})
		require.NoError(t, err)
	}

	items, err := requests.ListScheduled(ctx, &day, &day)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].EquipmentName)
	assert.Equal(t, "Pump", *items[0].EquipmentName)
	assert.Nil(t, items[0].TeamName)

	after := day.Add(time.Hour)
	items, err = requests.ListScheduled(ctx, &after, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
