package services

import (
	"context"
	"testing"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_CRUD(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := principalWith("manager@plant.io", authz.ManageEquipment)

	_, err := env.categories.CreateCategory(ctx, principalWith("user@plant.io"), dto.CreateCategoryDTO{Name: "Pumps"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	created, err := env.categories.CreateCategory(ctx, manager, dto.CreateCategoryDTO{Name: " Pumps "})
	require.NoError(t, err)
	assert.Equal(t, "Pumps", created.Data.Name)
	assert.Equal(t, entities.DefaultCategoryColor, created.Data.Color)
	assert.Equal(t, entities.DefaultCategoryIcon, created.Data.Icon)
	assert.Equal(t, "Created category: Pumps", env.activity.last().Description)
	assert.Equal(t, entities.EntityCategory, env.activity.last().EntityType)

	_, err = env.categories.CreateCategory(ctx, manager, dto.CreateCategoryDTO{Name: "Pumps"})
	assert.True(t, apperrors.IsConflict(err))

	updated, err := env.categories.UpdateCategory(ctx, manager, created.Data.ID, dto.UpdateCategoryDTO{
		Color: null.StringFrom("#112233"),
		Icon:  null.String{},
		Patch: patchOf("color", "icon"),
	})
	require.NoError(t, err)
	assert.Equal(t, "#112233", updated.Data.Color)
	assert.Equal(t, entities.DefaultCategoryIcon, updated.Data.Icon, "null возвращает значок по умолчанию")
	assert.Equal(t, "Pumps", updated.Data.Name)

	_, err = env.categories.UpdateCategory(ctx, manager, created.Data.ID, dto.UpdateCategoryDTO{
		Name:  null.StringFrom("  "),
		Patch: patchOf("name"),
	})
	assert.True(t, apperrors.IsValidation(err))

	list, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.categories.FindCategory(ctx, 9999)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCategories_EquipmentLink(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := principalWith("manager@plant.io", authz.ManageEquipment)
	pumps := env.addCategory(entities.EquipmentCategory{Name: "Pumps", Color: "#0d6efd", Icon: "bi-droplet"})

	_, err := env.equipment.CreateEquipment(ctx, manager, dto.CreateEquipmentDTO{Name: "Lathe", CategoryID: utils.ToPtr(uint64(9999))})
	assert.True(t, apperrors.IsValidation(err), "несуществующая категория")

	created, err := env.equipment.CreateEquipment(ctx, manager, dto.CreateEquipmentDTO{Name: "Booster pump", CategoryID: &pumps.ID})
	require.NoError(t, err)
	require.NotNil(t, created.Data.CategoryName)
	assert.Equal(t, "Pumps", *created.Data.CategoryName)
	assert.Equal(t, "EQ-0001", created.Data.Code, "отказ не расходует код")

	found, err := env.categories.FindCategory(ctx, pumps.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), found.EquipmentCount)

	fill, err := env.equipment.Autofill(ctx, created.Data.ID)
	require.NoError(t, err)
	require.NotNil(t, fill.CategoryID)
	assert.Equal(t, pumps.ID, *fill.CategoryID)

	_, err = env.categories.DeleteCategory(ctx, manager, pumps.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted category: Pumps", env.activity.last().Description)

	eq, err := env.equipment.FindEquipment(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.Nil(t, eq.CategoryID, "оборудование остаётся без категории")
	assert.Nil(t, eq.CategoryName)
}

func TestUpdateEquipment_CategoryMustExist(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := principalWith("manager@plant.io", authz.ManageEquipment)
	motors := env.addCategory(entities.EquipmentCategory{Name: "Motors"})

	_, err := env.equipment.UpdateEquipment(ctx, manager, env.pump.ID, dto.UpdateEquipmentDTO{
		CategoryID: null.Uint64From(9999),
		Patch:      patchOf("category_id"),
	})
	assert.True(t, apperrors.IsValidation(err))
	assert.Nil(t, env.storedEquipment(env.pump.ID).CategoryID)

	out, err := env.equipment.UpdateEquipment(ctx, manager, env.pump.ID, dto.UpdateEquipmentDTO{
		CategoryID: null.Uint64From(motors.ID),
		Patch:      patchOf("category_id"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Data.CategoryName)
	assert.Equal(t, "Motors", *out.Data.CategoryName)

	out, err = env.equipment.UpdateEquipment(ctx, manager, env.pump.ID, dto.UpdateEquipmentDTO{
		CategoryID: null.Uint64{},
		Patch:      patchOf("category_id"),
	})
	require.NoError(t, err)
	assert.Nil(t, out.Data.CategoryID)
}
