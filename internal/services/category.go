package services

import (
	"context"
	"fmt"
	"strings"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]entities.EquipmentCategory, error)
	FindCategory(ctx context.Context, id uint64) (*entities.EquipmentCategory, error)
	CreateCategory(ctx context.Context, principal *authz.Principal, in dto.CreateCategoryDTO) (Outcome[*entities.EquipmentCategory], error)
	UpdateCategory(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateCategoryDTO) (Outcome[*entities.EquipmentCategory], error)
	DeleteCategory(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error)
}

type CategoryService struct {
	txManager    repositories.TxManagerInterface
	categoryRepo repositories.CategoryRepositoryInterface
	audit        ActivityLogServiceInterface
	logger       *zap.Logger
}

func NewCategoryService(
	txManager repositories.TxManagerInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	audit ActivityLogServiceInterface,
	logger *zap.Logger,
) CategoryServiceInterface {
	return &CategoryService{txManager: txManager, categoryRepo: categoryRepo, audit: audit, logger: logger}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]entities.EquipmentCategory, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) FindCategory(ctx context.Context, id uint64) (*entities.EquipmentCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("категория %d: %w", id, err)
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, principal *authz.Principal, in dto.CreateCategoryDTO) (Outcome[*entities.EquipmentCategory], error) {
	var out Outcome[*entities.EquipmentCategory]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, apperrors.NewValidationError("name", "название категории обязательно")
	}

	category := &entities.EquipmentCategory{
		Name:        name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	}
	if category.Color == "" {
		category.Color = entities.DefaultCategoryColor
	}
	if category.Icon == "" {
		category.Icon = entities.DefaultCategoryIcon
	}

	created, err := s.categoryRepo.Create(ctx, nil, category)
	if err != nil {
		return out, err
	}
	out.Data = created
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityCategory,
		EntityID:    created.ID,
		EntityRef:   created.Name,
		Description: fmt.Sprintf("Created category: %s", created.Name),
	})
	return out, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateCategoryDTO) (Outcome[*entities.EquipmentCategory], error) {
	var out Outcome[*entities.EquipmentCategory]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}

	var updated *entities.EquipmentCategory
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		category, err := s.categoryRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("категория %d: %w", id, err)
		}
		if patch.Has("name") {
			if !patch.Name.Valid || strings.TrimSpace(patch.Name.String) == "" {
				return apperrors.NewValidationError("name", "название категории обязательно")
			}
			category.Name = strings.TrimSpace(patch.Name.String)
		}
		if patch.Has("description") {
			category.Description = patch.Description.Ptr()
		}
		if patch.Has("color") {
			category.Color = entities.DefaultCategoryColor
			if patch.Color.Valid && patch.Color.String != "" {
				category.Color = patch.Color.String
			}
		}
		if patch.Has("icon") {
			category.Icon = entities.DefaultCategoryIcon
			if patch.Icon.Valid && patch.Icon.String != "" {
				category.Icon = patch.Icon.String
			}
		}
		updated, err = s.categoryRepo.Update(ctx, tx, category)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = updated
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionUpdate,
		EntityType:  entities.EntityCategory,
		EntityID:    updated.ID,
		EntityRef:   updated.Name,
		Description: fmt.Sprintf("Updated category: %s", updated.Name),
	})
	return out, nil
}

// DeleteCategory: оборудование остаётся без категории.
func (s *CategoryService) DeleteCategory(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error) {
	var out Outcome[struct{}]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}

	var name string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		category, err := s.categoryRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("категория %d: %w", id, err)
		}
		name = category.Name
		return s.categoryRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return out, err
	}

	s.logger.Info("Категория удалена", zap.Uint64("id", id), zap.String("name", name))
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionDelete,
		EntityType:  entities.EntityCategory,
		EntityID:    id,
		EntityRef:   name,
		Description: fmt.Sprintf("Deleted category: %s", name),
	})
	return out, nil
}
