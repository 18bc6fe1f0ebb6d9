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

const defaultStageColor = "#6c757d"

type StageServiceInterface interface {
	ListStages(ctx context.Context) ([]entities.Stage, error)
	DefaultStage(ctx context.Context) (*entities.Stage, error)
	GetStage(ctx context.Context, id uint64) (*entities.Stage, error)
	CreateStage(ctx context.Context, principal *authz.Principal, in dto.CreateStageDTO) (Outcome[*entities.Stage], error)
	UpdateStage(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateStageDTO) (Outcome[*entities.Stage], error)
	DeleteStage(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error)
}

type StageService struct {
	txManager   repositories.TxManagerInterface
	stageRepo   repositories.StageRepositoryInterface
	requestRepo repositories.RequestRepositoryInterface
	audit       ActivityLogServiceInterface
	logger      *zap.Logger
}

func NewStageService(
	txManager repositories.TxManagerInterface,
	stageRepo repositories.StageRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	audit ActivityLogServiceInterface,
	logger *zap.Logger,
) StageServiceInterface {
	return &StageService{
		txManager:   txManager,
		stageRepo:   stageRepo,
		requestRepo: requestRepo,
		audit:       audit,
		logger:      logger,
	}
}

func (s *StageService) ListStages(ctx context.Context) ([]entities.Stage, error) {
	return s.stageRepo.List(ctx)
}

// DefaultStage - стадия с наименьшим sequence, при равенстве - с наименьшим id.
func (s *StageService) DefaultStage(ctx context.Context) (*entities.Stage, error) {
	stage, err := s.stageRepo.FindFirst(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("стадия по умолчанию: %w", err)
	}
	return stage, nil
}

func (s *StageService) GetStage(ctx context.Context, id uint64) (*entities.Stage, error) {
	stage, err := s.stageRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("стадия %d: %w", id, err)
	}
	return stage, nil
}

func (s *StageService) CreateStage(ctx context.Context, principal *authz.Principal, in dto.CreateStageDTO) (Outcome[*entities.Stage], error) {
	var out Outcome[*entities.Stage]
	if err := authz.Require(principal, authz.ManageSettings); err != nil {
		return out, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, apperrors.NewValidationError("name", "название стадии обязательно")
	}

	stage := &entities.Stage{
		Name:        name,
		Sequence:    in.Sequence,
		IsDone:      in.IsDone,
		IsScrap:     in.IsScrap,
		Fold:        in.Fold,
		Color:       in.Color,
		Description: in.Description,
	}
	if stage.Color == "" {
		stage.Color = defaultStageColor
	}

	created, err := s.stageRepo.Create(ctx, nil, stage)
	if err != nil {
		return out, err
	}
	out.Data = created
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityStage,
		EntityID:    created.ID,
		EntityRef:   created.Name,
		Description: fmt.Sprintf("Created stage: %s", created.Name),
	})
	return out, nil
}

func (s *StageService) UpdateStage(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateStageDTO) (Outcome[*entities.Stage], error) {
	var out Outcome[*entities.Stage]
	if err := authz.Require(principal, authz.ManageSettings); err != nil {
		return out, err
	}

	var updated *entities.Stage
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		stage, err := s.stageRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Has("name") {
			if !patch.Name.Valid || strings.TrimSpace(patch.Name.String) == "" {
				return apperrors.NewValidationError("name", "название стадии обязательно")
			}
			stage.Name = strings.TrimSpace(patch.Name.String)
		}
		if patch.Has("sequence") && patch.Sequence.Valid {
			stage.Sequence = patch.Sequence.Int
		}
		if patch.Has("is_done") && patch.IsDone.Valid {
			stage.IsDone = patch.IsDone.Bool
		}
		if patch.Has("is_scrap") && patch.IsScrap.Valid {
			stage.IsScrap = patch.IsScrap.Bool
		}
		if patch.Has("fold") && patch.Fold.Valid {
			stage.Fold = patch.Fold.Bool
		}
		if patch.Has("color") {
			stage.Color = defaultStageColor
			if patch.Color.Valid && patch.Color.String != "" {
				stage.Color = patch.Color.String
			}
		}
		if patch.Has("description") {
			stage.Description = patch.Description.Ptr()
		}

		updated, err = s.stageRepo.Update(ctx, tx, stage)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = updated
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionUpdate,
		EntityType:  entities.EntityStage,
		EntityID:    updated.ID,
		EntityRef:   updated.Name,
		Description: fmt.Sprintf("Updated stage: %s", updated.Name),
	})
	return out, nil
}

// DeleteStage отказывает, пока на стадии есть хоть одна заявка.
func (s *StageService) DeleteStage(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error) {
	var out Outcome[struct{}]
	if err := authz.Require(principal, authz.ManageSettings); err != nil {
		return out, err
	}

	var name string
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		stage, err := s.stageRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		name = stage.Name

		inUse, err := s.requestRepo.CountByStage(ctx, tx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return fmt.Errorf("%w: на стадии %q есть заявки (%d)", apperrors.ErrConflict, stage.Name, inUse)
		}
		return s.stageRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return out, err
	}

	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionDelete,
		EntityType:  entities.EntityStage,
		EntityID:    id,
		EntityRef:   name,
		Description: fmt.Sprintf("Deleted stage: %s", name),
	})
	return out, nil
}
