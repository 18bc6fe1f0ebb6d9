package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/clock"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, principal *authz.Principal, in dto.CreateRequestDTO) (Outcome[*dto.RequestResponseDTO], error)
	UpdateRequest(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateRequestDTO) (Outcome[*dto.RequestResponseDTO], error)
	MoveStage(ctx context.Context, principal *authz.Principal, id, stageID uint64) (Outcome[*dto.RequestResponseDTO], error)
	AssignTeam(ctx context.Context, principal *authz.Principal, id uint64, teamID *uint64) (Outcome[*dto.RequestResponseDTO], error)
	DeleteRequest(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestResponseDTO, error)
	ListRequests(ctx context.Context, filter types.Filter) ([]dto.RequestResponseDTO, uint64, error)
	ExportRequests(ctx context.Context, filter types.Filter) ([]byte, error)
	CalendarEvents(ctx context.Context, from, to *time.Time) ([]dto.CalendarEventDTO, error)
}

type RequestService struct {
	txManager     repositories.TxManagerInterface
	requestRepo   repositories.RequestRepositoryInterface
	stageRepo     repositories.StageRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	sequenceRepo  repositories.SequenceRepositoryInterface
	audit         ActivityLogServiceInterface
	bus           *eventbus.Bus
	clock         clock.Clock
	logger        *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	stageRepo repositories.StageRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	sequenceRepo repositories.SequenceRepositoryInterface,
	audit ActivityLogServiceInterface,
	bus *eventbus.Bus,
	clk clock.Clock,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:     txManager,
		requestRepo:   requestRepo,
		stageRepo:     stageRepo,
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		sequenceRepo:  sequenceRepo,
		audit:         audit,
		bus:           bus,
		clock:         clk,
		logger:        logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, principal *authz.Principal, in dto.CreateRequestDTO) (Outcome[*dto.RequestResponseDTO], error) {
	var out Outcome[*dto.RequestResponseDTO]

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, apperrors.NewValidationError("name", "название заявки обязательно")
	}
	if in.EquipmentID == 0 {
		return out, apperrors.NewValidationError("equipment_id", "оборудование обязательно")
	}

	req := &entities.MaintenanceRequest{
		Name:            name,
		Description:     in.Description,
		EquipmentID:     in.EquipmentID,
		TeamID:          in.TeamID,
		TechnicianID:    in.TechnicianID,
		RequestType:     in.RequestType,
		Priority:        in.Priority,
		RequesterName:   in.RequesterName,
		ScheduledDate:   in.ScheduledDate,
		Deadline:        in.Deadline,
		HoursSpent:      in.HoursSpent,
		MaintenanceCost: in.MaintenanceCost,
		Resolution:      in.Resolution,
	}
	if req.RequestType == "" {
		req.RequestType = entities.RequestTypeCorrective
	}
	if req.Priority == "" {
		req.Priority = entities.PriorityNormal
	}
	if in.RequesterEmail != nil {
		req.RequesterEmail = strings.TrimSpace(*in.RequesterEmail)
	}
	if principal != nil {
		if req.RequesterEmail == "" {
			req.RequesterEmail = principal.Email
		}
		if req.RequesterName == nil && principal.FullName != "" {
			req.RequesterName = utils.ToPtr(principal.FullName)
		}
	}
	if req.RequesterEmail == "" {
		return out, apperrors.NewValidationError("requester_email", "email заявителя обязателен")
	}
	if err := validateRequest(req); err != nil {
		return out, err
	}

	var (
		created *entities.MaintenanceRequest
		stage   *entities.Stage
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.FindByID(ctx, tx, req.EquipmentID)
		if err != nil {
			return fmt.Errorf("оборудование %d: %w", req.EquipmentID, err)
		}
		if req.TeamID == nil {
			req.TeamID = equipment.DefaultTeamID
		}
		if req.TechnicianID == nil {
			req.TechnicianID = equipment.DefaultTechnicianID
		}

		if in.StageID != nil {
			stage, err = s.stageRepo.FindByID(ctx, tx, *in.StageID)
			if err != nil {
				return fmt.Errorf("стадия %d: %w", *in.StageID, err)
			}
		} else {
			stage, err = s.stageRepo.FindFirst(ctx, tx)
			if err != nil {
				return fmt.Errorf("стадия по умолчанию: %w", err)
			}
		}
		// Создание сразу в завершающей стадии проходит те же правила, что и перемещение.
		if err := s.applyStageTransition(ctx, tx, principal, req, stage); err != nil {
			return err
		}

		next, err := s.sequenceRepo.Next(ctx, tx, repositories.SequenceRequestReference)
		if err != nil {
			return fmt.Errorf("генерация номера заявки: %w", err)
		}
		req.Reference = entities.FormatReference(next)

		created, err = s.requestRepo.Create(ctx, tx, req)
		return err
	})
	if err != nil {
		return out, err
	}

	s.logger.Info("Заявка создана", zap.String("reference", created.Reference), zap.Uint64("id", created.ID))
	out.Data = s.toDTO(created, stage)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityRequest,
		EntityID:    created.ID,
		EntityRef:   created.Reference,
		Description: fmt.Sprintf("Created request: %s", created.Reference),
	})
	s.publish(ctx, principal, entities.ActionCreate, created, created.EquipmentID)
	return out, nil
}

func (s *RequestService) UpdateRequest(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateRequestDTO) (Outcome[*dto.RequestResponseDTO], error) {
	var out Outcome[*dto.RequestResponseDTO]

	var (
		updated          *entities.MaintenanceRequest
		stage            *entities.Stage
		touchedEquipment []uint64
		stageChanged     bool
		oldStageName     = "None"
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("заявка %d: %w", id, err)
		}
		if !authz.CanEditRequest(principal, req.RequesterEmail) {
			return fmt.Errorf("%w: изменять заявку может менеджер или сам заявитель", apperrors.ErrPermissionDenied)
		}
		if err := checkImmutable(req, patch); err != nil {
			return err
		}

		oldStageID := req.StageID
		oldEquipmentID := req.EquipmentID
		if err := s.applyPatch(ctx, tx, req, patch); err != nil {
			return err
		}
		if err := validateRequest(req); err != nil {
			return err
		}

		stage, err = s.stageRepo.FindByID(ctx, tx, req.StageID)
		if err != nil {
			return fmt.Errorf("стадия %d: %w", req.StageID, err)
		}
		if err := applyCompletedDatePatch(principal, req, stage, patch); err != nil {
			return err
		}
		stageChanged = req.StageID != oldStageID
		if stageChanged {
			if old, err := s.stageRepo.FindByID(ctx, tx, oldStageID); err == nil {
				oldStageName = old.Name
			} else if !apperrors.IsNotFound(err) {
				return err
			}
			if err := s.applyStageTransition(ctx, tx, principal, req, stage); err != nil {
				return err
			}
		} else {
			s.fillCompletedDate(req, stage)
		}

		touchedEquipment = uniqueIDs(oldEquipmentID, req.EquipmentID)
		updated, err = s.requestRepo.Update(ctx, tx, req)
		return err
	})
	if err != nil {
		return out, err
	}

	description := fmt.Sprintf("Updated request: %s", updated.Reference)
	if stageChanged {
		description = fmt.Sprintf("%s; Moved %s from %s to %s", description, updated.Reference, oldStageName, stage.Name)
	}

	out.Data = s.toDTO(updated, stage)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionUpdate,
		EntityType:  entities.EntityRequest,
		EntityID:    updated.ID,
		EntityRef:   updated.Reference,
		Description: description,
	})
	s.publish(ctx, principal, entities.ActionUpdate, updated, touchedEquipment...)
	return out, nil
}

func (s *RequestService) MoveStage(ctx context.Context, principal *authz.Principal, id, stageID uint64) (Outcome[*dto.RequestResponseDTO], error) {
	var out Outcome[*dto.RequestResponseDTO]

	var (
		updated      *entities.MaintenanceRequest
		target       *entities.Stage
		oldStageName = "None"
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("заявка %d: %w", id, err)
		}
		target, err = s.stageRepo.FindByID(ctx, tx, stageID)
		if err != nil {
			return fmt.Errorf("стадия %d: %w", stageID, err)
		}

		if old, err := s.stageRepo.FindByID(ctx, tx, req.StageID); err == nil {
			oldStageName = old.Name
		} else if !apperrors.IsNotFound(err) {
			return err
		}

		if err := s.applyStageTransition(ctx, tx, principal, req, target); err != nil {
			return err
		}
		updated, err = s.requestRepo.Update(ctx, tx, req)
		return err
	})
	if err != nil {
		return out, err
	}

	s.logger.Info("Заявка перемещена",
		zap.String("reference", updated.Reference),
		zap.String("from", oldStageName),
		zap.String("to", target.Name),
	)
	out.Data = s.toDTO(updated, target)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionMove,
		EntityType:  entities.EntityRequest,
		EntityID:    updated.ID,
		EntityRef:   updated.Reference,
		Description: fmt.Sprintf("Moved %s from %s to %s", updated.Reference, oldStageName, target.Name),
	})
	s.publish(ctx, principal, entities.ActionMove, updated, updated.EquipmentID)
	return out, nil
}

func (s *RequestService) AssignTeam(ctx context.Context, principal *authz.Principal, id uint64, teamID *uint64) (Outcome[*dto.RequestResponseDTO], error) {
	var out Outcome[*dto.RequestResponseDTO]
	if err := authz.Require(principal, authz.AssignRequests); err != nil {
		return out, err
	}

	var (
		updated  *entities.MaintenanceRequest
		stage    *entities.Stage
		teamName = "Unassigned"
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("заявка %d: %w", id, err)
		}
		if teamID != nil {
			team, err := s.teamRepo.FindByID(ctx, tx, *teamID)
			if err != nil {
				return fmt.Errorf("команда %d: %w", *teamID, err)
			}
			teamName = team.Name
		}
		req.TeamID = teamID

		updated, err = s.requestRepo.Update(ctx, tx, req)
		if err != nil {
			return err
		}
		stage, err = s.stageRepo.FindByID(ctx, tx, updated.StageID)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = s.toDTO(updated, stage)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionAssign,
		EntityType:  entities.EntityRequest,
		EntityID:    updated.ID,
		EntityRef:   updated.Reference,
		Description: fmt.Sprintf("Assigned %s to %s", updated.Reference, teamName),
	})
	s.publish(ctx, principal, entities.ActionAssign, updated)
	return out, nil
}

// DeleteRequest - жёсткое удаление. Номер берётся до удаления, журнал хранит его как текст.
func (s *RequestService) DeleteRequest(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error) {
	var out Outcome[struct{}]
	if err := authz.Require(principal, authz.ManageRequests); err != nil {
		return out, err
	}

	var deleted *entities.MaintenanceRequest
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("заявка %d: %w", id, err)
		}
		deleted = req
		return s.requestRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return out, err
	}

	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionDelete,
		EntityType:  entities.EntityRequest,
		EntityID:    id,
		EntityRef:   deleted.Reference,
		Description: fmt.Sprintf("Deleted request: %s", deleted.Reference),
	})
	s.publish(ctx, principal, entities.ActionDelete, deleted, deleted.EquipmentID)
	return out, nil
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestResponseDTO, error) {
	req, err := s.requestRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("заявка %d: %w", id, err)
	}
	stage, err := s.stageRepo.FindByID(ctx, nil, req.StageID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	return s.toDTO(req, stage), nil
}

func (s *RequestService) ListRequests(ctx context.Context, filter types.Filter) ([]dto.RequestResponseDTO, uint64, error) {
	items, total, err := s.requestRepo.List(ctx, filter, s.clock.Now())
	if err != nil {
		return nil, 0, err
	}
	list, err := s.toDTOList(ctx, items)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
