package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// applyStageTransition - единые правила входа в стадию для CreateRequest, MoveStage и UpdateRequest.
// Право проверяется до любых изменений.
func (s *RequestService) applyStageTransition(
	ctx context.Context,
	tx pgx.Tx,
	principal *authz.Principal,
	req *entities.MaintenanceRequest,
	target *entities.Stage,
) error {
	if target.IsTerminal() {
		if err := authz.Require(principal, authz.CompleteRequests); err != nil {
			return err
		}
	}

	req.StageID = target.ID
	s.fillCompletedDate(req, target)

	// Стадия списания меняет только статус оборудования.
	// is_scrapped, scrap_date и scrap_reason выставляет лишь ScrapEquipment.
	if target.IsScrap && req.EquipmentID != 0 {
		if err := s.equipmentRepo.SetStatus(ctx, tx, req.EquipmentID, entities.EquipmentScrapped); err != nil {
			return fmt.Errorf("списание оборудования %d: %w", req.EquipmentID, err)
		}
	}
	return nil
}

// fillCompletedDate: на завершающей стадии дата завершения всегда задана.
func (s *RequestService) fillCompletedDate(req *entities.MaintenanceRequest, stage *entities.Stage) {
	if stage.IsDone && req.CompletedDate == nil {
		now := s.clock.Now()
		req.CompletedDate = &now
	}
}

// applyCompletedDatePatch - ручная правка даты завершения. Допустима только на
// завершающей стадии и только с правом завершения; значение, равное текущему, не проверяется.
func applyCompletedDatePatch(principal *authz.Principal, req *entities.MaintenanceRequest, stage *entities.Stage, patch dto.UpdateRequestDTO) error {
	if !patch.Has("completed_date") {
		return nil
	}
	value := utils.NullTimePtr(patch.CompletedDate)
	if sameInstant(req.CompletedDate, value) {
		return nil
	}
	if !stage.IsDone {
		return apperrors.NewValidationError("completed_date", "дату завершения можно задать только на завершающей стадии")
	}
	if err := authz.Require(principal, authz.CompleteRequests); err != nil {
		return err
	}
	req.CompletedDate = value
	return nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// checkImmutable: id и reference можно прислать, но только с текущим значением.
func checkImmutable(req *entities.MaintenanceRequest, patch dto.UpdateRequestDTO) error {
	if patch.Has("id") && (!patch.ID.Valid || patch.ID.Uint64 != req.ID) {
		return apperrors.NewValidationError("id", "идентификатор заявки нельзя изменить")
	}
	if patch.Has("reference") && (!patch.Reference.Valid || patch.Reference.String != req.Reference) {
		return apperrors.NewValidationError("reference", "номер заявки нельзя изменить")
	}
	return nil
}

func (s *RequestService) applyPatch(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest, patch dto.UpdateRequestDTO) error {
	if patch.Has("name") {
		if !patch.Name.Valid || strings.TrimSpace(patch.Name.String) == "" {
			return apperrors.NewValidationError("name", "название заявки обязательно")
		}
		req.Name = strings.TrimSpace(patch.Name.String)
	}
	if patch.Has("description") {
		req.Description = utils.NullStringPtr(patch.Description)
	}
	if patch.Has("equipment_id") {
		if !patch.EquipmentID.Valid || patch.EquipmentID.Uint64 == 0 {
			return apperrors.NewValidationError("equipment_id", "оборудование обязательно")
		}
		if patch.EquipmentID.Uint64 != req.EquipmentID {
			if _, err := s.equipmentRepo.FindByID(ctx, tx, patch.EquipmentID.Uint64); err != nil {
				return fmt.Errorf("оборудование %d: %w", patch.EquipmentID.Uint64, err)
			}
			req.EquipmentID = patch.EquipmentID.Uint64
		}
	}
	if patch.Has("team_id") {
		if patch.TeamID.Valid {
			if _, err := s.teamRepo.FindByID(ctx, tx, patch.TeamID.Uint64); err != nil {
				return fmt.Errorf("команда %d: %w", patch.TeamID.Uint64, err)
			}
		}
		req.TeamID = utils.NullUint64Ptr(patch.TeamID)
	}
	if patch.Has("technician_id") {
		req.TechnicianID = utils.NullUint64Ptr(patch.TechnicianID)
	}
	if patch.Has("stage_id") {
		if !patch.StageID.Valid || patch.StageID.Uint64 == 0 {
			return apperrors.NewValidationError("stage_id", "стадия обязательна")
		}
		req.StageID = patch.StageID.Uint64
	}
	if patch.Has("request_type") {
		if !patch.RequestType.Valid {
			return apperrors.NewValidationError("request_type", "тип заявки обязателен")
		}
		req.RequestType = patch.RequestType.String
	}
	if patch.Has("priority") {
		if !patch.Priority.Valid {
			return apperrors.NewValidationError("priority", "приоритет обязателен")
		}
		req.Priority = patch.Priority.String
	}
	if patch.Has("requester_name") {
		req.RequesterName = utils.NullStringPtr(patch.RequesterName)
	}
	if patch.Has("requester_email") {
		if !patch.RequesterEmail.Valid || strings.TrimSpace(patch.RequesterEmail.String) == "" {
			return apperrors.NewValidationError("requester_email", "email заявителя обязателен")
		}
		req.RequesterEmail = strings.TrimSpace(patch.RequesterEmail.String)
	}
	if patch.Has("scheduled_date") {
		req.ScheduledDate = utils.NullTimePtr(patch.ScheduledDate)
	}
	if patch.Has("deadline") {
		req.Deadline = utils.NullTimePtr(patch.Deadline)
	}
	if patch.Has("hours_spent") {
		req.HoursSpent = utils.NullFloat64Ptr(patch.HoursSpent)
	}
	if patch.Has("maintenance_cost") {
		req.MaintenanceCost = utils.NullFloat64Ptr(patch.MaintenanceCost)
	}
	if patch.Has("resolution") {
		req.Resolution = utils.NullStringPtr(patch.Resolution)
	}
	return nil
}

func validateRequest(req *entities.MaintenanceRequest) error {
	if !entities.IsValidRequestType(req.RequestType) {
		return apperrors.NewValidationError("request_type", "неизвестный тип заявки %q", req.RequestType)
	}
	if !entities.IsValidPriority(req.Priority) {
		return apperrors.NewValidationError("priority", "неизвестный приоритет %q", req.Priority)
	}
	if req.RequestType == entities.RequestTypePreventive && req.ScheduledDate == nil {
		return apperrors.NewValidationError("scheduled_date", "плановая заявка требует дату проведения")
	}
	if req.HoursSpent != nil && *req.HoursSpent < 0 {
		return apperrors.NewValidationError("hours_spent", "затраченное время не может быть отрицательным")
	}
	return nil
}

func (s *RequestService) toDTO(req *entities.MaintenanceRequest, stage *entities.Stage) *dto.RequestResponseDTO {
	out := requestToDTO(req, stage, s.clock.Now())
	return &out
}

// requestToDTO считает производные поля на момент now; в БД они не хранятся.
func requestToDTO(req *entities.MaintenanceRequest, stage *entities.Stage, now time.Time) dto.RequestResponseDTO {
	out := dto.RequestResponseDTO{
		ID:              req.ID,
		Reference:       req.Reference,
		ReferenceNumber: req.ReferenceNumber(),
		Name:            req.Name,
		Description:     req.Description,
		EquipmentID:     req.EquipmentID,
		TeamID:          req.TeamID,
		TechnicianID:    req.TechnicianID,
		StageID:         req.StageID,
		RequestType:     req.RequestType,
		Priority:        req.Priority,
		PriorityRank:    req.PriorityRank(),
		RequesterName:   req.RequesterName,
		RequesterEmail:  req.RequesterEmail,
		ScheduledDate:   utils.FormatTimePtr(req.ScheduledDate),
		Deadline:        utils.FormatTimePtr(req.Deadline),
		CompletedDate:   utils.FormatTimePtr(req.CompletedDate),
		HoursSpent:      req.HoursSpent,
		MaintenanceCost: req.MaintenanceCost,
		Resolution:      req.Resolution,
		IsOverdue:       req.IsOverdue(stage, now),
		CreatedAt:       *utils.FormatTimePtr(&req.CreatedAt),
		UpdatedAt:       *utils.FormatTimePtr(&req.UpdatedAt),
	}
	if stage != nil {
		out.StageName = stage.Name
	}
	return out
}

// toDTOList подтягивает стадии одним запросом: их немного.
func (s *RequestService) toDTOList(ctx context.Context, items []entities.MaintenanceRequest) ([]dto.RequestResponseDTO, error) {
	stages, err := s.stageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*entities.Stage, len(stages))
	for i := range stages {
		byID[stages[i].ID] = &stages[i]
	}

	list := make([]dto.RequestResponseDTO, 0, len(items))
	for i := range items {
		list = append(list, *s.toDTO(&items[i], byID[items[i].StageID]))
	}
	return list, nil
}

func (s *RequestService) publish(ctx context.Context, principal *authz.Principal, action string, req *entities.MaintenanceRequest, equipmentIDs ...uint64) {
	if s.bus == nil {
		return
	}
	event := events.RequestChangedEvent{
		Action:       action,
		RequestID:    req.ID,
		Reference:    req.Reference,
		EquipmentIDs: equipmentIDs,
	}
	if principal != nil {
		event.ActorID = principal.UserID
	}
	s.bus.Publish(ctx, event)
	s.logger.Debug("Событие опубликовано", zap.String("event", event.Name()), zap.String("reference", req.Reference))
}

func uniqueIDs(ids ...uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
