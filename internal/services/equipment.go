package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/clock"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	ListEquipment(ctx context.Context, filter types.Filter) ([]dto.EquipmentResponseDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentResponseDTO, error)
	CreateEquipment(ctx context.Context, principal *authz.Principal, in dto.CreateEquipmentDTO) (Outcome[*dto.EquipmentResponseDTO], error)
	UpdateEquipment(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateEquipmentDTO) (Outcome[*dto.EquipmentResponseDTO], error)
	DeleteEquipment(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error)
	ScrapEquipment(ctx context.Context, principal *authz.Principal, id uint64, reason *string) (Outcome[*dto.EquipmentResponseDTO], error)
	Autofill(ctx context.Context, id uint64) (*dto.AutofillDTO, error)
	CountOpenRequests(ctx context.Context, equipmentID uint64) (uint64, error)
	InvalidateOpenRequests(ctx context.Context, equipmentIDs ...uint64) error
	EquipmentRequests(ctx context.Context, id uint64) (*dto.EquipmentRequestsDTO, error)
}

type EquipmentService struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	categoryRepo  repositories.CategoryRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	stageRepo     repositories.StageRepositoryInterface
	sequenceRepo  repositories.SequenceRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	audit         ActivityLogServiceInterface
	clock         clock.Clock
	logger        *zap.Logger
	cacheTTL      time.Duration
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	stageRepo repositories.StageRepositoryInterface,
	sequenceRepo repositories.SequenceRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	audit ActivityLogServiceInterface,
	clk clock.Clock,
	logger *zap.Logger,
	cacheTTL time.Duration,
) EquipmentServiceInterface {
	return &EquipmentService{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		categoryRepo:  categoryRepo,
		requestRepo:   requestRepo,
		stageRepo:     stageRepo,
		sequenceRepo:  sequenceRepo,
		cacheRepo:     cacheRepo,
		audit:         audit,
		clock:         clk,
		logger:        logger,
		cacheTTL:      cacheTTL,
	}
}

func openRequestsCacheKey(equipmentID uint64) string {
	return fmt.Sprintf("equipment:open_requests:%d", equipmentID)
}

func (s *EquipmentService) ListEquipment(ctx context.Context, filter types.Filter) ([]dto.EquipmentResponseDTO, uint64, error) {
	items, total, err := s.equipmentRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.EquipmentResponseDTO, 0, len(items))
	for i := range items {
		list = append(list, *s.toDTO(&items[i]))
	}
	return list, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentResponseDTO, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("оборудование %d: %w", id, err)
	}
	return s.toDTO(eq), nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, principal *authz.Principal, in dto.CreateEquipmentDTO) (Outcome[*dto.EquipmentResponseDTO], error) {
	var out Outcome[*dto.EquipmentResponseDTO]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return out, apperrors.NewValidationError("name", "название оборудования обязательно")
	}

	eq := &entities.Equipment{
		Name:                name,
		CategoryID:          in.CategoryID,
		SerialNumber:        in.SerialNumber,
		Model:               in.Model,
		Manufacturer:        in.Manufacturer,
		Location:            in.Location,
		Department:          in.Department,
		OwnerName:           in.OwnerName,
		OwnerEmail:          in.OwnerEmail,
		Status:              in.Status,
		DefaultTeamID:       in.DefaultTeamID,
		DefaultTechnicianID: in.DefaultTechnicianID,
		PurchaseDate:        in.PurchaseDate,
		WarrantyExpiry:      in.WarrantyExpiry,
		Notes:               in.Notes,
	}
	if eq.Status == "" {
		eq.Status = entities.EquipmentOperational
	}

	var created *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.checkCategory(ctx, tx, eq.CategoryID); err != nil {
			return err
		}
		next, err := s.sequenceRepo.Next(ctx, tx, repositories.SequenceEquipmentCode)
		if err != nil {
			return fmt.Errorf("генерация кода оборудования: %w", err)
		}
		eq.Code = entities.FormatEquipmentCode(next)
		created, err = s.equipmentRepo.Create(ctx, tx, eq)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = s.toDTO(created)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionCreate,
		EntityType:  entities.EntityEquipment,
		EntityID:    created.ID,
		EntityRef:   created.Code,
		Description: fmt.Sprintf("Created equipment: %s", created.Name),
	})
	return out, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, principal *authz.Principal, id uint64, patch dto.UpdateEquipmentDTO) (Outcome[*dto.EquipmentResponseDTO], error) {
	var out Outcome[*dto.EquipmentResponseDTO]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}

	var updated *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("оборудование %d: %w", id, err)
		}

		if patch.Has("name") {
			if !patch.Name.Valid || strings.TrimSpace(patch.Name.String) == "" {
				return apperrors.NewValidationError("name", "название оборудования обязательно")
			}
			eq.Name = strings.TrimSpace(patch.Name.String)
		}
		if patch.Has("status") {
			if !patch.Status.Valid {
				return apperrors.NewValidationError("status", "статус обязателен")
			}
			eq.Status = patch.Status.String
		}
		if patch.Has("category_id") {
			eq.CategoryID = utils.NullUint64Ptr(patch.CategoryID)
			if err := s.checkCategory(ctx, tx, eq.CategoryID); err != nil {
				return err
			}
		}
		if patch.Has("serial_number") {
			eq.SerialNumber = utils.NullStringPtr(patch.SerialNumber)
		}
		if patch.Has("model") {
			eq.Model = utils.NullStringPtr(patch.Model)
		}
		if patch.Has("manufacturer") {
			eq.Manufacturer = utils.NullStringPtr(patch.Manufacturer)
		}
		if patch.Has("location") {
			eq.Location = utils.NullStringPtr(patch.Location)
		}
		if patch.Has("department") {
			eq.Department = utils.NullStringPtr(patch.Department)
		}
		if patch.Has("owner_name") {
			eq.OwnerName = utils.NullStringPtr(patch.OwnerName)
		}
		if patch.Has("owner_email") {
			eq.OwnerEmail = utils.NullStringPtr(patch.OwnerEmail)
		}
		if patch.Has("notes") {
			eq.Notes = utils.NullStringPtr(patch.Notes)
		}
		if patch.Has("default_team_id") {
			eq.DefaultTeamID = utils.NullUint64Ptr(patch.DefaultTeamID)
		}
		if patch.Has("default_technician_id") {
			eq.DefaultTechnicianID = utils.NullUint64Ptr(patch.DefaultTechnicianID)
		}
		if patch.Has("purchase_date") {
			eq.PurchaseDate = utils.NullTimePtr(patch.PurchaseDate)
		}
		if patch.Has("warranty_expiry") {
			eq.WarrantyExpiry = utils.NullTimePtr(patch.WarrantyExpiry)
		}

		updated, err = s.equipmentRepo.Update(ctx, tx, eq)
		return err
	})
	if err != nil {
		return out, err
	}

	out.Data = s.toDTO(updated)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionUpdate,
		EntityType:  entities.EntityEquipment,
		EntityID:    updated.ID,
		EntityRef:   updated.Code,
		Description: fmt.Sprintf("Updated equipment: %s", updated.Name),
	})
	return out, nil
}

// DeleteEquipment: оборудование с заявками удалить нельзя (FK RESTRICT -> конфликт).
func (s *EquipmentService) DeleteEquipment(ctx context.Context, principal *authz.Principal, id uint64) (Outcome[struct{}], error) {
	var out Outcome[struct{}]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}

	var eq *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		eq, err = s.equipmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("оборудование %d: %w", id, err)
		}
		return s.equipmentRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return out, err
	}

	_ = s.InvalidateOpenRequests(ctx, id)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionDelete,
		EntityType:  entities.EntityEquipment,
		EntityID:    id,
		EntityRef:   eq.Code,
		Description: fmt.Sprintf("Deleted equipment: %s", eq.Name),
	})
	return out, nil
}

// ScrapEquipment - явное списание: все четыре поля сразу.
func (s *EquipmentService) ScrapEquipment(ctx context.Context, principal *authz.Principal, id uint64, reason *string) (Outcome[*dto.EquipmentResponseDTO], error) {
	var out Outcome[*dto.EquipmentResponseDTO]
	if err := authz.Require(principal, authz.ManageEquipment); err != nil {
		return out, err
	}

	scrapReason := entities.DefaultScrapReason
	if reason != nil && strings.TrimSpace(*reason) != "" {
		scrapReason = strings.TrimSpace(*reason)
	}

	var updated *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		eq, err := s.equipmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("оборудование %d: %w", id, err)
		}
		now := s.clock.Now()
		eq.Status = entities.EquipmentScrapped
		eq.IsScrapped = true
		eq.ScrapDate = &now
		eq.ScrapReason = &scrapReason

		updated, err = s.equipmentRepo.Update(ctx, tx, eq)
		return err
	})
	if err != nil {
		return out, err
	}

	s.logger.Info("Оборудование списано", zap.String("code", updated.Code), zap.String("reason", scrapReason))
	out.Data = s.toDTO(updated)
	out.AuditErr = s.audit.Record(ctx, principal, AuditEntry{
		Action:      entities.ActionScrap,
		EntityType:  entities.EntityEquipment,
		EntityID:    updated.ID,
		EntityRef:   updated.Code,
		Description: fmt.Sprintf("Scrapped equipment: %s", updated.Name),
	})
	return out, nil
}

func (s *EquipmentService) Autofill(ctx context.Context, id uint64) (*dto.AutofillDTO, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("оборудование %d: %w", id, err)
	}
	return &dto.AutofillDTO{
		EquipmentID:  eq.ID,
		TeamID:       eq.DefaultTeamID,
		TechnicianID: eq.DefaultTechnicianID,
		Location:     eq.Location,
		Department:   eq.Department,
		CategoryID:   eq.CategoryID,
		CategoryName: eq.CategoryName,
	}, nil
}

// checkCategory: ссылка на несуществующую категорию - ошибка ввода, а не 404 оборудования.
func (s *EquipmentService) checkCategory(ctx context.Context, tx pgx.Tx, categoryID *uint64) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, tx, *categoryID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("category_id", "категория %d не найдена", *categoryID)
		}
		return err
	}
	return nil
}

// CountOpenRequests - счётчик из Redis, при промахе - запрос к БД.
// Ошибки кеша не мешают ответу.
func (s *EquipmentService) CountOpenRequests(ctx context.Context, equipmentID uint64) (uint64, error) {
	key := openRequestsCacheKey(equipmentID)
	if cached, err := s.cacheRepo.Get(ctx, key); err == nil {
		if n, parseErr := strconv.ParseUint(cached, 10, 64); parseErr == nil {
			return n, nil
		}
		s.logger.Warn("EquipmentService: повреждённое значение в кеше", zap.String("key", key))
	}

	count, err := s.requestRepo.CountOpenByEquipment(ctx, equipmentID)
	if err != nil {
		return 0, err
	}
	if err := s.cacheRepo.Set(ctx, key, strconv.FormatUint(count, 10), s.cacheTTL); err != nil {
		s.logger.Warn("EquipmentService: не удалось закешировать счётчик", zap.String("key", key), zap.Error(err))
	}
	return count, nil
}

func (s *EquipmentService) InvalidateOpenRequests(ctx context.Context, equipmentIDs ...uint64) error {
	if len(equipmentIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(equipmentIDs))
	for _, id := range equipmentIDs {
		keys = append(keys, openRequestsCacheKey(id))
	}
	if err := s.cacheRepo.Del(ctx, keys...); err != nil {
		s.logger.Error("EquipmentService: ошибка инвалидации кеша", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}

// EquipmentRequests - заявки оборудования, новые первыми, с общим и открытым счётчиком.
func (s *EquipmentService) EquipmentRequests(ctx context.Context, id uint64) (*dto.EquipmentRequestsDTO, error) {
	eq, err := s.equipmentRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("оборудование %d: %w", id, err)
	}
	items, err := s.requestRepo.ListByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	open, err := s.CountOpenRequests(ctx, id)
	if err != nil {
		return nil, err
	}
	stages, err := s.stageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*entities.Stage, len(stages))
	for i := range stages {
		byID[stages[i].ID] = &stages[i]
	}

	now := s.clock.Now()
	requests := make([]dto.RequestResponseDTO, 0, len(items))
	for i := range items {
		requests = append(requests, requestToDTO(&items[i], byID[items[i].StageID], now))
	}
	return &dto.EquipmentRequestsDTO{
		Equipment:  *s.toDTO(eq),
		Requests:   requests,
		TotalCount: uint64(len(items)),
		OpenCount:  open,
	}, nil
}

func (s *EquipmentService) toDTO(e *entities.Equipment) *dto.EquipmentResponseDTO {
	return &dto.EquipmentResponseDTO{
		ID:                  e.ID,
		Code:                e.Code,
		Name:                e.Name,
		CategoryID:          e.CategoryID,
		CategoryName:        e.CategoryName,
		SerialNumber:        e.SerialNumber,
		Model:               e.Model,
		Manufacturer:        e.Manufacturer,
		Location:            e.Location,
		Department:          e.Department,
		OwnerName:           e.OwnerName,
		OwnerEmail:          e.OwnerEmail,
		Status:              e.Status,
		DefaultTeamID:       e.DefaultTeamID,
		DefaultTechnicianID: e.DefaultTechnicianID,
		PurchaseDate:        utils.FormatDatePtr(e.PurchaseDate),
		WarrantyExpiry:      utils.FormatDatePtr(e.WarrantyExpiry),
		IsWarrantyValid:     e.IsWarrantyValid(s.clock.Now()),
		IsScrapped:          e.IsScrapped,
		ScrapDate:           utils.FormatTimePtr(e.ScrapDate),
		ScrapReason:         e.ScrapReason,
		Notes:               e.Notes,
		CreatedAt:           *utils.FormatTimePtr(&e.CreatedAt),
		UpdatedAt:           *utils.FormatTimePtr(&e.UpdatedAt),
	}
}
