package services

import (
	"context"
	"fmt"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/contextkeys"
	"maintenance-system/pkg/types"

	"go.uber.org/zap"
)

type AuditEntry struct {
	Action      string
	EntityType  string
	EntityID    uint64
	EntityRef   string
	Description string
}

type ActivityLogServiceInterface interface {
	Record(ctx context.Context, principal *authz.Principal, entry AuditEntry) error
	ListActivity(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]entities.ActivityLog, uint64, error)
}

type ActivityLogService struct {
	repo   repositories.ActivityLogRepositoryInterface
	logger *zap.Logger
}

func NewActivityLogService(repo repositories.ActivityLogRepositoryInterface, logger *zap.Logger) ActivityLogServiceInterface {
	return &ActivityLogService{repo: repo, logger: logger}
}

// Record вызывается после коммита. Ошибка не откатывает мутацию, а только логируется
// и возвращается вызывающему как признак деградации.
func (s *ActivityLogService) Record(ctx context.Context, principal *authz.Principal, entry AuditEntry) error {
	record := &entities.ActivityLog{
		UserID:      principal.UserIDPtr(),
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		EntityRef:   entry.EntityRef,
		Description: entry.Description,
	}
	if requestID, ok := ctx.Value(contextkeys.RequestIDKey).(string); ok && requestID != "" {
		record.RequestID = &requestID
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("ActivityLogService: не удалось записать журнал аудита",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Uint64("entity_id", entry.EntityID),
			zap.Error(err),
		)
		return fmt.Errorf("запись журнала аудита: %w", err)
	}
	return nil
}

func (s *ActivityLogService) ListActivity(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]entities.ActivityLog, uint64, error) {
	if err := authz.Require(principal, authz.ViewReports); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}
