package listeners

import (
	"context"

	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"

	"go.uber.org/zap"
)

// OpenRequestsInvalidator сбрасывает закешированные счётчики открытых заявок.
type OpenRequestsInvalidator interface {
	InvalidateOpenRequests(ctx context.Context, equipmentIDs ...uint64) error
}

type CacheListener struct {
	invalidator OpenRequestsInvalidator
	logger      *zap.Logger
}

func NewCacheListener(invalidator OpenRequestsInvalidator, logger *zap.Logger) *CacheListener {
	return &CacheListener{invalidator: invalidator, logger: logger}
}

func (l *CacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestChangedEventName, l.handleRequestChanged)
	l.logger.Info("CacheListener подписан на событие", zap.String("event", events.RequestChangedEventName))
}

func (l *CacheListener) handleRequestChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestChangedEvent)
	if !ok || len(e.EquipmentIDs) == 0 {
		return nil
	}
	l.logger.Debug("Сброс счётчиков открытых заявок",
		zap.String("action", e.Action),
		zap.String("reference", e.Reference),
		zap.Uint64s("equipment", e.EquipmentIDs),
	)
	return l.invalidator.InvalidateOpenRequests(ctx, e.EquipmentIDs...)
}
