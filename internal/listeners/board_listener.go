package listeners

import (
	"context"

	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"

	"go.uber.org/zap"
)

const BoardMessageRequestChanged = "request_changed"

// BoardBroadcaster рассылает сообщение всем открытым канбан-доскам.
type BoardBroadcaster interface {
	Broadcast(messageType string, payload interface{}) error
}

// RequestChangedPayload - то, что получает доска: по нему клиент перечитывает карточку.
type RequestChangedPayload struct {
	Action       string   `json:"action"`
	RequestID    uint64   `json:"request_id"`
	Reference    string   `json:"reference"`
	EquipmentIDs []uint64 `json:"equipment_ids"`
	ActorID      uint64   `json:"actor_id"`
}

type BoardListener struct {
	broadcaster BoardBroadcaster
	logger      *zap.Logger
}

func NewBoardListener(broadcaster BoardBroadcaster, logger *zap.Logger) *BoardListener {
	return &BoardListener{broadcaster: broadcaster, logger: logger}
}

func (l *BoardListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestChangedEventName, l.handleRequestChanged)
	l.logger.Info("BoardListener подписан на событие", zap.String("event", events.RequestChangedEventName))
}

func (l *BoardListener) handleRequestChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestChangedEvent)
	if !ok {
		return nil
	}
	equipmentIDs := e.EquipmentIDs
	if equipmentIDs == nil {
		equipmentIDs = []uint64{}
	}
	return l.broadcaster.Broadcast(BoardMessageRequestChanged, RequestChangedPayload{
		Action:       e.Action,
		RequestID:    e.RequestID,
		Reference:    e.Reference,
		EquipmentIDs: equipmentIDs,
		ActorID:      e.ActorID,
	})
}
