package listeners

import (
	"context"
	"sync"
	"testing"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	types    []string
	payloads []interface{}
}

func (r *recordingBroadcaster) Broadcast(messageType string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, messageType)
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestBoardListener_BroadcastsRequestChanges(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	rec := &recordingBroadcaster{}
	NewBoardListener(rec, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.RequestChangedEvent{
		Action:    entities.ActionAssign,
		RequestID: 7,
		Reference: "MR-00007",
		ActorID:   3,
	})
	bus.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.payloads, 1)
	assert.Equal(t, BoardMessageRequestChanged, rec.types[0])
	payload := rec.payloads[0].(RequestChangedPayload)
	assert.Equal(t, "MR-00007", payload.Reference)
	assert.Equal(t, entities.ActionAssign, payload.Action)
	assert.NotNil(t, payload.EquipmentIDs, "в JSON всегда массив")
}
