package listeners

import (
	"context"
	"sync"
	"testing"

	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingInvalidator struct {
	mu  sync.Mutex
	ids []uint64
}

func (r *recordingInvalidator) InvalidateOpenRequests(_ context.Context, ids ...uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ids...)
	return nil
}

func TestCacheListener_InvalidatesEquipmentFromEvent(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	inv := &recordingInvalidator{}
	NewCacheListener(inv, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.RequestChangedEvent{Action: "update", Reference: "MR-00001", EquipmentIDs: []uint64{3, 7}})
	bus.Publish(context.Background(), events.RequestChangedEvent{Action: "update", Reference: "MR-00002"})
	bus.Wait()

	assert.ElementsMatch(t, []uint64{3, 7}, inv.ids)
}
