package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pinged struct{}

func (pinged) Name() string { return "pinged" }

func TestBus_PublishReachesAllListeners(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32

	for i := 0; i < 3; i++ {
		bus.Subscribe("pinged", func(ctx context.Context, event Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}
	bus.Subscribe("pinged", func(ctx context.Context, event Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})

	bus.Publish(context.Background(), pinged{})
	bus.Wait()

	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestBus_NoListeners(t *testing.T) {
	bus := New(zap.NewNop())
	bus.Publish(context.Background(), pinged{})
	bus.Wait()
}
