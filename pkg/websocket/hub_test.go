package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	hub.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	a := &Client{hub: hub, send: make(chan []byte, 1), userID: 1}
	b := &Client{hub: hub, send: make(chan []byte, 1), userID: 2}
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast("request_changed", map[string]string{"reference": "MR-00001"}))

	for _, c := range []*Client{a, b} {
		var env Envelope
		require.NoError(t, json.Unmarshal(<-c.send, &env))
		assert.Equal(t, "request_changed", env.Type)
		assert.Equal(t, "MR-00001", env.Payload.(map[string]interface{})["reference"])
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	slow := &Client{hub: hub, send: make(chan []byte), userID: 1}
	require.True(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast("request_changed", nil))
	assert.Equal(t, 0, hub.ClientCount())
	_, open := <-slow.send
	assert.False(t, open)
}

func TestHub_StopsOnCancel(t *testing.T) {
	hub, cancel := runHub(t)

	c := &Client{hub: hub, send: make(chan []byte, 1), userID: 1}
	require.True(t, hub.Register(c))
	cancel()

	require.Eventually(t, func() bool { return !hub.Register(&Client{hub: hub, send: make(chan []byte)}) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.ClientCount())
	hub.Unregister(c)
}
