package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/model"
)

func receive(t *testing.T, c *Client) (Event, bool) {
	t.Helper()
	select {
	case raw := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev, true
	case <-time.After(100 * time.Millisecond):
		return Event{}, false
	}
}

func TestHub_RoutesByAudience(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	ana := uuid.New()
	staff := &Client{Hub: hub, Send: make(chan []byte, 4), Staff: true}
	anaConn := &Client{Hub: hub, Send: make(chan []byte, 4), ClientID: ana.String()}
	otherConn := &Client{Hub: hub, Send: make(chan []byte, 4), ClientID: uuid.NewString()}
	for _, c := range []*Client{staff, anaConn, otherConn} {
		hub.register <- c
	}
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 3 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Send(ctx, model.Notification{Audience: model.AudienceAdmin, Message: "OT-1001 status changed"}))
	ev, ok := receive(t, staff)
	require.True(t, ok)
	assert.Equal(t, "notification", ev.Event)
	assert.Equal(t, "OT-1001 status changed", ev.Data.Message)
	_, ok = receive(t, anaConn)
	assert.False(t, ok)

	require.NoError(t, hub.Send(ctx, model.Notification{Audience: model.AudienceClient, ClientID: &ana, Message: "Budget ready"}))
	ev, ok = receive(t, anaConn)
	require.True(t, ok)
	assert.Equal(t, "Budget ready", ev.Data.Message)
	_, ok = receive(t, otherConn)
	assert.False(t, ok)
	_, ok = receive(t, staff)
	assert.False(t, ok)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	c := &Client{Hub: hub, Send: make(chan []byte, 1), Staff: true}
	hub.register <- c
	hub.unregister <- c

	require.Eventually(t, func() bool { return hub.ConnectedClients() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}
