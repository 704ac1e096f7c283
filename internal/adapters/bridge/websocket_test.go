package bridge_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/adapters/bridge"
	"go.trai.ch/lantern/internal/core/domain"
	"golang.org/x/net/websocket"
)

func dialBridge(t *testing.T, hub *bridge.Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(bridge.NewHandler(hub, nil))
	t.Cleanup(srv.Close)

	conn, err := websocket.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+domain.BridgePath, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func waitForSubscribers(t *testing.T, hub *bridge.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Subscribers() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHandler_ForwardsBroadcasts(t *testing.T) {
	hub := bridge.NewHub(nil)
	conn := dialBridge(t, hub)
	waitForSubscribers(t, hub, 1)

	count := 1
	hub.Broadcast(domain.NewMessage(domain.KindSyncComplete, domain.SyncCompletePayload{Timestamp: 42, ItemCount: &count}))

	var msg domain.Message
	require.NoError(t, json.NewDecoder(conn).Decode(&msg))
	assert.Equal(t, domain.KindSyncComplete, msg.Type)
	assert.JSONEq(t, `{"timestamp":42,"itemCount":1}`, string(msg.Payload))
}

func TestHandler_DispatchesPageMessages(t *testing.T) {
	hub := bridge.NewHub(nil)
	received := make(chan domain.MessageKind, 1)
	hub.Handle(domain.KindSkipWaiting, func(_ context.Context, msg domain.Message) error {
		received <- msg.Type
		return nil
	})

	conn := dialBridge(t, hub)
	require.NoError(t, json.NewEncoder(conn).Encode(domain.NewMessage(domain.KindSkipWaiting, nil)))

	select {
	case kind := <-received:
		assert.Equal(t, domain.KindSkipWaiting, kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for dispatch")
	}
}

func TestHandler_UnsubscribesOnDisconnect(t *testing.T) {
	hub := bridge.NewHub(nil)
	conn := dialBridge(t, hub)
	waitForSubscribers(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForSubscribers(t, hub, 0)
}
