package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, 7)
		hub.Register(client)
		client.Run(context.Background())
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_DeliversEventToProfile(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.BroadcastToUser(8, "balance.updated", map[string]any{"balance": "1.00"}))
	require.NoError(t, hub.BroadcastToUser(7, "job.paid", map[string]any{"job_id": 3}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "job.paid", got.Type)
	assert.Equal(t, float64(3), got.Data["job_id"])
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.ClientCount(7) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, srv, cancel := startHub(t)
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return hub.ClientCount(7) == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount(7))
	assert.NoError(t, hub.BroadcastToUser(7, "job.paid", nil))
}

func TestHub_BroadcastDoesNotBlockWhenQueueIsFull(t *testing.T) {
	hub := NewHub()

	for i := 0; i < broadcastBuffer; i++ {
		require.NoError(t, hub.BroadcastToUser(1, "balance.updated", i))
	}

	done := make(chan error, 1)
	go func() { done <- hub.BroadcastToUser(1, "balance.updated", "overflow") }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrHubBusy)
	case <-time.After(time.Second):
		t.Fatal("BroadcastToUser blocked")
	}
}

func TestHub_BroadcastRejectsUnencodablePayload(t *testing.T) {
	hub := NewHub()

	err := hub.BroadcastToUser(1, "job.paid", make(chan int))

	assert.Error(t, err)
}
