package signal

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voice-ly/backend-socket-service/internal/config"
	"github.com/Voice-ly/backend-socket-service/internal/core"
)

func newTestGateway(t *testing.T, pingPeriod time.Duration) (*Controller, *core.Registry, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Mode:            "release",
		ReadLimit:       32768,
		PingPeriod:      pingPeriod,
		RoomGracePeriod: time.Minute,
		DefaultCapacity: 10,
	}
	reg := core.NewRegistry(cfg.RoomGracePeriod)
	ctl := NewController(cfg, reg)

	r := gin.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return ctl, reg, srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestPingPongRoundTrip(t *testing.T) {
	_, _, srv := newTestGateway(t, time.Minute)
	ws := dialWS(t, srv)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "ping"}))
	got := readEvent(t, ws)
	assert.Equal(t, "pong", got["type"])
}

func TestLockErrorsAreTyped(t *testing.T) {
	_, reg, srv := newTestGateway(t, time.Minute)
	ws := dialWS(t, srv)

	// Unknown room.
	require.NoError(t, ws.WriteJSON(map[string]string{
		"type":   "lock-room",
		"roomId": "does-not-exist",
		"userId": "u1",
	}))
	got := readEvent(t, ws)
	assert.Equal(t, "room-lock-error", got["type"])
	assert.Equal(t, "room does not exist", got["message"])

	// Non-creator.
	room, err := reg.CreateRoom("locked-down", "u1", 5)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(map[string]string{
		"type":   "lock-room",
		"roomId": string(room.ID),
		"userId": "u2",
	}))
	got = readEvent(t, ws)
	assert.Equal(t, "room-lock-error", got["type"])
	assert.Equal(t, "only the creator may do that", got["message"])
}

// A peer that stops answering pings must be reaped by the read deadline,
// not left to linger until TCP gives up.
func TestUnresponsivePeerIsReaped(t *testing.T) {
	ctl, _, srv := newTestGateway(t, 30*time.Millisecond)
	ws := dialWS(t, srv)

	// Suppress the client's automatic pong replies; a dead peer sends
	// nothing at all.
	ws.SetPingHandler(func(string) error { return nil })
	go func() {
		// Keep the client reading so its ping handler runs.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool {
		return len(ctl.conns.All()) == 0
	}, 2*time.Second, 20*time.Millisecond, "connection never reaped after pongs stopped")
}
