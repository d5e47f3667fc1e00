package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "github.com/Voice-ly/backend-socket-service/internal/adapters/http"
	"github.com/Voice-ly/backend-socket-service/internal/core"
	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

func newTestRouter(reg *core.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &handlers.RoomHandlers{Rooms: reg}
	r.GET("/health", h.Health)
	r.GET("/api/rooms", h.ListRooms)
	r.GET("/api/rooms/:roomId", h.GetRoom)
	return r
}

func TestHealth(t *testing.T) {
	r := newTestRouter(core.NewRegistry(time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestListRooms(t *testing.T) {
	reg := core.NewRegistry(time.Minute)
	_, err := reg.CreateRoom("alpha", "u1", 4)
	require.NoError(t, err)
	_, err = reg.CreateRoom("beta", "u1", 4)
	require.NoError(t, err)
	r := newTestRouter(reg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool              `json:"success"`
		Rooms   []domain.RoomInfo `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Rooms, 2)
	assert.Equal(t, domain.RoomName("alpha"), body.Rooms[0].Name)
	assert.Equal(t, domain.RoomName("beta"), body.Rooms[1].Name)
}

func TestGetRoom(t *testing.T) {
	reg := core.NewRegistry(time.Minute)
	room, err := reg.CreateRoom("alpha", "u1", 4)
	require.NoError(t, err)
	r := newTestRouter(reg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+string(room.ID), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool        `json:"success"`
		Room    domain.Room `json:"room"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, room.ID, body.Room.ID)
	assert.Equal(t, 4, body.Room.MaxParticipants)
}

func TestGetRoomNotFound(t *testing.T) {
	r := newTestRouter(core.NewRegistry(time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rooms/does-not-exist", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}
