package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Voice-ly/backend-socket-service/internal/core"
	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

// RoomHandlers is the read-only query surface: pass-through wrappers
// over registry reads, no state of its own.
type RoomHandlers struct {
	Rooms *core.Registry
}

func (h *RoomHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *RoomHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rooms":   h.Rooms.ListRooms(),
	})
}

func (h *RoomHandlers) GetRoom(c *gin.Context) {
	id := domain.RoomID(c.Param("roomId"))
	room, ok := h.Rooms.GetRoom(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "room not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"room":    room,
	})
}
