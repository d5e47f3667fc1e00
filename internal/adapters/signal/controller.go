package signal

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Voice-ly/backend-socket-service/internal/config"
	"github.com/Voice-ly/backend-socket-service/internal/core"
	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controller is the event gateway: it decodes inbound events, invokes
// registry operations and fans the results out to the relevant
// connections or rooms. It holds no session state of its own beyond the
// connection table.
type Controller struct {
	cfg   *config.Config
	rooms *core.Registry
	conns *ConnTable
}

func NewController(cfg *config.Config, rooms *core.Registry) *Controller {
	ctl := &Controller{
		cfg:   cfg,
		rooms: rooms,
		conns: NewConnTable(),
	}
	rooms.SetExpireHook(ctl.onRoomExpired)
	rooms.SetMigrateHook(ctl.onRoomVacated)
	return ctl
}

// HandleWS upgrades the request and starts the pumps. Each connection
// gets a fresh transient id, distinct from any user identity.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	cid := core.ConnectionID(uuid.NewString())
	conn := newWSConn(ws, 32)
	ctl.conns.Bind(cid, conn)
	log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ctl.writePump(ctx, conn)
	}()
	go func() {
		defer cancel()
		ctl.readPump(ctx, cid, conn)
	}()
}

func (ctl *Controller) dispatch(cid core.ConnectionID, conn *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(conn, "bad_payload")
		return
	}

	switch env.Type {
	case "create-room":
		ctl.handleCreateRoom(cid, conn, data)
	case "join-room":
		ctl.handleJoinRoom(cid, conn, data)
	case "leave-room":
		ctl.handleLeaveRoom(cid, conn, data)
	case "get-rooms":
		ctl.handleGetRooms(conn)
	case "delete-room":
		ctl.handleDeleteRoom(cid, conn, data)
	case "toggle-audio":
		ctl.handleToggleAudio(conn, data)
	case "toggle-video":
		ctl.handleToggleVideo(conn, data)
	case "lock-room":
		ctl.handleSetLock(conn, data, true)
	case "unlock-room":
		ctl.handleSetLock(conn, data, false)
	case "signal":
		ctl.handleSignalRelay(cid, conn, data)
	case "ping":
		ctl.sendJSON(conn, pongEvent{Type: "pong"})
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(conn, "unknown event")
	}
}

// onDisconnect runs when the transport drops without an explicit leave:
// resolve connection -> user -> room and leave on the user's behalf.
func (ctl *Controller) onDisconnect(cid core.ConnectionID) {
	defer ctl.conns.Unbind(cid)

	uid, ok := ctl.rooms.ParticipantOf(cid)
	if !ok {
		log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("disconnected")
		return
	}
	roomID, ok := ctl.rooms.RoomOf(uid)
	if !ok {
		return
	}
	room, err := ctl.rooms.LeaveRoom(roomID, uid, cid)
	if err != nil {
		// Room already gone, nothing left to report.
		return
	}

	ctl.broadcastRoom(roomID, userLeftEvent{
		Type:         "user-left",
		UserID:       uid,
		Participants: room.Participants,
	})
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("user", string(uid)).Str("room", string(roomID)).Msg("disconnected from room")
}

// onRoomVacated is invoked by the registry when a join pulled the user
// out of a previous room; the remaining members there still need their
// roster update.
func (ctl *Controller) onRoomVacated(prev *domain.Room, uid domain.UserID) {
	ctl.broadcastRoom(prev.ID, userLeftEvent{
		Type:         "user-left",
		UserID:       uid,
		Participants: prev.Participants,
	})
	log.Info().Str("module", "signal").Str("room", string(prev.ID)).Str("user", string(uid)).Msg("announced vacated room")
}

// onRoomExpired is invoked by the registry after a deferred cleanup
// deletes an empty room.
func (ctl *Controller) onRoomExpired(info domain.RoomInfo) {
	ctl.broadcastAll(roomDeletedEvent{Type: "room-deleted", RoomID: info.ID})
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("room", string(info.ID)).Msg("announced expired room")
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *wsConn, msg string) {
	ctl.sendJSON(c, errorEvent{Type: "error", Message: msg})
}

func (ctl *Controller) broadcastAll(v any) {
	for _, c := range ctl.conns.All() {
		ctl.sendJSON(c, v)
	}
}

// broadcastRoom sends v to every member of the room, minus any
// connections listed in except.
func (ctl *Controller) broadcastRoom(roomID domain.RoomID, v any, except ...core.ConnectionID) {
	room, ok := ctl.rooms.GetRoom(roomID)
	if !ok {
		return
	}
	for _, p := range room.Participants {
		cid, ok := ctl.rooms.ConnectionOf(p.UserID)
		if !ok || contains(except, cid) {
			continue
		}
		if c, ok := ctl.conns.Get(cid); ok {
			ctl.sendJSON(c, v)
		}
	}
}

func contains(ids []core.ConnectionID, id core.ConnectionID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
