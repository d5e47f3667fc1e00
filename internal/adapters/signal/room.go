package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Voice-ly/backend-socket-service/internal/core"
	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

func (ctl *Controller) handleCreateRoom(cid core.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Type            string        `json:"type"`
		Name            string        `json:"name"`
		MaxParticipants int           `json:"maxParticipants"`
		CreatedBy       domain.UserID `json:"createdBy"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create-room payload")
		ctl.sendJSON(conn, errorEvent{Type: "room-creation-error", Message: "bad_payload"})
		return
	}

	if p.MaxParticipants <= 0 {
		p.MaxParticipants = ctl.cfg.DefaultCapacity
	}
	room, err := ctl.rooms.CreateRoom(domain.RoomName(p.Name), p.CreatedBy, p.MaxParticipants)
	if err != nil {
		ctl.sendJSON(conn, errorEvent{Type: "room-creation-error", Message: err.Error()})
		return
	}

	ctl.broadcastAll(roomCreatedEvent{Type: "room-created", Room: room})
	ctl.sendJSON(conn, roomCreatedSuccessEvent{
		Type:    "room-created-success",
		Room:    room,
		Message: "room created",
	})
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("room", string(room.ID)).Str("creator", string(p.CreatedBy)).Msg("room created")
}

func (ctl *Controller) handleJoinRoom(cid core.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Type   string             `json:"type"`
		RoomID domain.RoomID      `json:"roomId"`
		User   domain.Participant `json:"user"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendJSON(conn, errorEvent{Type: "join-error", Message: "bad_payload"})
		return
	}

	room, err := ctl.rooms.JoinRoom(p.RoomID, p.User, cid)
	if err != nil {
		ctl.sendJSON(conn, errorEvent{Type: "join-error", Message: registryErrorMessage(err)})
		return
	}

	ctl.sendJSON(conn, roomInfoEvent{
		Type:         "room-info",
		Room:         room,
		Participants: room.Participants,
	})
	ctl.broadcastRoom(p.RoomID, userJoinedEvent{
		Type:         "user-joined",
		User:         p.User,
		Participants: room.Participants,
	}, cid)
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("room", string(p.RoomID)).Str("user", string(p.User.UserID)).Msg("joined room")
}

func (ctl *Controller) handleLeaveRoom(cid core.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Type   string        `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad leave-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	room, err := ctl.rooms.LeaveRoom(p.RoomID, p.UserID, cid)
	if err != nil {
		// Room already gone; a racing delete got there first.
		return
	}

	ctl.broadcastRoom(p.RoomID, userLeftEvent{
		Type:         "user-left",
		UserID:       p.UserID,
		Participants: room.Participants,
	}, cid)
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("room", string(p.RoomID)).Str("user", string(p.UserID)).Msg("left room")
}

func (ctl *Controller) handleGetRooms(conn *wsConn) {
	ctl.sendJSON(conn, roomsListEvent{Type: "rooms-list", Rooms: ctl.rooms.ListRooms()})
}

func (ctl *Controller) handleDeleteRoom(cid core.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Type   string        `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad delete-room payload")
		ctl.sendJSON(conn, errorEvent{Type: "room-deletion-error", Message: "bad_payload"})
		return
	}

	if err := ctl.rooms.DeleteRoom(p.RoomID, p.UserID); err != nil {
		ctl.sendJSON(conn, errorEvent{Type: "room-deletion-error", Message: registryErrorMessage(err)})
		return
	}

	ctl.broadcastAll(roomDeletedEvent{Type: "room-deleted", RoomID: p.RoomID})
	ctl.sendJSON(conn, roomDeletedSuccessEvent{
		Type:    "room-deleted-success",
		RoomID:  p.RoomID,
		Message: "room deleted",
	})
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("room", string(p.RoomID)).Str("requester", string(p.UserID)).Msg("room deleted")
}

func (ctl *Controller) handleSetLock(conn *wsConn, data []byte, locked bool) {
	var p struct {
		Type   string        `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
		UserID domain.UserID `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad lock payload")
		ctl.sendJSON(conn, errorEvent{Type: "room-lock-error", Message: "bad_payload"})
		return
	}

	room, err := ctl.rooms.SetLocked(p.RoomID, p.UserID, locked)
	if err != nil {
		ctl.sendJSON(conn, errorEvent{Type: "room-lock-error", Message: registryErrorMessage(err)})
		return
	}

	ctl.broadcastRoom(p.RoomID, roomLockedEvent{
		Type:     "room-locked",
		RoomID:   room.ID,
		IsLocked: room.IsLocked,
	})
	ctl.broadcastAll(roomsUpdatedEvent{Type: "rooms-updated", Rooms: ctl.rooms.ListRooms()})
	log.Info().Str("module", "signal").Str("room", string(p.RoomID)).Bool("locked", locked).Msg("room lock changed")
}

// registryErrorMessage maps the registry's sentinel errors to the
// client-facing wording shared by every error event.
func registryErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		return "room does not exist"
	case errors.Is(err, core.ErrRoomLocked):
		return "room is locked"
	case errors.Is(err, core.ErrRoomFull):
		return "room is full"
	case errors.Is(err, core.ErrForbidden):
		return "only the creator may do that"
	default:
		return err.Error()
	}
}
