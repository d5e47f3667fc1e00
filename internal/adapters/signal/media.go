package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Voice-ly/backend-socket-service/internal/core"
	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

type toggleMediaPayload struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	UserID domain.UserID `json:"userId"`
}

func (ctl *Controller) handleToggleAudio(conn *wsConn, data []byte) {
	ctl.handleToggle(conn, data, ctl.rooms.ToggleAudio)
}

func (ctl *Controller) handleToggleVideo(conn *wsConn, data []byte) {
	ctl.handleToggle(conn, data, ctl.rooms.ToggleVideo)
}

func (ctl *Controller) handleToggle(
	conn *wsConn,
	data []byte,
	toggle func(domain.RoomID, domain.UserID) (*domain.Participant, error),
) {
	var p toggleMediaPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad toggle payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	participant, err := toggle(p.RoomID, p.UserID)
	if err != nil {
		// Stale toggle against a gone room or member, nothing to report.
		log.Debug().Err(err).Str("module", "signal").Str("room", string(p.RoomID)).Str("user", string(p.UserID)).Msg("toggle dropped")
		return
	}

	ctl.broadcastRoom(p.RoomID, userUpdatedEvent{
		Type:    "user-updated",
		UserID:  p.UserID,
		Updates: participant,
	})
}

// handleSignalRelay forwards an opaque signaling payload to the target
// participant's connection. The payload is never interpreted here.
func (ctl *Controller) handleSignalRelay(cid core.ConnectionID, conn *wsConn, data []byte) {
	var p struct {
		Type string          `json:"type"`
		To   domain.UserID   `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad signal payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	from, ok := ctl.rooms.ParticipantOf(cid)
	if !ok {
		ctl.sendError(conn, "not in a room")
		return
	}
	target, ok := ctl.rooms.ConnectionOf(p.To)
	if !ok {
		ctl.sendError(conn, "peer not connected")
		return
	}
	if c, ok := ctl.conns.Get(target); ok {
		ctl.sendJSON(c, signalRelayEvent{Type: "signal", From: from, Data: p.Data})
	}
}
