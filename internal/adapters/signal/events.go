package signal

import (
	"encoding/json"

	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

// Outbound event shapes. Field names mirror the client protocol.

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type pongEvent struct {
	Type string `json:"type"`
}

type roomCreatedEvent struct {
	Type string       `json:"type"`
	Room *domain.Room `json:"room"`
}

type roomCreatedSuccessEvent struct {
	Type    string       `json:"type"`
	Room    *domain.Room `json:"room"`
	Message string       `json:"message"`
}

type roomsListEvent struct {
	Type  string            `json:"type"`
	Rooms []domain.RoomInfo `json:"rooms"`
}

type roomsUpdatedEvent struct {
	Type  string            `json:"type"`
	Rooms []domain.RoomInfo `json:"rooms"`
}

type roomDeletedEvent struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type roomDeletedSuccessEvent struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Message string        `json:"message"`
}

type roomInfoEvent struct {
	Type         string               `json:"type"`
	Room         *domain.Room         `json:"room"`
	Participants []domain.Participant `json:"participants"`
}

type userJoinedEvent struct {
	Type         string               `json:"type"`
	User         domain.Participant   `json:"user"`
	Participants []domain.Participant `json:"participants"`
}

type userLeftEvent struct {
	Type         string               `json:"type"`
	UserID       domain.UserID        `json:"userId"`
	Participants []domain.Participant `json:"participants"`
}

type userUpdatedEvent struct {
	Type    string              `json:"type"`
	UserID  domain.UserID       `json:"userId"`
	Updates *domain.Participant `json:"updates"`
}

type roomLockedEvent struct {
	Type     string        `json:"type"`
	RoomID   domain.RoomID `json:"roomId"`
	IsLocked bool          `json:"isLocked"`
}

type signalRelayEvent struct {
	Type string          `json:"type"`
	From domain.UserID   `json:"from"`
	Data json.RawMessage `json:"data"`
}
