package domain

import "time"

type (
	RoomName string
	RoomID   string
)

// DefaultCapacity is used when a create request carries no capacity
// or a non-positive one.
const DefaultCapacity = 10

type Room struct {
	ID              RoomID        `json:"id"`
	Name            RoomName      `json:"name"`
	MaxParticipants int           `json:"maxParticipants"`
	IsLocked        bool          `json:"isLocked"`
	Participants    []Participant `json:"participants"`
	CreatedBy       UserID        `json:"createdBy"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// RoomInfo is a read-only summary for room listings, no participant detail.
type RoomInfo struct {
	ID               RoomID    `json:"id"`
	Name             RoomName  `json:"name"`
	MaxParticipants  int       `json:"maxParticipants"`
	IsLocked         bool      `json:"isLocked"`
	ParticipantCount int       `json:"participantCount"`
	CreatedBy        UserID    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (r *Room) Info() RoomInfo {
	return RoomInfo{
		ID:               r.ID,
		Name:             r.Name,
		MaxParticipants:  r.MaxParticipants,
		IsLocked:         r.IsLocked,
		ParticipantCount: len(r.Participants),
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}
