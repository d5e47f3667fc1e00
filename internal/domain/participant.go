// Package domain contains entities without logic, just meta-data
package domain

import "errors"

const (
	MaxUserIDLen      = 64
	MaxDisplayNameLen = 64
)

var (
	ErrNameTooLong = errors.New("display name too long")
	ErrNameEmpty   = errors.New("display name empty")
	ErrUserIDEmpty = errors.New("user id empty")
)

type UserID string

// Participant is a user's membership record within one room.
// ID is the connection-transient display identity supplied by the client;
// UserID is the durable identity membership is keyed on.
type Participant struct {
	ID             string `json:"id"`
	UserID         UserID `json:"userId"`
	Name           string `json:"name"`
	IsAudioEnabled bool   `json:"isAudioEnabled"`
	IsVideoEnabled bool   `json:"isVideoEnabled"`
}

// Validate keeps ad-hoc checks out of adapters.
func (p *Participant) Validate() error {
	if p.UserID == "" {
		return ErrUserIDEmpty
	}
	if len(p.UserID) > MaxUserIDLen {
		return errors.New("user id too long")
	}
	if len(p.Name) > MaxDisplayNameLen {
		return ErrNameTooLong
	}
	return nil
}

// ParticipantUpdate is the closed set of mutable participant fields.
// Nil pointers leave the field untouched.
type ParticipantUpdate struct {
	Name           *string
	IsAudioEnabled *bool
	IsVideoEnabled *bool
}
