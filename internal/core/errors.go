package core

import "errors"

// Expected, recoverable conditions returned to callers as typed results.
// Anything outside this set is a programmer error and must not be masked
// as one of these.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoomLocked          = errors.New("room is locked")
	ErrRoomFull            = errors.New("room is full")
	ErrForbidden           = errors.New("only the creator may do that")
	ErrInvalidInput        = errors.New("invalid input")
)
