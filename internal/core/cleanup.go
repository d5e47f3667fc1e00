package core

import (
	"time"

	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

// Janitor schedules delayed deletion of rooms that became empty.
// There is no cancellation token: the purge callback re-reads live state
// at fire time, so a room repopulated before the grace period elapses
// simply survives the check. Overlapping arms for the same room are
// idempotent for the same reason.
type Janitor struct {
	grace time.Duration
	purge func(domain.RoomID) bool
}

func NewJanitor(grace time.Duration, purge func(domain.RoomID) bool) *Janitor {
	return &Janitor{grace: grace, purge: purge}
}

// Arm schedules a purge check for id after the grace period.
// Holds no lock while waiting; the callback re-acquires exclusive
// access only at fire time.
func (j *Janitor) Arm(id domain.RoomID) {
	time.AfterFunc(j.grace, func() {
		j.purge(id)
	})
}
