package core_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Voice-ly/backend-socket-service/internal/core"
	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

func TestEmptyRoomExpiresAfterGrace(t *testing.T) {
	reg := newRegistry()
	room, err := reg.CreateRoom("ephemeral", "u1", 5)
	require.NoError(t, err)
	_, err = reg.JoinRoom(room.ID, participant("u1"), "c1")
	require.NoError(t, err)
	_, err = reg.LeaveRoom(room.ID, "u1", "c1")
	require.NoError(t, err)

	// Still retrievable inside the grace period.
	_, ok := reg.GetRoom(room.ID)
	assert.True(t, ok)

	time.Sleep(2 * testGrace)
	_, ok = reg.GetRoom(room.ID)
	assert.False(t, ok)
	assert.Empty(t, reg.ListRooms())
}

func TestRepopulatedRoomSurvivesPendingCheck(t *testing.T) {
	reg := newRegistry()
	room, err := reg.CreateRoom("sticky", "u1", 5)
	require.NoError(t, err)
	_, err = reg.JoinRoom(room.ID, participant("u1"), "c1")
	require.NoError(t, err)
	_, err = reg.LeaveRoom(room.ID, "u1", "c1")
	require.NoError(t, err)

	// Join again just before the check fires; the check must re-read
	// live state and leave the room alone.
	time.Sleep(testGrace / 2)
	_, err = reg.JoinRoom(room.ID, participant("u2"), "c2")
	require.NoError(t, err)

	time.Sleep(2 * testGrace)
	got, ok := reg.GetRoom(room.ID)
	require.True(t, ok)
	assert.Len(t, got.Participants, 1)
}

func TestEmptyRepopulateEmptyCyclesEachArm(t *testing.T) {
	reg := newRegistry()
	room, err := reg.CreateRoom("cyclic", "u1", 5)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = reg.JoinRoom(room.ID, participant("u1"), "c1")
		require.NoError(t, err)
		_, err = reg.LeaveRoom(room.ID, "u1", "c1")
		require.NoError(t, err)
	}

	// Overlapping checks on the same id are idempotent; the room is
	// gone once and stays gone.
	time.Sleep(3 * testGrace)
	_, ok := reg.GetRoom(room.ID)
	assert.False(t, ok)
}

func TestExpireHookFiresOnce(t *testing.T) {
	reg := core.NewRegistry(testGrace)
	var fired atomic.Int32
	reg.SetExpireHook(func(info domain.RoomInfo) {
		fired.Add(1)
	})

	room, err := reg.CreateRoom("hooked", "u1", 5)
	require.NoError(t, err)
	_, err = reg.JoinRoom(room.ID, participant("u1"), "c1")
	require.NoError(t, err)
	_, err = reg.LeaveRoom(room.ID, "u1", "c1")
	require.NoError(t, err)
	// Second arm for the same room.
	_, err = reg.JoinRoom(room.ID, participant("u1"), "c1")
	require.NoError(t, err)
	_, err = reg.LeaveRoom(room.ID, "u1", "c1")
	require.NoError(t, err)

	time.Sleep(3 * testGrace)
	assert.Equal(t, int32(1), fired.Load())
}

func TestExplicitDeleteBeatsPendingCheck(t *testing.T) {
	reg := newRegistry()
	room, err := reg.CreateRoom("raced", "u1", 5)
	require.NoError(t, err)
	_, err = reg.JoinRoom(room.ID, participant("u1"), "c1")
	require.NoError(t, err)
	_, err = reg.LeaveRoom(room.ID, "u1", "c1")
	require.NoError(t, err)

	// Creator deletes while the janitor is still waiting. The later
	// check on the already-deleted room must be a no-op.
	require.NoError(t, reg.DeleteRoom(room.ID, "u1"))
	time.Sleep(2 * testGrace)
	_, ok := reg.GetRoom(room.ID)
	assert.False(t, ok)
}
