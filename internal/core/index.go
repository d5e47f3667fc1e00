package core

import (
	"sync"

	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

// ConnectionID is the transient handle of one live connection,
// distinct from the durable domain.UserID.
type ConnectionID string

// ConnIndex is the bidirectional user<->connection mapping plus the
// user->room pointer. One active connection and one active room per user;
// Attach overwrites both. All operations are O(1).
//
// The index locks itself, but registry operations only ever mutate it
// inside their own critical sections, so both structures are consistent
// at every operation boundary.
type ConnIndex struct {
	mu         sync.RWMutex
	connByUser map[domain.UserID]ConnectionID
	userByConn map[ConnectionID]domain.UserID
	roomByUser map[domain.UserID]domain.RoomID
}

func NewConnIndex() *ConnIndex {
	return &ConnIndex{
		connByUser: make(map[domain.UserID]ConnectionID),
		userByConn: make(map[ConnectionID]domain.UserID),
		roomByUser: make(map[domain.UserID]domain.RoomID),
	}
}

// Attach points uid at conn and room, overwriting any prior mapping.
// A stale inverse entry from a previous connection is dropped so that
// reconnect-and-rejoin never leaves two connections resolving to one user.
func (ix *ConnIndex) Attach(uid domain.UserID, conn ConnectionID, room domain.RoomID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if old, ok := ix.connByUser[uid]; ok && old != conn {
		delete(ix.userByConn, old)
	}
	ix.connByUser[uid] = conn
	ix.userByConn[conn] = uid
	ix.roomByUser[uid] = room
}

// Detach clears all entries for uid. Tolerant of missing entries.
func (ix *ConnIndex) Detach(uid domain.UserID) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if conn, ok := ix.connByUser[uid]; ok {
		delete(ix.userByConn, conn)
	}
	delete(ix.connByUser, uid)
	delete(ix.roomByUser, uid)
}

func (ix *ConnIndex) RoomOf(uid domain.UserID) (domain.RoomID, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	room, ok := ix.roomByUser[uid]
	return room, ok
}

func (ix *ConnIndex) ParticipantOf(conn ConnectionID) (domain.UserID, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	uid, ok := ix.userByConn[conn]
	return uid, ok
}

func (ix *ConnIndex) ConnectionOf(uid domain.UserID) (ConnectionID, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	conn, ok := ix.connByUser[uid]
	return conn, ok
}
