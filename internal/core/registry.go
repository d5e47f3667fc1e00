package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Voice-ly/backend-socket-service/internal/domain"
)

// Registry owns all room and membership state. Every exported operation
// is atomic: the mutex covers the rooms map, the creation-order slice and
// every index mutation, so no caller ever observes a room whose membership
// disagrees with the connection index.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*domain.Room
	order []domain.RoomID

	index   *ConnIndex
	janitor *Janitor

	// onExpire runs outside the lock after the janitor purges a room.
	onExpire func(domain.RoomInfo)
	// onMigrate runs outside the lock after a join pulled the user out
	// of a previous room, with that room's post-removal snapshot.
	onMigrate func(prev *domain.Room, uid domain.UserID)
}

func NewRegistry(grace time.Duration) *Registry {
	r := &Registry{
		rooms: make(map[domain.RoomID]*domain.Room),
		index: NewConnIndex(),
	}
	r.janitor = NewJanitor(grace, r.purgeIfEmpty)
	return r
}

// SetExpireHook registers a callback for janitor-driven deletions.
// Must be set before the registry starts serving.
func (r *Registry) SetExpireHook(fn func(domain.RoomInfo)) {
	r.onExpire = fn
}

// SetMigrateHook registers a callback for rooms vacated by a join into
// another room, so the gateway can tell the remaining members.
// Must be set before the registry starts serving.
func (r *Registry) SetMigrateHook(fn func(prev *domain.Room, uid domain.UserID)) {
	r.onMigrate = fn
}

// CreateRoom allocates a fresh room with empty membership.
// A non-positive capacity falls back to domain.DefaultCapacity.
func (r *Registry) CreateRoom(name domain.RoomName, creator domain.UserID, capacity int) (*domain.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: room name empty", ErrInvalidInput)
	}
	if creator == "" {
		return nil, fmt.Errorf("%w: creator empty", ErrInvalidInput)
	}
	if capacity <= 0 {
		capacity = domain.DefaultCapacity
	}

	room := &domain.Room{
		ID:              domain.RoomID(uuid.NewString()),
		Name:            name,
		MaxParticipants: capacity,
		Participants:    []domain.Participant{},
		CreatedBy:       creator,
		CreatedAt:       time.Now(),
	}

	r.mu.Lock()
	r.rooms[room.ID] = room
	r.order = append(r.order, room.ID)
	r.mu.Unlock()

	log.Info().Str("module", "core.registry").Str("room", string(room.ID)).Str("creator", string(creator)).Int("capacity", capacity).Msg("room created")
	return cloneRoom(room), nil
}

// JoinRoom adds p to the room and points the connection index at conn.
// Membership is deduplicated by user id: a re-join leaves the list (and
// join order) unchanged but still refreshes the connection mapping, which
// is what makes reconnect-and-rejoin work. An existing member is exempt
// from the capacity check.
func (r *Registry) JoinRoom(id domain.RoomID, p domain.Participant, conn ConnectionID) (*domain.Room, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	r.mu.Lock()

	room, ok := r.rooms[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if room.IsLocked {
		r.mu.Unlock()
		return nil, ErrRoomLocked
	}
	member := memberIndex(room, p.UserID) >= 0
	if !member && len(room.Participants) >= room.MaxParticipants {
		r.mu.Unlock()
		return nil, ErrRoomFull
	}

	// A user belongs to at most one room. If the index says it is
	// somewhere else, pull it out of there first and keep a snapshot
	// so the vacated room's members can be told.
	var prevSnap *domain.Room
	if prev, ok := r.index.RoomOf(p.UserID); ok && prev != id {
		if prevRoom, ok := r.rooms[prev]; ok {
			r.removeMemberLocked(prevRoom, p.UserID)
			prevSnap = cloneRoom(prevRoom)
		}
	}

	if !member {
		room.Participants = append(room.Participants, p)
	}
	r.index.Attach(p.UserID, conn, id)
	snap := cloneRoom(room)
	hook := r.onMigrate
	r.mu.Unlock()

	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("user", string(p.UserID)).Bool("rejoin", member).Msg("participant joined")
	if prevSnap != nil && hook != nil {
		hook(prevSnap, p.UserID)
	}
	return snap, nil
}

// LeaveRoom removes the participant from the room. A participant that is
// not in the room is a no-op success. An emptied room is handed to the
// janitor for deferred deletion.
func (r *Registry) LeaveRoom(id domain.RoomID, uid domain.UserID, conn ConnectionID) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.removeMemberLocked(room, uid)

	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("user", string(uid)).Int("remaining", len(room.Participants)).Msg("participant left")
	return cloneRoom(room), nil
}

// UpdateParticipant merges the non-nil fields of upd into the participant
// record in place.
func (r *Registry) UpdateParticipant(id domain.RoomID, uid domain.UserID, upd domain.ParticipantUpdate) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.findParticipantLocked(id, uid)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.IsAudioEnabled != nil {
		p.IsAudioEnabled = *upd.IsAudioEnabled
	}
	if upd.IsVideoEnabled != nil {
		p.IsVideoEnabled = *upd.IsVideoEnabled
	}
	out := *p
	return &out, nil
}

// ToggleAudio flips the audio flag atomically (no read-modify-write
// window for two racing toggles to cancel out).
func (r *Registry) ToggleAudio(id domain.RoomID, uid domain.UserID) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.findParticipantLocked(id, uid)
	if err != nil {
		return nil, err
	}
	p.IsAudioEnabled = !p.IsAudioEnabled
	out := *p
	return &out, nil
}

// ToggleVideo flips the video flag atomically.
func (r *Registry) ToggleVideo(id domain.RoomID, uid domain.UserID) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.findParticipantLocked(id, uid)
	if err != nil {
		return nil, err
	}
	p.IsVideoEnabled = !p.IsVideoEnabled
	out := *p
	return &out, nil
}

// DeleteRoom removes the room and purges every member's index entries.
// Creator-only.
func (r *Registry) DeleteRoom(id domain.RoomID, requester domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	if room.CreatedBy != requester {
		return ErrForbidden
	}
	r.dropRoomLocked(id, room)

	log.Info().Str("module", "core.registry").Str("room", string(id)).Str("requester", string(requester)).Msg("room deleted")
	return nil
}

// SetLocked sets the lock flag gating new joins. Creator-only.
func (r *Registry) SetLocked(id domain.RoomID, requester domain.UserID, locked bool) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.CreatedBy != requester {
		return nil, ErrForbidden
	}
	room.IsLocked = locked

	log.Info().Str("module", "core.registry").Str("room", string(id)).Bool("locked", locked).Msg("room lock changed")
	return cloneRoom(room), nil
}

// GetRoom returns a deep-copied snapshot, safe to read concurrently
// with any mutation.
func (r *Registry) GetRoom(id domain.RoomID) (*domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, false
	}
	return cloneRoom(room), true
}

// ListRooms returns room summaries in creation order.
func (r *Registry) ListRooms() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(r.order))
	for _, id := range r.order {
		if room, ok := r.rooms[id]; ok {
			out = append(out, room.Info())
		}
	}
	return out
}

// Index reads, delegated so the gateway has one facade.

func (r *Registry) RoomOf(uid domain.UserID) (domain.RoomID, bool) {
	return r.index.RoomOf(uid)
}

func (r *Registry) ParticipantOf(conn ConnectionID) (domain.UserID, bool) {
	return r.index.ParticipantOf(conn)
}

func (r *Registry) ConnectionOf(uid domain.UserID) (ConnectionID, bool) {
	return r.index.ConnectionOf(uid)
}

// purgeIfEmpty is the janitor callback: delete the room only if it still
// exists and is still empty at fire time.
func (r *Registry) purgeIfEmpty(id domain.RoomID) bool {
	r.mu.Lock()
	room, ok := r.rooms[id]
	if !ok || len(room.Participants) > 0 {
		r.mu.Unlock()
		return false
	}
	info := room.Info()
	r.dropRoomLocked(id, room)
	hook := r.onExpire
	r.mu.Unlock()

	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("empty room expired")
	if hook != nil {
		hook(info)
	}
	return true
}

// removeMemberLocked drops uid from the room's list and clears its index
// entries, arming the janitor if the room empties. No-op when absent.
// The index entry is only cleared while it still points at this room, so
// a racing rejoin into another room keeps its fresh mapping.
func (r *Registry) removeMemberLocked(room *domain.Room, uid domain.UserID) {
	if i := memberIndex(room, uid); i >= 0 {
		room.Participants = append(room.Participants[:i], room.Participants[i+1:]...)
	}
	if idxRoom, ok := r.index.RoomOf(uid); ok && idxRoom == room.ID {
		r.index.Detach(uid)
	}
	if len(room.Participants) == 0 {
		r.janitor.Arm(room.ID)
	}
}

// dropRoomLocked removes the room and purges every member's index entries.
func (r *Registry) dropRoomLocked(id domain.RoomID, room *domain.Room) {
	for _, p := range room.Participants {
		if idxRoom, ok := r.index.RoomOf(p.UserID); ok && idxRoom == id {
			r.index.Detach(p.UserID)
		}
	}
	delete(r.rooms, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) findParticipantLocked(id domain.RoomID, uid domain.UserID) (*domain.Participant, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	i := memberIndex(room, uid)
	if i < 0 {
		return nil, ErrParticipantNotFound
	}
	return &room.Participants[i], nil
}

func memberIndex(room *domain.Room, uid domain.UserID) int {
	for i := range room.Participants {
		if room.Participants[i].UserID == uid {
			return i
		}
	}
	return -1
}

func cloneRoom(room *domain.Room) *domain.Room {
	out := *room
	out.Participants = make([]domain.Participant, len(room.Participants))
	copy(out.Participants, room.Participants)
	return &out
}
