package game

import "sync"

// Registry is the process-wide map from room code to room. It is
// created once and handed to whoever coordinates sessions; nothing
// else mutates it. The registry lock only guards the map itself, so
// operations on different rooms proceed concurrently.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for the given code, creating it with a
// fresh board, white to move, and an empty chat log if absent. Codes
// match by exact string comparison; no normalization.
func (reg *Registry) GetOrCreate(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, ok := reg.rooms[roomID]; ok {
		return room, false
	}

	room := NewRoom(roomID)
	reg.rooms[roomID] = room
	return room, true
}

// Get returns the room for the given code, if it exists.
func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	return room, ok
}

// RemoveIfEmpty deletes the room only if it still has no participants.
// The emptiness re-check under the registry lock keeps a concurrent
// join from losing its room to a stale delete, and closing the room in
// the same step keeps a join that already resolved the old pointer
// from attaching to it afterwards.
func (reg *Registry) RemoveIfEmpty(roomID string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[roomID]
	if !ok || !room.CloseIfEmpty() {
		return false
	}

	delete(reg.rooms, roomID)
	return true
}

// Count returns the number of live rooms.
func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}
