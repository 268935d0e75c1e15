package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// Manager tracks all active sessions and which room each occupies.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	roomSets map[world.RoomKey]map[string]bool // room → set of session IDs
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		roomSets: make(map[world.RoomKey]map[string]bool),
	}
}

// Add registers a session in its current room.
//
// Precondition: sess must be non-nil with a non-empty ID.
// Postcondition: Returns an error if the ID is already registered.
func (m *Manager) Add(sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sess.ID]; exists {
		return fmt.Errorf("session %q already registered", sess.ID)
	}
	m.sessions[sess.ID] = sess
	m.enter(sess.ID, sess.Room)
	return nil
}

// Remove unregisters a session and clears its room occupancy.
//
// Postcondition: Returns an error if the session is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("session %q not found", id)
	}
	m.leave(id, sess.Room)
	delete(m.sessions, id)
	return nil
}

// Relocate updates occupancy after a session's traveler has moved from one room to another.
//
// Postcondition: Returns an error if the session is not found.
func (m *Manager) Relocate(id string, from world.RoomKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("session %q not found", id)
	}
	m.leave(id, from)
	m.enter(id, sess.Room)
	return nil
}

// Get returns the session with the given ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// InRoom returns the sorted IDs of sessions occupying room.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) InRoom(room world.RoomKey) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.roomSets[room]))
	for id := range m.roomSets[room] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) enter(id string, room world.RoomKey) {
	if m.roomSets[room] == nil {
		m.roomSets[room] = make(map[string]bool)
	}
	m.roomSets[room][id] = true
}

func (m *Manager) leave(id string, room world.RoomKey) {
	if rs, ok := m.roomSets[room]; ok {
		delete(rs, id)
		if len(rs) == 0 {
			delete(m.roomSets, room)
		}
	}
}
