package world

import (
	"fmt"
	"sort"
)

// World owns every room keyed by RoomKey. Its topology is fixed at construction;
// only per-room contents and pathway doors change afterwards, each under its room's lock.
type World struct {
	rooms map[RoomKey]*Room
	start RoomKey
}

// NewWorld builds a World from rooms and validates the graph.
//
// Precondition: rooms must not be mutated by the caller afterwards.
// Postcondition: Returns a World whose start room and every pathway target resolve,
// or an error wrapping ErrMalformedWorld or ErrDanglingReference.
func NewWorld(rooms []*Room, start RoomKey) (*World, error) {
	w := &World{
		rooms: make(map[RoomKey]*Room, len(rooms)),
		start: start,
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%w: world must contain at least one room", ErrMalformedWorld)
	}
	for _, r := range rooms {
		if r.Key == "" {
			return nil, fmt.Errorf("%w: room key must not be empty", ErrMalformedWorld)
		}
		if _, exists := w.rooms[r.Key]; exists {
			return nil, fmt.Errorf("%w: duplicate room key %q", ErrMalformedWorld, r.Key)
		}
		w.rooms[r.Key] = r
	}
	if err := w.validateReferences(); err != nil {
		return nil, err
	}
	return w, nil
}

// validateReferences checks the start room and every pathway target.
func (w *World) validateReferences() error {
	if _, ok := w.rooms[w.start]; !ok {
		return fmt.Errorf("%w: curr_room %q is not a room", ErrDanglingReference, w.start)
	}
	for _, key := range w.Keys() {
		room := w.rooms[key]
		for _, word := range room.words {
			target := room.paths[word].Target
			if _, ok := w.rooms[target]; !ok {
				return fmt.Errorf("%w: room %q: pathway %q targets unknown room %q",
					ErrDanglingReference, key, word, target)
			}
		}
	}
	return nil
}

// Start returns the key of the room a new traveler begins in.
func (w *World) Start() RoomKey {
	return w.start
}

// GetRoom returns the room with the given key.
//
// Postcondition: Returns the room, or an error wrapping ErrUnknownRoom.
func (w *World) GetRoom(key RoomKey) (*Room, error) {
	r, ok := w.rooms[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoom, key)
	}
	return r, nil
}

// WithRoom runs fn with exclusive access to one room's pathways, items and allies.
//
// Postcondition: The room's lock is released when WithRoom returns, including when fn
// returns an error or panics. Returns ErrUnknownRoom if key is absent, otherwise fn's error.
func (w *World) WithRoom(key RoomKey, fn func(*Room) error) error {
	r, err := w.GetRoom(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r)
}

// SetPathwayState opens or closes the door on a pathway.
//
// Postcondition: Returns ErrUnknownRoom, ErrUnknownPathway when the word is absent or the
// pathway has no door, ErrAlreadyInState when the door is already in state, or nil.
func (w *World) SetPathwayState(key RoomKey, word string, state Opening) error {
	return w.WithRoom(key, func(r *Room) error {
		return r.SetDoor(word, state)
	})
}

// MutateRoomItems replaces a room's item list with fn's result under the room's lock.
func (w *World) MutateRoomItems(key RoomKey, fn func([]Item) []Item) error {
	return w.WithRoom(key, func(r *Room) error {
		r.SetItems(fn(r.Items()))
		return nil
	})
}

// MutateRoomAllies replaces a room's ally list with fn's result under the room's lock.
func (w *World) MutateRoomAllies(key RoomKey, fn func([]*Ally) []*Ally) error {
	return w.WithRoom(key, func(r *Room) error {
		r.SetAllies(fn(r.Allies()))
		return nil
	})
}

// Keys returns every room key in sorted order.
func (w *World) Keys() []RoomKey {
	keys := make([]RoomKey, 0, len(w.rooms))
	for k := range w.rooms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RoomCount returns the number of rooms.
func (w *World) RoomCount() int {
	return len(w.rooms)
}
