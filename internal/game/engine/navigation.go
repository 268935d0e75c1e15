package engine

import (
	"fmt"

	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// Move walks the pathway registered under word in the current room.
//
// Postcondition: On success the session stands in the pathway's target and the target's
// snapshot is returned. Returns world.ErrNoSuchExit if the room has no such pathway and
// world.ErrPathBlocked if its door is closed; the session does not move on error.
func (e *Engine) Move(word string) (*RoomSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.move(word)
	e.trace("move", word, err)
	return snap, err
}

func (e *Engine) move(word string) (*RoomSnapshot, error) {
	var target world.RoomKey
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		w, ok := findWord(r, word)
		if !ok {
			return fmt.Errorf("%w: you cannot go %q", world.ErrNoSuchExit, word)
		}
		p, _ := r.Pathway(w)
		if p.Door.Blocks() {
			return fmt.Errorf("%w: the %s is closed", world.ErrPathBlocked, w)
		}
		target = p.Target
		return nil
	})
	if err != nil {
		return nil, err
	}

	snap, err := e.snapshot(target)
	if err != nil {
		return nil, err
	}
	e.sess.Room = target
	return snap, nil
}

// Look returns a snapshot of the current room.
func (e *Engine) Look() (*RoomSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(e.sess.Room)
}

// Snapshot is the render callback: the current room's name, description, exits,
// items and allies.
func (e *Engine) Snapshot() (*RoomSnapshot, error) {
	return e.Look()
}

func (e *Engine) snapshot(key world.RoomKey) (*RoomSnapshot, error) {
	return SnapshotRoom(e.world, key)
}

// SnapshotRoom captures any room of w without a traveler.
//
// Postcondition: Returns world.ErrUnknownRoom for a key not in w.
func SnapshotRoom(w *world.World, key world.RoomKey) (*RoomSnapshot, error) {
	var snap *RoomSnapshot
	err := w.WithRoom(key, func(r *world.Room) error {
		snap = snapshotRoom(r)
		return nil
	})
	return snap, err
}
