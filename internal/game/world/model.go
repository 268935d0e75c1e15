// Package world provides the game world model: rooms, pathways, items, allies,
// and the room graph that owns them.
package world

import (
	"fmt"
	"sync"
)

// RoomKey uniquely identifies a room. It is distinct from the room's display name,
// which need not be unique.
type RoomKey string

// Door is the optional door on a pathway. The zero value is NoDoor.
type Door uint8

// Door states.
const (
	// NoDoor means the pathway is always traversable and cannot be opened or closed.
	NoDoor Door = iota
	DoorOpen
	DoorClosed
)

// DoorFor returns the door state matching an opening.
func DoorFor(o Opening) Door {
	if o == Closed {
		return DoorClosed
	}
	return DoorOpen
}

// Opening returns the door's opening state.
//
// Postcondition: Returns ("", false) for NoDoor.
func (d Door) Opening() (Opening, bool) {
	switch d {
	case DoorOpen:
		return Open, true
	case DoorClosed:
		return Closed, true
	default:
		return "", false
	}
}

// Blocks reports whether the door prevents traversal.
func (d Door) Blocks() bool { return d == DoorClosed }

// String returns "none", "open" or "closed".
func (d Door) String() string {
	if o, ok := d.Opening(); ok {
		return o.String()
	}
	return "none"
}

// MarshalText encodes the door as its String form.
func (d Door) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes "none", "open" or "closed".
func (d *Door) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*d = NoDoor
	case "open":
		*d = DoorOpen
	case "closed":
		*d = DoorClosed
	default:
		return fmt.Errorf("unknown door state %q", b)
	}
	return nil
}

// Pathway is a directed, named edge from its owning room to Target.
type Pathway struct {
	// Target is the key of the destination room.
	Target RoomKey
	// Desc is shown when listing exits. May be empty.
	Desc string
	// Inspect is shown on examine. May be empty.
	Inspect string
	// Door gates traversal when closed.
	Door Door
}

// Ally is a stationary non-player character.
type Ally struct {
	Info
	// HP reaching zero means the ally is defeated and leaves the room.
	HP int
}

// Defeated reports whether the ally has no hit points left.
func (a *Ally) Defeated() bool {
	return a.HP <= 0
}

// Room is a node in the world graph.
//
// Its pathways, items and allies are guarded by the room's lock; access them only
// inside World.WithRoom or before the room is added to a World.
type Room struct {
	// Key is the unique room identifier.
	Key RoomKey
	// Name is the display name.
	Name string
	// Desc is the room description.
	Desc string

	mu     sync.Mutex
	words  []string
	paths  map[string]*Pathway
	items  []Item
	allies []*Ally
}

// NewRoom creates an empty room.
//
// Precondition: key must be non-empty.
// Postcondition: Returns a room with no pathways, items or allies.
func NewRoom(key RoomKey, name, desc string) *Room {
	return &Room{
		Key:   key,
		Name:  name,
		Desc:  desc,
		paths: make(map[string]*Pathway),
	}
}

// AddPathway registers a pathway under a command word. Words keep insertion order.
//
// Precondition: word must be non-empty and p non-nil.
// Postcondition: Returns an error if the word is already used in this room.
func (r *Room) AddPathway(word string, p *Pathway) error {
	if _, exists := r.paths[word]; exists {
		return fmt.Errorf("room %q: duplicate pathway %q", r.Key, word)
	}
	r.words = append(r.words, word)
	r.paths[word] = p
	return nil
}

// Pathway returns the pathway registered under word.
func (r *Room) Pathway(word string) (*Pathway, bool) {
	p, ok := r.paths[word]
	return p, ok
}

// SetDoor opens or closes the door on the pathway registered under word.
//
// Precondition: the caller holds the room via World.WithRoom.
// Postcondition: Returns ErrUnknownPathway when the word is absent or the pathway has
// no door, ErrAlreadyInState when the door is already in state, or nil.
func (r *Room) SetDoor(word string, state Opening) error {
	p, ok := r.paths[word]
	if !ok {
		return fmt.Errorf("%w: room %q has no pathway %q", ErrUnknownPathway, r.Key, word)
	}
	current, hasDoor := p.Door.Opening()
	if !hasDoor {
		return fmt.Errorf("%w: pathway %q has nothing to %s", ErrUnknownPathway, word, verbFor(state))
	}
	if current == state {
		return fmt.Errorf("%w: the %s is already %s", ErrAlreadyInState, word, state)
	}
	p.Door = DoorFor(state)
	return nil
}

func verbFor(state Opening) string {
	if state == Closed {
		return "close"
	}
	return "open"
}

// Words returns the room's pathway command words in content order.
//
// Postcondition: Returns a copy.
func (r *Room) Words() []string {
	out := make([]string, len(r.words))
	copy(out, r.words)
	return out
}

// Items returns the room's item list. The slice must not be retained past the
// enclosing WithRoom call.
func (r *Room) Items() []Item { return r.items }

// SetItems replaces the room's item list.
func (r *Room) SetItems(items []Item) { r.items = items }

// AddItem appends an item to the room.
func (r *Room) AddItem(item Item) { r.items = append(r.items, item) }

// Allies returns the room's ally list. The slice must not be retained past the
// enclosing WithRoom call.
func (r *Room) Allies() []*Ally { return r.allies }

// SetAllies replaces the room's ally list.
func (r *Room) SetAllies(allies []*Ally) { r.allies = allies }

// AddAlly appends an ally to the room.
func (r *Room) AddAlly(a *Ally) { r.allies = append(r.allies, a) }
