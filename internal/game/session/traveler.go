// Package session holds the per-traveler mutable state and tracks active sessions.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// Session is the mutable record of one traveler: where they stand, what they carry,
// and what they have equipped. Equipped items are always members of the inventory.
//
// A Session is not safe for concurrent use; the engine serializes access.
type Session struct {
	// ID uniquely identifies the session.
	ID string
	// Room is the key of the room the traveler occupies.
	Room world.RoomKey

	capacity  int
	inventory []world.Item
	weapon    *world.Weapon
	armor     *world.Armor
}

// New creates a session standing in start with an empty inventory.
//
// Precondition: capacity >= 0; zero means unlimited.
// Postcondition: Returns a session with a fresh random ID.
func New(start world.RoomKey, capacity int) *Session {
	return &Session{
		ID:       uuid.New().String(),
		Room:     start,
		capacity: capacity,
	}
}

// Capacity returns the inventory limit, or zero for unlimited.
func (s *Session) Capacity() int {
	return s.capacity
}

// CanCarry reports whether one more item fits in the inventory.
func (s *Session) CanCarry() bool {
	return s.capacity <= 0 || len(s.inventory) < s.capacity
}

// Add appends an item to the inventory.
//
// Postcondition: Returns an error wrapping world.ErrInventoryFull and leaves the
// inventory unchanged if the capacity is reached.
func (s *Session) Add(item world.Item) error {
	if !s.CanCarry() {
		return fmt.Errorf("%w: cannot carry more than %d items", world.ErrInventoryFull, s.capacity)
	}
	s.inventory = append(s.inventory, item)
	return nil
}

// Remove takes an item out of the inventory by identity. An equipped item is unequipped.
//
// Postcondition: Returns false if the item is not carried.
func (s *Session) Remove(item world.Item) bool {
	rest, ok := world.RemoveItem(s.inventory, item)
	if !ok {
		return false
	}
	s.inventory = rest
	if s.weapon != nil && world.Item(s.weapon) == item {
		s.weapon = nil
	}
	if s.armor != nil && world.Item(s.armor) == item {
		s.armor = nil
	}
	return true
}

// Carries reports whether item is a top-level inventory member.
func (s *Session) Carries(item world.Item) bool {
	for _, it := range s.inventory {
		if it == item {
			return true
		}
	}
	return false
}

// Items returns the inventory in pickup order.
//
// Postcondition: Returns a copy; the items themselves are shared.
func (s *Session) Items() []world.Item {
	out := make([]world.Item, len(s.inventory))
	copy(out, s.inventory)
	return out
}

// Equip makes a carried weapon or armor the active one for its slot.
//
// Postcondition: Returns world.ErrNotFound if item is not carried, or
// world.ErrNotEquippable for things and containers.
func (s *Session) Equip(item world.Item) error {
	if !s.Carries(item) {
		return fmt.Errorf("%w: you are not carrying the %s", world.ErrNotFound, item.DisplayName())
	}
	switch it := item.(type) {
	case *world.Weapon:
		s.weapon = it
	case *world.Armor:
		s.armor = it
	case *world.Thing, *world.Container:
		return fmt.Errorf("%w: the %s cannot be equipped", world.ErrNotEquippable, item.DisplayName())
	}
	return nil
}

// Weapon returns the equipped weapon, or nil.
func (s *Session) Weapon() *world.Weapon {
	return s.weapon
}

// Armor returns the equipped armor, or nil.
func (s *Session) Armor() *world.Armor {
	return s.armor
}
