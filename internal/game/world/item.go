package world

import (
	"fmt"
	"strings"
)

// Opening is the state of a door or a container lid.
type Opening string

// Opening states.
const (
	Open   Opening = "open"
	Closed Opening = "closed"
)

// ParseOpening converts a content value such as "Closed" into an Opening.
//
// Postcondition: Returns (opening, nil) for "open" or "closed" in any case, or an error otherwise.
func ParseOpening(s string) (Opening, error) {
	switch Opening(strings.ToLower(strings.TrimSpace(s))) {
	case Open:
		return Open, nil
	case Closed:
		return Closed, nil
	default:
		return "", fmt.Errorf("opening must be Open or Closed, got %q", s)
	}
}

// String returns the lowercase opening name.
func (o Opening) String() string { return string(o) }

// ItemKind names the variant of an Item.
type ItemKind string

// Item variants.
const (
	KindWeapon    ItemKind = "weapon"
	KindArmor     ItemKind = "armor"
	KindThing     ItemKind = "thing"
	KindContainer ItemKind = "container"
)

// Item is a piece of content that can lie in a room, sit in a container, or be carried.
// The set of implementations is closed: *Weapon, *Armor, *Thing and *Container.
type Item interface {
	DisplayName() string
	Description() string
	Inspection() string
	Kind() ItemKind
	// Accept calls the visitor method matching the item's variant.
	Accept(v ItemVisitor)
	sealed()
}

// ItemVisitor handles every Item variant. Adding a variant adds a method here,
// so every visitor stops compiling until it handles the new kind.
type ItemVisitor interface {
	VisitWeapon(w *Weapon)
	VisitArmor(a *Armor)
	VisitThing(t *Thing)
	VisitContainer(c *Container)
}

// Info holds the text every item and ally carries.
type Info struct {
	// Name is the display key used to refer to the entity.
	Name string
	// Desc is the line shown when the entity is listed in a room.
	Desc string
	// Inspect is the detail text shown on examine. May be empty.
	Inspect string
}

// DisplayName returns the entity's display name.
func (i Info) DisplayName() string { return i.Name }

// Description returns the room-listing text.
func (i Info) Description() string { return i.Desc }

// Inspection returns the examine text.
func (i Info) Inspection() string { return i.Inspect }

// Weapon is an item that deals damage.
type Weapon struct {
	Info
	// Damage is non-negative.
	Damage int
}

// Armor is an item that can be worn for protection.
type Armor struct {
	Info
	// AC is the non-negative armor class.
	AC int
}

// Thing is an item with no behavior beyond its text.
type Thing struct {
	Info
}

// Container is an item that holds other items behind its own lid.
type Container struct {
	Info
	Opening Opening
	// Contents is in insertion order, which is also reveal order.
	Contents []Item
}

func (*Weapon) Kind() ItemKind    { return KindWeapon }
func (*Armor) Kind() ItemKind     { return KindArmor }
func (*Thing) Kind() ItemKind     { return KindThing }
func (*Container) Kind() ItemKind { return KindContainer }

func (w *Weapon) Accept(v ItemVisitor)    { v.VisitWeapon(w) }
func (a *Armor) Accept(v ItemVisitor)     { v.VisitArmor(a) }
func (t *Thing) Accept(v ItemVisitor)     { v.VisitThing(t) }
func (c *Container) Accept(v ItemVisitor) { v.VisitContainer(c) }

func (*Weapon) sealed()    {}
func (*Armor) sealed()     {}
func (*Thing) sealed()     {}
func (*Container) sealed() {}

// IsOpen reports whether the container's contents are reachable.
func (c *Container) IsOpen() bool { return c.Opening == Open }

// Holds reports whether item is c itself or anywhere in c's content tree.
func (c *Container) Holds(item Item) bool {
	if Item(c) == item {
		return true
	}
	for _, it := range c.Contents {
		if it == item {
			return true
		}
		if inner, ok := it.(*Container); ok && inner.Holds(item) {
			return true
		}
	}
	return false
}

// RemoveItem removes target from items by identity.
//
// Postcondition: Returns the shortened slice and true, or items unchanged and false.
func RemoveItem(items []Item, target Item) ([]Item, bool) {
	for i, it := range items {
		if it == target {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}

// NameMatches reports whether a display name matches what the traveler typed.
func NameMatches(name, query string) bool {
	return strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(query))
}
