package engine

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// TargetKind restricts what Inspect may match.
type TargetKind int

// Inspectable kinds.
const (
	TargetAny TargetKind = iota
	TargetRoom
	TargetPathway
	TargetItem
	TargetAlly
)

var targetKindNames = map[string]TargetKind{
	"room":    TargetRoom,
	"pathway": TargetPathway,
	"path":    TargetPathway,
	"exit":    TargetPathway,
	"item":    TargetItem,
	"ally":    TargetAlly,
}

// ParseTargetKind maps a word such as "exit" or "ally" to a TargetKind.
func ParseTargetKind(s string) (TargetKind, bool) {
	k, ok := targetKindNames[strings.ToLower(s)]
	return k, ok
}

func (k TargetKind) String() string {
	switch k {
	case TargetRoom:
		return "room"
	case TargetPathway:
		return "pathway"
	case TargetItem:
		return "item"
	case TargetAlly:
		return "ally"
	default:
		return "any"
	}
}

var selfNames = map[string]bool{"me": true, "self": true, "myself": true}

// Inspect returns the inspect text of the one visible entity called name.
// Visible means the current room, its pathways, its allies, and items in the room or
// the inventory that are not behind a closed container.
//
// Postcondition: Returns world.ErrNotFound when nothing matches and world.ErrAmbiguous
// when more than one entity matches. Empty inspect text is returned as "" with a nil error.
func (e *Engine) Inspect(kind TargetKind, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	text, err := e.inspect(kind, name)
	e.trace("inspect", name, err)
	return text, err
}

func (e *Engine) inspect(kind TargetKind, name string) (string, error) {
	if kind == TargetAny && selfNames[strings.ToLower(strings.TrimSpace(name))] {
		return e.status(), nil
	}

	type candidate struct {
		kind TargetKind
		text string
	}
	var found []candidate
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		want := func(k TargetKind) bool { return kind == TargetAny || kind == k }

		if want(TargetRoom) {
			lower := strings.ToLower(strings.TrimSpace(name))
			if lower == "here" || lower == "room" || world.NameMatches(r.Name, name) {
				found = append(found, candidate{TargetRoom, r.Desc})
			}
		}
		if want(TargetPathway) {
			if w, ok := findWord(r, name); ok {
				p, _ := r.Pathway(w)
				found = append(found, candidate{TargetPathway, p.Inspect})
			}
		}
		if want(TargetItem) {
			visible, _ := e.visibleItems(r, name)
			for _, p := range visible {
				found = append(found, candidate{TargetItem, p.item.Inspection()})
			}
		}
		if want(TargetAlly) {
			for _, a := range r.Allies() {
				if world.NameMatches(a.Name, name) {
					found = append(found, candidate{TargetAlly, a.Inspect})
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: there is no %q here", world.ErrNotFound, name)
	case 1:
		return found[0].text, nil
	default:
		kinds := make([]string, len(found))
		for i, c := range found {
			kinds[i] = c.kind.String()
		}
		return "", fmt.Errorf("%w: %q could mean %s", world.ErrAmbiguous, name, strings.Join(kinds, ", "))
	}
}

func (e *Engine) status() string {
	weapon, armor := "none", "none"
	if w := e.sess.Weapon(); w != nil {
		weapon = w.Name
	}
	if a := e.sess.Armor(); a != nil {
		armor = fmt.Sprintf("%s (ac %d)", a.Name, a.AC)
	}
	return fmt.Sprintf("You carry %d items. Weapon: %s. Armor: %s.", len(e.sess.Items()), weapon, armor)
}

// Take moves the item called name from the room, or from an open container in reach,
// into the inventory.
//
// Postcondition: Returns world.ErrContainerClosed when every match is behind a closed
// container, world.ErrNotFound, world.ErrAmbiguous or world.ErrInventoryFull; nothing
// moves on error.
func (e *Engine) Take(name string) (world.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var taken world.Item
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		visible, hidden := e.visibleItems(r, name)
		item, err := e.pickUp(r, notCarried(visible), notCarried(hidden), name)
		taken = item
		return err
	})
	e.trace("take", name, err)
	return taken, err
}

// TakeAll moves every item lying in the current room into the inventory, in room order.
// Items inside containers stay where they are.
//
// Postcondition: Returns world.ErrNotFound when the room holds no items and
// world.ErrInventoryFull when they would not all fit; nothing moves on error.
func (e *Engine) TakeAll() ([]world.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var taken []world.Item
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		items := r.Items()
		if len(items) == 0 {
			return fmt.Errorf("%w: there is nothing here to take", world.ErrNotFound)
		}
		if c := e.sess.Capacity(); c > 0 && len(e.sess.Items())+len(items) > c {
			return fmt.Errorf("%w: you cannot carry all of that", world.ErrInventoryFull)
		}
		taken = append([]world.Item(nil), items...)
		r.SetItems(nil)
		for _, item := range taken {
			if err := e.sess.Add(item); err != nil {
				return err
			}
		}
		return nil
	})
	e.trace("take", "all", err)
	if err != nil {
		return nil, err
	}
	return taken, nil
}

// TakeFrom moves the item called name out of the container called from.
//
// Postcondition: Returns world.ErrContainerClosed if the container is closed, otherwise
// the same errors as Take.
func (e *Engine) TakeFrom(name, from string) (world.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var taken world.Item
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		c, p, err := e.reachContainer(r, from)
		if err != nil {
			return err
		}
		if !c.IsOpen() {
			return fmt.Errorf("%w: the %s is closed", world.ErrContainerClosed, c.Name)
		}
		var visible, hidden []placement
		for _, m := range collectItems(c.Contents, name, c, p.carried, false, nil) {
			if m.sealed {
				hidden = append(hidden, m)
			} else {
				visible = append(visible, m)
			}
		}
		item, err := e.pickUp(r, visible, hidden, name)
		taken = item
		return err
	})
	e.trace("take", name, err)
	return taken, err
}

// pickUp selects exactly one reachable match and moves it into the inventory.
//
// Precondition: the caller holds room.
func (e *Engine) pickUp(room *world.Room, visible, hidden []placement, name string) (world.Item, error) {
	if len(visible) == 0 && len(hidden) > 0 {
		return nil, fmt.Errorf("%w: the %s is inside something closed", world.ErrContainerClosed, name)
	}
	p, err := single(visible, name)
	if err != nil {
		return nil, err
	}
	if !e.sess.CanCarry() {
		return nil, fmt.Errorf("%w: you cannot carry any more", world.ErrInventoryFull)
	}
	e.detach(room, p)
	if err := e.sess.Add(p.item); err != nil {
		return nil, err
	}
	return p.item, nil
}

// notCarried drops matches that are already top-level inventory items.
func notCarried(matches []placement) []placement {
	var out []placement
	for _, p := range matches {
		if p.carried && p.parent == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// reachContainer resolves a container that is visible from the current room.
//
// Precondition: the caller holds room.
func (e *Engine) reachContainer(room *world.Room, name string) (*world.Container, placement, error) {
	visible, hidden := e.visibleItems(room, name)
	cs := containers(visible)
	if len(cs) == 0 {
		if len(containers(hidden)) > 0 {
			return nil, placement{}, fmt.Errorf("%w: the %s is inside something closed", world.ErrContainerClosed, name)
		}
		return nil, placement{}, fmt.Errorf("%w: there is no container %q here", world.ErrNotFound, name)
	}
	p, err := single(cs, name)
	if err != nil {
		return nil, placement{}, err
	}
	return p.item.(*world.Container), p, nil
}

// Open opens the pathway door or container called name.
//
// Postcondition: Returns world.ErrAlreadyInState if it is already open (state unchanged),
// world.ErrUnknownPathway for a pathway without a door, world.ErrContainerClosed when the
// only match is inside a closed container, world.ErrNotFound, or world.ErrAmbiguous when
// both a pathway and a container answer to name.
func (e *Engine) Open(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.setOpening(name, world.Open)
	e.trace("open", name, err)
	return err
}

// Close closes the pathway door or container called name. Errors mirror Open.
func (e *Engine) Close(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.setOpening(name, world.Closed)
	e.trace("close", name, err)
	return err
}

func (e *Engine) setOpening(name string, state world.Opening) error {
	return e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		word, isPath := findWord(r, name)
		visible, hidden := e.visibleItems(r, name)
		cs := containers(visible)

		switch {
		case isPath && len(cs) > 0:
			return fmt.Errorf("%w: %q is both an exit and a container", world.ErrAmbiguous, name)
		case isPath:
			return r.SetDoor(word, state)
		case len(cs) == 0 && len(containers(hidden)) > 0:
			return fmt.Errorf("%w: the %s is inside something closed", world.ErrContainerClosed, name)
		case len(cs) == 0:
			return fmt.Errorf("%w: there is nothing called %q to %s here", world.ErrNotFound, name, verb(state))
		}

		p, err := single(cs, name)
		if err != nil {
			return err
		}
		c := p.item.(*world.Container)
		if c.Opening == state {
			return fmt.Errorf("%w: the %s is already %s", world.ErrAlreadyInState, c.Name, state)
		}
		c.Opening = state
		return nil
	})
}

func verb(state world.Opening) string {
	if state == world.Closed {
		return "close"
	}
	return "open"
}

// Put moves a carried item into an open container in reach.
//
// Postcondition: Returns world.ErrContainerClosed if the container is closed,
// world.ErrContainment when the item is the container or holds it, world.ErrNotFound or
// world.ErrAmbiguous; nothing moves on error.
func (e *Engine) Put(itemName, containerName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		item, err := e.findCarried(itemName)
		if err != nil {
			return err
		}
		c, _, err := e.reachContainer(r, containerName)
		if err != nil {
			return err
		}
		if held, ok := item.(*world.Container); ok && held.Holds(c) {
			return fmt.Errorf("%w: the %s cannot go inside itself", world.ErrContainment, held.Name)
		}
		if !c.IsOpen() {
			return fmt.Errorf("%w: the %s is closed", world.ErrContainerClosed, c.Name)
		}
		e.sess.Remove(item)
		c.Contents = append(c.Contents, item)
		return nil
	})
	e.trace("put", itemName, err)
	return err
}

// Drop moves a carried item onto the floor of the current room.
func (e *Engine) Drop(name string) (world.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var dropped world.Item
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		item, err := e.findCarried(name)
		if err != nil {
			return err
		}
		e.sess.Remove(item)
		r.AddItem(item)
		dropped = item
		return nil
	})
	e.trace("drop", name, err)
	return dropped, err
}

// Equip readies a carried weapon or armor.
//
// Postcondition: Returns world.ErrNotEquippable for things and containers.
func (e *Engine) Equip(name string) (world.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.findCarried(name)
	if err == nil {
		err = e.sess.Equip(item)
	}
	e.trace("equip", name, err)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Inventory lists what the traveler carries.
func (e *Engine) Inventory() InventoryView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := InventoryView{Items: viewItems(e.sess.Items())}
	if w := e.sess.Weapon(); w != nil {
		view.Weapon = w.Name
	}
	if a := e.sess.Armor(); a != nil {
		view.Armor = a.Name
	}
	return view
}

// Attack strikes the ally called allyName. The weapon is the carried weapon called
// weaponName, or the equipped weapon when weaponName is empty. Damage comes from the
// engine's Resolver; an ally whose HP reaches zero is removed from the room.
//
// Postcondition: Returns world.ErrNotFound when the ally or weapon is missing,
// world.ErrNotEquippable when the named item is not a weapon.
func (e *Engine) Attack(allyName, weaponName string) (*AttackResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res *AttackResult
	err := e.world.WithRoom(e.sess.Room, func(r *world.Room) error {
		weapon, err := e.pickWeapon(weaponName)
		if err != nil {
			return err
		}
		ally, err := findAlly(r, allyName)
		if err != nil {
			return err
		}
		dmg := e.resolver.ResolveAttack(ally, weapon)
		if dmg < 0 {
			dmg = 0
		}
		ally.HP -= dmg
		res = &AttackResult{
			Ally:     ally.Name,
			Weapon:   weapon.Name,
			Damage:   dmg,
			HP:       ally.HP,
			Defeated: ally.Defeated(),
		}
		if ally.Defeated() {
			remaining := make([]*world.Ally, 0, len(r.Allies()))
			for _, a := range r.Allies() {
				if a != ally {
					remaining = append(remaining, a)
				}
			}
			r.SetAllies(remaining)
		}
		return nil
	})
	e.trace("attack", allyName, err)
	return res, err
}

func (e *Engine) pickWeapon(name string) (*world.Weapon, error) {
	if strings.TrimSpace(name) == "" {
		if w := e.sess.Weapon(); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("%w: you have no weapon equipped", world.ErrNotFound)
	}
	item, err := e.findCarried(name)
	if err != nil {
		return nil, err
	}
	w, ok := item.(*world.Weapon)
	if !ok {
		return nil, fmt.Errorf("%w: the %s is not a weapon", world.ErrNotEquippable, item.DisplayName())
	}
	return w, nil
}
