package engine

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// placement records where a matched item lives so it can be detached.
type placement struct {
	item world.Item
	// parent is the container holding item, or nil for a top-level item.
	parent *world.Container
	// carried is true when the item is in the traveler's inventory tree.
	carried bool
	// sealed is true when reaching the item requires passing a closed container.
	sealed bool
}

// collectItems walks an item tree depth-first in content order and records every
// item whose display name matches name. An empty name matches everything.
func collectItems(items []world.Item, name string, parent *world.Container, carried, sealed bool, out []placement) []placement {
	for _, it := range items {
		if name == "" || world.NameMatches(it.DisplayName(), name) {
			out = append(out, placement{item: it, parent: parent, carried: carried, sealed: sealed})
		}
		if c, ok := it.(*world.Container); ok {
			out = collectItems(c.Contents, name, c, carried, sealed || !c.IsOpen(), out)
		}
	}
	return out
}

// visibleItems returns matches in the room and the inventory, split by whether a
// closed container hides them.
//
// Precondition: the caller holds room.
func (e *Engine) visibleItems(room *world.Room, name string) (visible, hidden []placement) {
	all := collectItems(room.Items(), name, nil, false, false, nil)
	all = collectItems(e.sess.Items(), name, nil, true, false, all)
	for _, p := range all {
		if p.sealed {
			hidden = append(hidden, p)
		} else {
			visible = append(visible, p)
		}
	}
	return visible, hidden
}

// detach removes a matched item from wherever it lives.
//
// Precondition: the caller holds room.
func (e *Engine) detach(room *world.Room, p placement) {
	switch {
	case p.parent != nil:
		p.parent.Contents, _ = world.RemoveItem(p.parent.Contents, p.item)
	case p.carried:
		e.sess.Remove(p.item)
	default:
		rest, _ := world.RemoveItem(room.Items(), p.item)
		room.SetItems(rest)
	}
}

// findCarried returns the single top-level inventory item named name.
func (e *Engine) findCarried(name string) (world.Item, error) {
	var matches []world.Item
	for _, it := range e.sess.Items() {
		if world.NameMatches(it.DisplayName(), name) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: you do not have the %q", world.ErrNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: you carry %d things called %q", world.ErrAmbiguous, len(matches), name)
	}
}

// findAlly returns the single ally in room named name.
//
// Precondition: the caller holds room.
func findAlly(room *world.Room, name string) (*world.Ally, error) {
	var matches []*world.Ally
	for _, a := range room.Allies() {
		if world.NameMatches(a.Name, name) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: there is no %q here", world.ErrNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %d allies here are called %q", world.ErrAmbiguous, len(matches), name)
	}
}

// findWord returns the pathway command word in room matching word, preferring an exact match.
//
// Precondition: the caller holds room.
func findWord(room *world.Room, word string) (string, bool) {
	if _, ok := room.Pathway(word); ok {
		return word, true
	}
	for _, w := range room.Words() {
		if strings.EqualFold(w, strings.TrimSpace(word)) {
			return w, true
		}
	}
	return "", false
}

// single narrows visible matches to exactly one.
func single(matches []placement, name string) (placement, error) {
	switch len(matches) {
	case 0:
		return placement{}, fmt.Errorf("%w: there is no %q here", world.ErrNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return placement{}, fmt.Errorf("%w: %d things here are called %q", world.ErrAmbiguous, len(matches), name)
	}
}

// containers keeps only matches that are containers.
func containers(matches []placement) []placement {
	var out []placement
	for _, p := range matches {
		if _, ok := p.item.(*world.Container); ok {
			out = append(out, p)
		}
	}
	return out
}
