package engine

import "github.com/cory-johannsen/wanderer/internal/game/world"

// ExitView describes one pathway out of a room.
type ExitView struct {
	Word string     `json:"word"`
	Desc string     `json:"desc,omitempty"`
	Door world.Door `json:"door"`
}

// ItemView describes one item. Contents is filled only for open containers.
type ItemView struct {
	Name string         `json:"name"`
	Desc string         `json:"desc,omitempty"`
	Kind world.ItemKind `json:"kind"`
	// Closed is set for closed containers.
	Closed   bool       `json:"closed,omitempty"`
	Contents []ItemView `json:"contents,omitempty"`
}

// AllyView describes one ally.
type AllyView struct {
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
}

// RoomSnapshot is everything a presentation layer needs to draw a room.
type RoomSnapshot struct {
	Key    world.RoomKey `json:"key"`
	Name   string        `json:"name"`
	Desc   string        `json:"desc"`
	Exits  []ExitView    `json:"exits"`
	Items  []ItemView    `json:"items"`
	Allies []AllyView    `json:"allies"`
}

// ItemNames returns the display names of the room's top-level items.
func (s *RoomSnapshot) ItemNames() []string {
	names := make([]string, len(s.Items))
	for i, it := range s.Items {
		names[i] = it.Name
	}
	return names
}

// AllyNames returns the display names of the room's allies.
func (s *RoomSnapshot) AllyNames() []string {
	names := make([]string, len(s.Allies))
	for i, a := range s.Allies {
		names[i] = a.Name
	}
	return names
}

// ExitWords returns the room's pathway command words in content order.
func (s *RoomSnapshot) ExitWords() []string {
	words := make([]string, len(s.Exits))
	for i, ex := range s.Exits {
		words[i] = ex.Word
	}
	return words
}

// InventoryView lists what the traveler carries and has equipped.
type InventoryView struct {
	Items []ItemView
	// Weapon and Armor are the equipped display names, or empty.
	Weapon string
	Armor  string
}

// AttackResult reports the outcome of one attack.
type AttackResult struct {
	Ally     string
	Weapon   string
	Damage   int
	HP       int
	Defeated bool
}

// snapshotRoom captures a room's visible state.
//
// Precondition: the caller holds room.
func snapshotRoom(room *world.Room) *RoomSnapshot {
	snap := &RoomSnapshot{
		Key:  room.Key,
		Name: room.Name,
		Desc: room.Desc,
	}
	for _, word := range room.Words() {
		p, _ := room.Pathway(word)
		snap.Exits = append(snap.Exits, ExitView{Word: word, Desc: p.Desc, Door: p.Door})
	}
	snap.Items = viewItems(room.Items())
	for _, a := range room.Allies() {
		snap.Allies = append(snap.Allies, AllyView{Name: a.Name, Desc: a.Desc})
	}
	return snap
}

func viewItems(items []world.Item) []ItemView {
	var out []ItemView
	for _, it := range items {
		v := ItemView{Name: it.DisplayName(), Desc: it.Description(), Kind: it.Kind()}
		if c, ok := it.(*world.Container); ok {
			v.Closed = !c.IsOpen()
			if !v.Closed {
				v.Contents = viewItems(c.Contents)
			}
		}
		out = append(out, v)
	}
	return out
}
