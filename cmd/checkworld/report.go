package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/wanderer/internal/game/command"
	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// writeReport prints every room with its exits, items and allies.
func writeReport(out io.Writer, w *world.World) error {
	fmt.Fprintf(out, "start: %s\nrooms: %d\n", w.Start(), w.RoomCount())
	for _, key := range w.Keys() {
		err := w.WithRoom(key, func(r *world.Room) error {
			fmt.Fprintf(out, "\n[%s] %s\n", r.Key, r.Name)
			for _, word := range r.Words() {
				p, _ := r.Pathway(word)
				fmt.Fprintf(out, "  exit %-10s -> %s", word, p.Target)
				if p.Door != world.NoDoor {
					fmt.Fprintf(out, " (door %s)", p.Door)
				}
				fmt.Fprintln(out)
			}
			writeItems(out, r.Items(), 1)
			for _, a := range r.Allies() {
				fmt.Fprintf(out, "  ally %s (hp %d)\n", a.Name, a.HP)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("reporting %s: %w", key, err)
		}
	}
	return nil
}

func writeItems(out io.Writer, items []world.Item, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, it := range items {
		fmt.Fprintf(out, "%sitem %s [%s]", pad, it.DisplayName(), it.Kind())
		switch v := it.(type) {
		case *world.Weapon:
			fmt.Fprintf(out, " damage %d", v.Damage)
		case *world.Armor:
			fmt.Fprintf(out, " ac %d", v.AC)
		case *world.Container:
			fmt.Fprintf(out, " %s", v.Opening)
		}
		fmt.Fprintln(out)
		if c, ok := it.(*world.Container); ok {
			writeItems(out, c.Contents, depth+1)
		}
	}
}

// writeReplay prints each replayed line and its outcome.
//
// Postcondition: Returns the number of refused commands.
func writeReplay(out io.Writer, outcomes []command.Outcome) int {
	refused := 0
	fmt.Fprintln(out)
	for _, o := range outcomes {
		fmt.Fprintf(out, "> %s\n", o.Line)
		if o.Err != nil {
			refused++
			fmt.Fprintf(out, "  ! %s\n", command.Narrate(o.Err))
			continue
		}
		for _, line := range describe(o.Result) {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	fmt.Fprintf(out, "\n%d commands, %d refused\n", len(outcomes), refused)
	return refused
}

// describe summarizes a result as plain lines.
func describe(res command.Result) []string {
	switch {
	case res.Room != nil:
		return describeRoom(res.Room)
	case res.Inventory != nil:
		names := make([]string, len(res.Inventory.Items))
		for i, it := range res.Inventory.Items {
			names[i] = it.Name
		}
		return []string{
			"carrying: " + orNone(names),
			fmt.Sprintf("weapon: %s, armor: %s", orNone([]string{res.Inventory.Weapon}), orNone([]string{res.Inventory.Armor})),
		}
	case res.Help != nil:
		return []string{fmt.Sprintf("%d commands", len(res.Help))}
	case res.Narration != "":
		return []string{res.Narration}
	}
	return nil
}

func describeRoom(s *engine.RoomSnapshot) []string {
	return []string{
		s.Name,
		"exits: " + orNone(s.ExitWords()),
		"items: " + orNone(s.ItemNames()),
		"allies: " + orNone(s.AllyNames()),
	}
}

func orNone(names []string) string {
	joined := strings.Join(names, ", ")
	if strings.Trim(joined, ", ") == "" {
		return "none"
	}
	return joined
}
