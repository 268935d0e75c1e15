package handlers

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cory-johannsen/wanderer/internal/frontend/telnet"
	"github.com/cory-johannsen/wanderer/internal/game/command"
	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// minWidth is the narrowest column the renderer wraps prose to.
const minWidth = 20

var prompt = telnet.Colorize(telnet.BrightCyan, "> ")

// Renderer formats engine output as colored Telnet text wrapped to a terminal width.
// Lines are separated by CRLF.
type Renderer struct {
	width int
	title cases.Caser
}

// NewRenderer creates a Renderer that wraps prose at width columns.
//
// Postcondition: widths below 20 are raised to 20.
func NewRenderer(width int) *Renderer {
	if width < minWidth {
		width = minWidth
	}
	return &Renderer{width: width, title: cases.Title(language.English)}
}

// Width returns the wrap column.
func (r *Renderer) Width() int {
	return r.width
}

// Result formats one successful command result.
//
// Postcondition: Returns "" for an empty result.
func (r *Renderer) Result(res command.Result) string {
	switch {
	case res.Room != nil:
		return r.Room(res.Room)
	case res.Inventory != nil:
		return r.Inventory(res.Inventory)
	case res.Help != nil:
		return r.Help(res.Help)
	case res.Attack != nil:
		return r.Attack(res.Attack, res.Narration)
	}
	return r.Narration(res.Narration)
}

// Room formats a room snapshot: title, description, exits, items and allies, all
// wrapped to the renderer width.
//
// Precondition: s must be non-nil.
func (r *Renderer) Room(s *engine.RoomSnapshot) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(telnet.Colorize(telnet.BrightYellow, r.title.String(s.Name)))
	b.WriteString("\n")
	if s.Desc != "" {
		b.WriteString(telnet.Colorize(telnet.White, strings.Join(strings.Fields(s.Desc), " ")))
		b.WriteString("\n")
	}

	if len(s.Exits) == 0 {
		b.WriteString(telnet.Colorize(telnet.Dim, "There are no obvious exits."))
		b.WriteString("\n")
	} else {
		b.WriteString(telnet.Colorize(telnet.Cyan, "Exits:"))
		b.WriteString("\n")
		for _, ex := range s.Exits {
			b.WriteString(fmt.Sprintf("  %s%-10s%s", telnet.BrightCyan, ex.Word, telnet.Reset))
			if ex.Desc != "" {
				b.WriteString(" " + telnet.Colorize(telnet.Dim, ex.Desc))
			}
			b.WriteString(doorTag(ex.Door))
			b.WriteString("\n")
		}
	}

	if len(s.Items) > 0 {
		b.WriteString(telnet.Colorize(telnet.Cyan, "You see:"))
		b.WriteString("\n")
		b.WriteString(indent.String(itemLines(s.Items), 2))
	}

	if len(s.Allies) > 0 {
		b.WriteString(telnet.Colorf(telnet.Yellow, "Also here: %s", strings.Join(s.AllyNames(), ", ")))
		b.WriteString("\n")
	}
	return crlf(r.wrap(b.String()))
}

func doorTag(d world.Door) string {
	switch d {
	case world.DoorClosed:
		return telnet.Colorize(telnet.Red, " (closed)")
	case world.DoorOpen:
		return telnet.Colorize(telnet.Dim, " (open)")
	}
	return ""
}

// itemLines lists items one per line, with the contents of open containers
// indented beneath their holder.
func itemLines(items []engine.ItemView) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(telnet.Colorize(telnet.BrightWhite, it.Name))
		if it.Closed {
			b.WriteString(telnet.Colorize(telnet.Dim, " (closed)"))
		}
		b.WriteString("\n")
		if len(it.Contents) > 0 {
			b.WriteString(indent.String(itemLines(it.Contents), 2))
		}
	}
	return b.String()
}

// Inventory formats what the traveler carries and has equipped.
//
// Precondition: v must be non-nil.
func (r *Renderer) Inventory(v *engine.InventoryView) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "=== Inventory ==="))
	b.WriteString("\n")
	if len(v.Items) == 0 {
		b.WriteString(telnet.Colorize(telnet.Dim, "  You are carrying nothing."))
		b.WriteString("\n")
	}
	for _, it := range v.Items {
		b.WriteString(fmt.Sprintf("  %s [%s]", telnet.Colorize(telnet.BrightWhite, it.Name), it.Kind))
		if it.Name == v.Weapon || it.Name == v.Armor {
			b.WriteString(telnet.Colorize(telnet.Green, " (equipped)"))
		}
		b.WriteString("\n")
		if len(it.Contents) > 0 {
			b.WriteString(indent.String(itemLines(it.Contents), 4))
		}
	}
	b.WriteString(fmt.Sprintf("  Weapon: %s  Armor: %s", orNothing(v.Weapon), orNothing(v.Armor)))
	b.WriteString("\n")
	return crlf(b.String())
}

func orNothing(name string) string {
	if name == "" {
		return telnet.Colorize(telnet.Dim, "nothing")
	}
	return name
}

// Help lists commands grouped by category in the order given.
func (r *Renderer) Help(cmds []*command.Command) string {
	var (
		b       strings.Builder
		current string
	)
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "=== Commands ==="))
	b.WriteString("\n")
	for _, cmd := range cmds {
		if cmd.Category != current {
			current = cmd.Category
			b.WriteString(telnet.Colorize(telnet.Cyan, r.title.String(current)+":"))
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("  %s%-10s%s %s", telnet.BrightCyan, cmd.Name, telnet.Reset, cmd.Help))
		if len(cmd.Aliases) > 0 {
			b.WriteString(telnet.Colorf(telnet.Dim, " (%s)", strings.Join(cmd.Aliases, ", ")))
		}
		b.WriteString("\n")
	}
	b.WriteString(telnet.Colorize(telnet.Dim, "Any exit word on its own also moves you."))
	b.WriteString("\n")
	return crlf(b.String())
}

// Attack formats the outcome of an attack.
//
// Precondition: a must be non-nil.
func (r *Renderer) Attack(a *engine.AttackResult, narration string) string {
	if a.Defeated {
		return r.Narration(telnet.Colorize(telnet.BrightYellow, narration))
	}
	text := telnet.Colorize(telnet.Yellow, narration) + " " +
		telnet.Colorf(telnet.Dim, "(%s: %d hp)", a.Ally, a.HP)
	return r.Narration(text)
}

// Narration wraps a line of prose.
//
// Postcondition: Returns "" for empty text.
func (r *Renderer) Narration(text string) string {
	if text == "" {
		return ""
	}
	return crlf(r.wrap(text)) + "\r\n"
}

// Error formats a refusal in red.
func (r *Renderer) Error(text string) string {
	return crlf(r.wrap(telnet.Colorize(telnet.Red, text))) + "\r\n"
}

func (r *Renderer) wrap(s string) string {
	return wordwrap.String(s, r.width)
}

// crlf converts bare newlines to the CRLF line ending Telnet clients expect.
func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}
