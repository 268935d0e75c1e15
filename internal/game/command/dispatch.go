package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/wanderer/internal/game/engine"
	"github.com/cory-johannsen/wanderer/internal/game/world"
)

var (
	// ErrUnknownCommand reports a line that is neither a command nor an exit word.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage reports a command given the wrong arguments.
	ErrUsage = errors.New("usage")
)

// Observer is told about every executed command.
type Observer interface {
	ObserveCommand(handler string, err error, elapsed time.Duration)
}

// Result is the outcome of one successfully executed line. At most one of Room,
// Inventory, Attack and Help is set.
type Result struct {
	// Handler identifies the engine operation that ran, empty for a blank line.
	Handler   string
	Narration string
	Room      *engine.RoomSnapshot
	Inventory *engine.InventoryView
	Attack    *engine.AttackResult
	Help      []*Command
	// Quit asks the caller to end the session.
	Quit bool
}

// Dispatcher turns text lines into engine calls for one traveler.
type Dispatcher struct {
	reg *Registry
	eng *engine.Engine
	obs Observer
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: reg and eng must be non-nil; obs may be nil.
func NewDispatcher(reg *Registry, eng *engine.Engine, obs Observer) *Dispatcher {
	return &Dispatcher{reg: reg, eng: eng, obs: obs}
}

// Engine returns the engine the dispatcher drives.
func (d *Dispatcher) Engine() *engine.Engine {
	return d.eng
}

// Execute parses and runs one line.
//
// Postcondition: A blank line returns an empty Result and nil. On error the Result
// carries only the Handler, and the world and session are unchanged.
func (d *Dispatcher) Execute(line string) (Result, error) {
	p := Parse(line)
	if p.Command == "" {
		return Result{}, nil
	}

	start := time.Now()
	handler := HandlerMove
	var (
		res Result
		err error
	)
	if cmd, ok := d.reg.Resolve(p.Command); ok {
		handler = cmd.Handler
		res, err = d.run(cmd, p)
	} else {
		res, err = d.move(p.Line)
		if err != nil && len(p.Args) > 0 && errors.Is(err, world.ErrNoSuchExit) {
			err = fmt.Errorf("%w: %q", ErrUnknownCommand, p.Command)
		}
	}
	res.Handler = handler

	if d.obs != nil {
		d.obs.ObserveCommand(handler, err, time.Since(start))
	}
	return res, err
}

func (d *Dispatcher) run(cmd *Command, p ParseResult) (Result, error) {
	obj := p.Object()
	needsObject := func() error {
		if obj == "" {
			return fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
		}
		return nil
	}

	switch cmd.Handler {
	case HandlerMove:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		return d.move(obj)

	case HandlerLook:
		snap, err := d.eng.Look()
		return Result{Room: snap}, err

	case HandlerInspect:
		if obj == "" {
			snap, err := d.eng.Look()
			return Result{Room: snap}, err
		}
		kind := engine.TargetAny
		if len(p.Args) > 1 {
			if k, ok := engine.ParseTargetKind(p.Args[0]); ok {
				kind = k
				obj = ParseResult{Args: p.Args[1:]}.Object()
			}
		}
		text, err := d.eng.Inspect(kind, obj)
		if err != nil {
			return Result{}, err
		}
		if text == "" {
			text = "You see nothing special."
		}
		return Result{Narration: text}, nil

	case HandlerTake:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		var err error
		if strings.EqualFold(obj, "all") {
			_, err = d.eng.TakeAll()
		} else if item, from, ok := p.SplitAt("from"); ok {
			_, err = d.eng.TakeFrom(item, from)
		} else {
			_, err = d.eng.Take(obj)
		}
		return narrated("Taken.", err)

	case HandlerDrop:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		item, err := d.eng.Drop(obj)
		if err != nil {
			return Result{}, err
		}
		if p.Command == "throw" {
			return Result{Narration: fmt.Sprintf("You throw the %s across the room.", item.DisplayName())}, nil
		}
		return Result{Narration: "Dropped."}, nil

	case HandlerOpen:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		return narrated("Opened.", d.eng.Open(obj))

	case HandlerClose:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		return narrated("Closed.", d.eng.Close(obj))

	case HandlerPut:
		item, into, ok := p.SplitAt("in", "into", "inside")
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUsage, cmd.Usage)
		}
		return narrated("Placed.", d.eng.Put(item, into))

	case HandlerEquip:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		item, err := d.eng.Equip(obj)
		if err != nil {
			return Result{}, err
		}
		return Result{Narration: fmt.Sprintf("You ready the %s.", item.DisplayName())}, nil

	case HandlerInventory:
		inv := d.eng.Inventory()
		return Result{Inventory: &inv}, nil

	case HandlerAttack:
		if err := needsObject(); err != nil {
			return Result{}, err
		}
		ally, weapon, _ := p.SplitAt("with", "using")
		out, err := d.eng.Attack(ally, weapon)
		if err != nil {
			return Result{}, err
		}
		return Result{Attack: out, Narration: describeAttack(out)}, nil

	case HandlerHelp:
		return Result{Help: d.reg.Commands()}, nil

	case HandlerQuit:
		return Result{Quit: true, Narration: "Farewell."}, nil
	}
	return Result{}, fmt.Errorf("%w: %q has no handler", ErrUnknownCommand, cmd.Name)
}

func (d *Dispatcher) move(word string) (Result, error) {
	snap, err := d.eng.Move(word)
	if err != nil {
		return Result{}, err
	}
	return Result{Room: snap}, nil
}

func narrated(text string, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Narration: text}, nil
}

func describeAttack(a *engine.AttackResult) string {
	s := fmt.Sprintf("You strike the %s with the %s for %d damage.", a.Ally, a.Weapon, a.Damage)
	if a.Defeated {
		return s + fmt.Sprintf(" The %s is defeated.", a.Ally)
	}
	return s
}
