// Package command provides the command registry, parser, and dispatcher that turn a
// traveler's text lines into engine calls.
package command

// Categories for organizing commands.
const (
	CategoryMovement    = "movement"
	CategoryWorld       = "world"
	CategoryInteraction = "interaction"
	CategoryCombat      = "combat"
	CategorySystem      = "system"
)

// Handler identifiers mapping commands to engine operations.
const (
	HandlerMove      = "move"
	HandlerLook      = "look"
	HandlerInspect   = "inspect"
	HandlerTake      = "take"
	HandlerDrop      = "drop"
	HandlerOpen      = "open"
	HandlerClose     = "close"
	HandlerPut       = "put"
	HandlerEquip     = "equip"
	HandlerInventory = "inventory"
	HandlerAttack    = "attack"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a traveler-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "take <item> [from <container>]".
	Usage string
	// Help is the short help text displayed to travelers.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the engine operation.
	Handler string
}

// BuiltinCommands returns all built-in commands.
//
// Exit words are not commands: they come from the loaded world, and a line whose first
// word is not a command is tried as an exit word.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "go", Aliases: []string{"move", "walk"}, Usage: "go <exit>", Help: "Walk through an exit of the current room", Category: CategoryMovement, Handler: HandlerMove},

		{Name: "look", Aliases: []string{"l"}, Usage: "look", Help: "Describe the current room", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "inspect", Aliases: []string{"examine", "ex", "x"}, Usage: "inspect [room|exit|item|ally] <name>", Help: "Look closely at something", Category: CategoryWorld, Handler: HandlerInspect},

		{Name: "take", Aliases: []string{"get"}, Usage: "take <item|all> [from <container>]", Help: "Pick up an item", Category: CategoryInteraction, Handler: HandlerTake},
		{Name: "drop", Aliases: []string{"throw"}, Usage: "drop <item>", Help: "Put a carried item on the floor", Category: CategoryInteraction, Handler: HandlerDrop},
		{Name: "open", Usage: "open <door|container>", Help: "Open a door or container", Category: CategoryInteraction, Handler: HandlerOpen},
		{Name: "close", Aliases: []string{"shut"}, Usage: "close <door|container>", Help: "Close a door or container", Category: CategoryInteraction, Handler: HandlerClose},
		{Name: "put", Aliases: []string{"place"}, Usage: "put <item> in <container>", Help: "Place a carried item in a container", Category: CategoryInteraction, Handler: HandlerPut},
		{Name: "inventory", Aliases: []string{"inv", "i"}, Usage: "inventory", Help: "List what you carry", Category: CategoryInteraction, Handler: HandlerInventory},

		{Name: "equip", Aliases: []string{"wield", "wear", "eq"}, Usage: "equip <weapon|armor>", Help: "Ready a carried weapon or armor", Category: CategoryCombat, Handler: HandlerEquip},
		{Name: "attack", Aliases: []string{"hit", "kill"}, Usage: "attack <ally> [with <weapon>]", Help: "Strike someone with a weapon", Category: CategoryCombat, Handler: HandlerAttack},

		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
	}
}
