// Package command resolves the words a human types at the arena prompt.
package command

// Categories for organizing commands.
const (
	CategoryAction = "action"
	CategoryInfo   = "info"
	CategorySystem = "system"
)

// Handler identifiers. Action handlers end the prompt with a battle action;
// the rest are answered and the prompt repeats.
const (
	HandlerAttack    = "attack"
	HandlerSpecial   = "special"
	HandlerStatus    = "status"
	HandlerEquipment = "equipment"
	HandlerHelp      = "help"
)

// Command defines a prompt command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed at the prompt.
	Help     string
	Category string
	Handler  string
}

// IsAction reports whether the command chooses the turn's action.
func (c *Command) IsAction() bool {
	return c.Category == CategoryAction
}

// BuiltinCommands returns the arena prompt commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "attack", Aliases: []string{"a", "1"}, Help: "Basic attack", Category: CategoryAction, Handler: HandlerAttack},
		{Name: "special", Aliases: []string{"s", "2"}, Help: "Use your archetype's special attack", Category: CategoryAction, Handler: HandlerSpecial},
		{Name: "status", Aliases: []string{"st", "cond"}, Help: "Show both combatants and active conditions", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "equipment", Aliases: []string{"gear", "eq"}, Help: "Show equipped items", Category: CategoryInfo, Handler: HandlerEquipment},
		{Name: "help", Aliases: []string{"?", "h"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
