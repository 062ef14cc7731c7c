package combat

import "github.com/cory-johannsen/skirmish/internal/game/dice"

// ActionType identifies what a combatant does on its turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionBasic
	ActionSpecial
)

// String returns the human-readable name of the ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionBasic:
		return "basic"
	case ActionSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// DefaultSpecialChance is the probability that ChancePolicy attempts a special attack.
const DefaultSpecialChance = 0.3

// Policy decides which action a combatant attempts on its turn.
// Implementations must draw any randomness from src.
type Policy interface {
	ChooseAction(actor, opponent *Combatant, src dice.Source) ActionType
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(actor, opponent *Combatant, src dice.Source) ActionType

// ChooseAction calls f.
func (f PolicyFunc) ChooseAction(actor, opponent *Combatant, src dice.Source) ActionType {
	return f(actor, opponent, src)
}

// ChancePolicy attempts a special attack with probability SpecialChance and a
// basic attack otherwise.
type ChancePolicy struct {
	SpecialChance float64
}

// ChooseAction draws once from src unless SpecialChance is 0 or 1.
func (p ChancePolicy) ChooseAction(_, _ *Combatant, src dice.Source) ActionType {
	if dice.Chance(src, p.SpecialChance) {
		return ActionSpecial
	}
	return ActionBasic
}

// Fixed always returns the same action.
type Fixed ActionType

// ChooseAction returns a.
func (a Fixed) ChooseAction(_, _ *Combatant, _ dice.Source) ActionType {
	return ActionType(a)
}
