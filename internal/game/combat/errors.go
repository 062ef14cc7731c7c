package combat

import (
	"errors"
	"fmt"
)

// Resource names what a special attack consumes or requires.
type Resource int

const (
	ResourceNone Resource = iota
	ResourceHealth
	ResourceMana
)

// String returns a human-readable resource label.
func (r Resource) String() string {
	switch r {
	case ResourceHealth:
		return "health"
	case ResourceMana:
		return "mana"
	default:
		return "none"
	}
}

// InsufficientResourceError reports that a special attack's precondition failed.
// It carries data only; the battle manager recovers from it by falling back to
// a basic attack.
type InsufficientResourceError struct {
	Resource Resource
	// Required is the minimum amount that would have satisfied the precondition.
	Required  int
	Available int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("insufficient %s: need %d, have %d", e.Resource, e.Required, e.Available)
}

var (
	// ErrNilCombatant is returned when a battle is started without both sides.
	ErrNilCombatant = errors.New("combat: both combatants must be non-nil")
	// ErrSameCombatant is returned when a combatant is asked to fight itself.
	ErrSameCombatant = errors.New("combat: a combatant cannot fight itself")
	// ErrTurnLimit is returned when a battle exceeds the configured turn limit.
	ErrTurnLimit = errors.New("combat: battle exceeded turn limit")
)
