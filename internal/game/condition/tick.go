package condition

// Gate is the result of ticking a combatant's conditions at turn start.
type Gate int

const (
	// Proceed lets the owner act this turn.
	Proceed Gate = iota
	// SkipTurn forfeits the owner's action this turn.
	SkipTurn
)

// String returns a human-readable gate label.
func (g Gate) String() string {
	switch g {
	case Proceed:
		return "proceed"
	case SkipTurn:
		return "skip turn"
	default:
		return "unknown"
	}
}

// Target is the owner of an ActiveSet as seen by ApplyStatusEffects.
type Target interface {
	// ApplyDamage reduces health by amount, clamped at zero, and returns the
	// damage actually taken.
	ApplyDamage(amount int) int
	// Conditions returns the owner's active condition set.
	Conditions() *ActiveSet
}

// Tick describes one condition's effect during a turn-start tick.
type Tick struct {
	ID string
	// Damage is the health actually lost to this condition.
	Damage int
	// SkipsTurn is true if this condition forced a skipped turn.
	SkipsTurn bool
	// Remaining is the duration left after the decrement; 0 means it expired.
	Remaining int
}

// Expired reports whether the condition was removed by this tick.
func (t Tick) Expired() bool { return t.Remaining == 0 }

// ApplyStatusEffects ticks every active condition on target exactly once:
// damage-dealing conditions hurt the owner through its damage path, turn-skipping
// conditions resolve the gate to SkipTurn, and every duration is decremented,
// with zero-duration conditions removed. Conditions do not interact, so the
// result is independent of processing order. IDs with no registered definition
// only decrement.
//
// Precondition: target must not be nil.
// Postcondition: Returns the gate and one Tick per condition active at entry, sorted by ID.
func (r *Registry) ApplyStatusEffects(target Target) (Gate, []Tick) {
	set := target.Conditions()
	gate := Proceed
	ids := set.IDs()
	ticks := make([]Tick, 0, len(ids))
	for _, id := range ids {
		tk := Tick{ID: id}
		if def, ok := r.defs[id]; ok {
			if def.TickDamage > 0 {
				tk.Damage = target.ApplyDamage(def.TickDamage)
			}
			if def.SkipsTurn {
				tk.SkipsTurn = true
				gate = SkipTurn
			}
		}
		ticks = append(ticks, tk)
	}
	set.Tick()
	for i := range ticks {
		ticks[i].Remaining = set.Remaining(ticks[i].ID)
	}
	return gate, ticks
}
