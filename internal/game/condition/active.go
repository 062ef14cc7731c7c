package condition

import (
	"fmt"
	"sort"
)

// ActiveSet tracks the conditions applied to one combatant and their
// remaining turns.
//
// Invariant: every stored duration is > 0; a condition reaching zero is removed.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	remaining map[string]int
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{remaining: make(map[string]int)}
}

// Apply adds a condition for turns owner turn-starts. Re-applying an active
// condition keeps the longer of the two durations.
//
// Precondition: def must not be nil; turns > 0.
// Postcondition: Has(def.ID) is true and Remaining(def.ID) >= turns.
func (s *ActiveSet) Apply(def *ConditionDef, turns int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if turns <= 0 {
		return fmt.Errorf("Apply %q: turns must be > 0, got %d", def.ID, turns)
	}
	if turns > s.remaining[def.ID] {
		s.remaining[def.ID] = turns
	}
	return nil
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.remaining, id)
}

// Clear removes every condition.
//
// Postcondition: Len() == 0.
func (s *ActiveSet) Clear() {
	clear(s.remaining)
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.remaining[id]
	return ok
}

// Remaining returns the turns left on condition id, or 0 if not present.
func (s *ActiveSet) Remaining(id string) int {
	return s.remaining[id]
}

// Len returns the number of active conditions.
func (s *ActiveSet) Len() int { return len(s.remaining) }

// IDs returns the active condition IDs in sorted order.
func (s *ActiveSet) IDs() []string {
	out := make([]string, 0, len(s.remaining))
	for id := range s.remaining {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Tick decrements every active condition by one turn and removes those that
// reach zero.
//
// Postcondition: Returns the expired IDs sorted; for each, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	// Deleting entries while ranging over the map is safe.
	for id, turns := range s.remaining {
		turns--
		if turns <= 0 {
			expired = append(expired, id)
			delete(s.remaining, id)
			continue
		}
		s.remaining[id] = turns
	}
	sort.Strings(expired)
	return expired
}
