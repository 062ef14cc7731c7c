// Package ai holds the action policies that decide what a combatant attempts
// on its turn.
package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// ArchetypePolicy attempts a special attack with a per-archetype probability,
// falling back to Default for archetypes without an entry.
type ArchetypePolicy struct {
	Default float64
	Chances map[ruleset.Archetype]float64
}

// NewArchetypePolicy returns a policy with the given default chance and
// per-archetype overrides. chances may be nil.
func NewArchetypePolicy(def float64, chances map[ruleset.Archetype]float64) *ArchetypePolicy {
	return &ArchetypePolicy{Default: def, Chances: chances}
}

// SpecialChance returns the special-attack probability for a.
func (p *ArchetypePolicy) SpecialChance(a ruleset.Archetype) float64 {
	if c, ok := p.Chances[a]; ok {
		return c
	}
	return p.Default
}

// ChooseAction draws at most once from src.
func (p *ArchetypePolicy) ChooseAction(actor, opponent *combat.Combatant, src dice.Source) combat.ActionType {
	return combat.ChancePolicy{SpecialChance: p.SpecialChance(actor.Archetype)}.ChooseAction(actor, opponent, src)
}
