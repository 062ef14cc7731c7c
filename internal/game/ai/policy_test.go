package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func newCombatant(name string, a ruleset.Archetype) *combat.Combatant {
	return combat.NewCombatant(name, ruleset.DefaultTable().MustDef(a))
}

func TestArchetypePolicy_SpecialChance(t *testing.T) {
	p := ai.NewArchetypePolicy(0.3, map[ruleset.Archetype]float64{ruleset.Rogue: 0.6})
	assert.Equal(t, 0.6, p.SpecialChance(ruleset.Rogue))
	assert.Equal(t, 0.3, p.SpecialChance(ruleset.Warrior))

	var nilMap ai.ArchetypePolicy
	assert.Equal(t, 0.0, nilMap.SpecialChance(ruleset.Mage))
}

func TestArchetypePolicy_ChooseAction(t *testing.T) {
	p := ai.NewArchetypePolicy(0.3, map[ruleset.Archetype]float64{ruleset.Rogue: 0.6})
	rogue := newCombatant("R", ruleset.Rogue)
	mage := newCombatant("M", ruleset.Mage)

	src := testutil.NewScriptedSource().Floats(0.5, 0.5)
	assert.Equal(t, combat.ActionSpecial, p.ChooseAction(rogue, mage, src))
	assert.Equal(t, combat.ActionBasic, p.ChooseAction(mage, rogue, src))
}

func TestArchetypePolicy_Property_MatchesThreshold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		chance := rapid.Float64Range(0.01, 0.99).Draw(rt, "chance")
		roll := rapid.Float64Range(0, 0.999).Draw(rt, "roll")
		p := ai.NewArchetypePolicy(chance, nil)
		got := p.ChooseAction(newCombatant("W", ruleset.Warrior), nil, testutil.NewScriptedSource().Floats(roll))
		want := combat.ActionBasic
		if roll < chance {
			want = combat.ActionSpecial
		}
		assert.Equal(rt, want, got)
	})
}
