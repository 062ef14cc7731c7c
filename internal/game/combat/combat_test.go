package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

func newCombatant(name string, a ruleset.Archetype) *combat.Combatant {
	return combat.NewCombatant(name, ruleset.DefaultTable().MustDef(a))
}

func TestNewCombatant_BaseStats(t *testing.T) {
	tests := []struct {
		archetype ruleset.Archetype
		health    int
		attack    int
		mana      int
	}{
		{ruleset.Warrior, 100, 15, 0},
		{ruleset.Mage, 80, 12, 50},
		{ruleset.Rogue, 90, 12, 0},
	}
	for _, tc := range tests {
		t.Run(tc.archetype.String(), func(t *testing.T) {
			c := newCombatant("X", tc.archetype)
			assert.NotEmpty(t, c.ID)
			assert.Equal(t, 1, c.Level)
			assert.Equal(t, tc.health, c.Health)
			assert.Equal(t, tc.health, c.MaxHealth)
			assert.Equal(t, tc.attack, c.AttackPower)
			assert.Equal(t, tc.mana, c.Mana)
			assert.Equal(t, tc.mana, c.MaxMana)
			assert.Equal(t, 0, c.Conditions().Len())
		})
	}
}

func TestNewCombatant_UniqueIDs(t *testing.T) {
	a := newCombatant("A", ruleset.Rogue)
	b := newCombatant("B", ruleset.Rogue)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCombatant_LiteralFallsBackToDefaultDef(t *testing.T) {
	c := &combat.Combatant{Name: "Lit", Archetype: ruleset.Mage, Level: 1, Health: 10, MaxHealth: 10}
	assert.Equal(t, "fireball", c.Def().Special.Name)
	assert.True(t, c.HasMana())
	assert.NotNil(t, c.Conditions())
}

func TestCombatant_ApplyDamage(t *testing.T) {
	c := newCombatant("G", ruleset.Rogue)
	assert.Equal(t, 5, c.ApplyDamage(5))
	assert.Equal(t, 85, c.Health)
	assert.Equal(t, 85, c.ApplyDamage(200))
	assert.Equal(t, 0, c.Health) // floors at 0
	assert.True(t, c.IsDead())
}

func TestCombatant_ApplyDamage_NegativePanics(t *testing.T) {
	c := newCombatant("G", ruleset.Rogue)
	assert.Panics(t, func() { c.ApplyDamage(-1) })
}

func TestCombatant_Property_HealthAlwaysClamped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newCombatant("X", rapid.SampledFrom(ruleset.Archetypes()).Draw(rt, "archetype"))
		steps := rapid.SliceOfN(rapid.IntRange(-60, 60), 1, 30).Draw(rt, "steps")
		for _, n := range steps {
			if n < 0 {
				c.ApplyDamage(-n)
			} else {
				c.Heal(n)
			}
			assert.GreaterOrEqual(rt, c.Health, 0)
			assert.LessOrEqual(rt, c.Health, c.MaxHealth)
		}
	})
}

func TestCombatant_Heal(t *testing.T) {
	c := newCombatant("H", ruleset.Warrior)
	c.ApplyDamage(30)
	assert.Equal(t, 20, c.Heal(20))
	assert.Equal(t, 90, c.Health)
	assert.Equal(t, 10, c.Heal(50))
	assert.Equal(t, 100, c.Health)
}

func TestCombatant_Heal_AtMaxIsNoop(t *testing.T) {
	c := newCombatant("H", ruleset.Mage)
	assert.Equal(t, 0, c.Heal(25))
	assert.Equal(t, c.MaxHealth, c.Health)
}

func TestCombatant_SpendMana(t *testing.T) {
	c := newCombatant("M", ruleset.Mage)
	require.NoError(t, c.SpendMana(20))
	assert.Equal(t, 30, c.Mana)
}

func TestCombatant_SpendMana_Insufficient(t *testing.T) {
	c := newCombatant("M", ruleset.Mage)
	c.Mana = 10
	err := c.SpendMana(20)
	var ire *combat.InsufficientResourceError
	require.True(t, errors.As(err, &ire))
	assert.Equal(t, combat.ResourceMana, ire.Resource)
	assert.Equal(t, 20, ire.Required)
	assert.Equal(t, 10, ire.Available)
	assert.Equal(t, 10, c.Mana)
	assert.Equal(t, "insufficient mana: need 20, have 10", err.Error())
}

func TestCombatant_Property_ManaNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newCombatant("M", ruleset.Mage)
		costs := rapid.SliceOfN(rapid.IntRange(0, 40), 1, 20).Draw(rt, "costs")
		for _, cost := range costs {
			before := c.Mana
			if err := c.SpendMana(cost); err != nil {
				assert.Equal(rt, before, c.Mana)
			}
			assert.GreaterOrEqual(rt, c.Mana, 0)
			assert.LessOrEqual(rt, c.Mana, c.MaxMana)
		}
	})
}

func TestCombatant_Equip_Allowed(t *testing.T) {
	items := inventory.DefaultRegistry()
	sword, ok := items.Item("iron_sword")
	require.True(t, ok)
	c := newCombatant("W", ruleset.Warrior)
	c.ApplyDamage(10)

	assert.True(t, c.Equip(sword))
	assert.Equal(t, 20, c.AttackPower)

	shield, _ := items.Item("oak_shield")
	assert.True(t, c.Equip(shield))
	assert.Equal(t, 120, c.MaxHealth)
	assert.Equal(t, 110, c.Health)
	assert.Len(t, c.Equipment, 2)
}

func TestCombatant_Equip_RejectedLeavesStateUntouched(t *testing.T) {
	staff, ok := inventory.DefaultRegistry().Item("arcane_staff")
	require.True(t, ok)
	c := newCombatant("W", ruleset.Warrior)
	before := *c

	assert.False(t, c.Equip(staff))
	assert.Equal(t, before.AttackPower, c.AttackPower)
	assert.Equal(t, before.MaxHealth, c.MaxHealth)
	assert.Equal(t, before.Health, c.Health)
	assert.Empty(t, c.Equipment)
}

func TestCombatant_LevelUp(t *testing.T) {
	w := newCombatant("W", ruleset.Warrior)
	w.ApplyDamage(50)
	w.LevelUp()
	assert.Equal(t, 2, w.Level)
	assert.Equal(t, 110, w.MaxHealth)
	assert.Equal(t, 17, w.AttackPower)
	assert.Equal(t, 110, w.Health)
	assert.Equal(t, 0, w.MaxMana)

	w.LevelUp()
	assert.Equal(t, 3, w.Level)
	assert.Equal(t, 130, w.MaxHealth)
	assert.Equal(t, 21, w.AttackPower)

	m := newCombatant("M", ruleset.Mage)
	require.NoError(t, m.SpendMana(40))
	m.LevelUp()
	assert.Equal(t, 55, m.MaxMana)
	assert.Equal(t, 55, m.Mana)
	m.LevelUp()
	assert.Equal(t, 65, m.MaxMana)
}

func TestCombatant_Property_LevelUpMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newCombatant("X", rapid.SampledFrom(ruleset.Archetypes()).Draw(rt, "archetype"))
		n := rapid.IntRange(1, 10).Draw(rt, "levels")
		for range n {
			c.ApplyDamage(rapid.IntRange(0, c.Health).Draw(rt, "dmg"))
			maxHealth, attack, maxMana := c.MaxHealth, c.AttackPower, c.MaxMana
			c.LevelUp()
			assert.Greater(rt, c.MaxHealth, maxHealth)
			assert.Greater(rt, c.AttackPower, attack)
			if c.HasMana() {
				assert.Greater(rt, c.MaxMana, maxMana)
			}
			assert.Equal(rt, c.MaxHealth, c.Health)
			assert.Equal(rt, c.MaxMana, c.Mana)
		}
	})
}

func TestCombatant_ResetForEncounter(t *testing.T) {
	c := newCombatant("M", ruleset.Mage)
	staff, _ := inventory.DefaultRegistry().Item("arcane_staff")
	require.True(t, c.Equip(staff))
	c.LevelUp()
	c.ApplyDamage(40)
	require.NoError(t, c.SpendMana(20))
	require.NoError(t, c.Conditions().Apply(&condition.ConditionDef{ID: condition.Poison, Name: "Poison"}, 3))

	c.ResetForEncounter()
	assert.Equal(t, c.MaxHealth, c.Health)
	assert.Equal(t, c.MaxMana, c.Mana)
	assert.Equal(t, 0, c.Conditions().Len())
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 12+4+2, c.AttackPower)
	assert.Len(t, c.Equipment, 1)
}
