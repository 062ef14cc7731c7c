// Package combat implements the duel resolution engine: combatant state,
// attack resolution, and the battle manager that drives an encounter.
package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Combatant is one side of a duel.
//
// Invariant: 0 <= Health <= MaxHealth; 0 <= Mana <= MaxMana; Level >= 1.
// A Combatant is owned by one Manager for the duration of a battle and is not
// safe for concurrent use.
type Combatant struct {
	ID        string
	Name      string
	Archetype ruleset.Archetype
	Level     int

	Health      int
	MaxHealth   int
	AttackPower int
	// Mana and MaxMana are 0 for archetypes without a mana pool.
	Mana    int
	MaxMana int

	// Equipment is append-only; each entry's bonus was applied once at equip time.
	Equipment []*inventory.Item

	def        *ruleset.ArchetypeDef
	conditions *condition.ActiveSet
}

// NewCombatant creates a level 1 combatant with def's base stats at full health and mana.
//
// Precondition: def must be non-nil and valid.
// Postcondition: Returns a Combatant with a fresh ID satisfying all invariants.
func NewCombatant(name string, def *ruleset.ArchetypeDef) *Combatant {
	return &Combatant{
		ID:          uuid.NewString(),
		Name:        name,
		Archetype:   def.Archetype,
		Level:       1,
		Health:      def.BaseHealth,
		MaxHealth:   def.BaseHealth,
		AttackPower: def.BaseAttack,
		Mana:        def.BaseMana,
		MaxMana:     def.BaseMana,
		def:         def,
		conditions:  condition.NewActiveSet(),
	}
}

// Def returns the archetype definition this combatant was built from,
// falling back to the built-in definition for its archetype.
func (c *Combatant) Def() *ruleset.ArchetypeDef {
	if c.def == nil {
		c.def = ruleset.DefaultTable().MustDef(c.Archetype)
	}
	return c.def
}

// Conditions returns the combatant's active status effects.
func (c *Combatant) Conditions() *condition.ActiveSet {
	if c.conditions == nil {
		c.conditions = condition.NewActiveSet()
	}
	return c.conditions
}

// ApplyCondition afflicts the combatant with def for turns of its own
// turn-starts. An already active condition keeps the longer duration.
func (c *Combatant) ApplyCondition(def *condition.ConditionDef, turns int) error {
	return c.Conditions().Apply(def, turns)
}

// HasMana reports whether the combatant carries a mana pool.
func (c *Combatant) HasMana() bool {
	return c.MaxMana > 0 || c.Def().HasMana()
}

// IsDead reports whether health has reached zero.
func (c *Combatant) IsDead() bool { return c.Health <= 0 }

// ApplyDamage reduces Health by amount, flooring at zero.
// Precondition: amount must be >= 0.
// Postcondition: Health >= 0; returns the health actually lost.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: ApplyDamage called with negative amount %d", amount))
	}
	if amount > c.Health {
		amount = c.Health
	}
	c.Health -= amount
	c.checkInvariants()
	return amount
}

// Heal raises Health by amount, capped at MaxHealth. Healing a combatant
// already at full health is a no-op that returns 0.
// Precondition: amount must be >= 0.
// Postcondition: Health <= MaxHealth; returns the health actually restored.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		panic(fmt.Sprintf("combat: Heal called with negative amount %d", amount))
	}
	if room := c.MaxHealth - c.Health; amount > room {
		amount = room
	}
	c.Health += amount
	c.checkInvariants()
	return amount
}

// SpendMana deducts amount from Mana.
//
// Postcondition: Returns *InsufficientResourceError and leaves Mana unchanged
// when Mana < amount; otherwise Mana is reduced by amount.
func (c *Combatant) SpendMana(amount int) error {
	if c.Mana < amount {
		return &InsufficientResourceError{Resource: ResourceMana, Required: amount, Available: c.Mana}
	}
	c.Mana -= amount
	c.checkInvariants()
	return nil
}

// Equip permanently applies item's bonuses if the combatant's archetype is
// allowed to use it. A disallowed item is rejected without any mutation.
//
// Precondition: item must be non-nil.
// Postcondition: Returns true iff the item was applied and appended to Equipment.
func (c *Combatant) Equip(item *inventory.Item) bool {
	if !item.Allows(c.Archetype) {
		return false
	}
	c.AttackPower += item.AttackBonus
	c.MaxHealth += item.HealthBonus
	c.Health += item.HealthBonus
	c.Equipment = append(c.Equipment, item)
	c.checkInvariants()
	return true
}

// LevelUp advances one level. With L the new level, MaxHealth grows by
// 10*(L-1), AttackPower by 2*(L-1), and MaxMana by 5*(L-1) for mana users.
// Health and Mana are restored to their new maximums.
//
// Postcondition: MaxHealth, AttackPower, and (for mana users) MaxMana strictly
// increase; Health == MaxHealth; Mana == MaxMana.
func (c *Combatant) LevelUp() {
	c.Level++
	step := c.Level - 1
	c.MaxHealth += 10 * step
	c.AttackPower += 2 * step
	if c.HasMana() {
		c.MaxMana += 5 * step
	}
	c.Health = c.MaxHealth
	c.Mana = c.MaxMana
	c.checkInvariants()
}

// ResetForEncounter restores Health and Mana to their maximums and clears all
// status effects. Level, AttackPower, and Equipment persist.
func (c *Combatant) ResetForEncounter() {
	c.Health = c.MaxHealth
	c.Mana = c.MaxMana
	c.Conditions().Clear()
	c.checkInvariants()
}

// checkInvariants panics when a state invariant is broken; a violation is an
// engine bug, never a caller-visible error.
func (c *Combatant) checkInvariants() {
	switch {
	case c.Health < 0 || c.Health > c.MaxHealth:
		panic(fmt.Sprintf("combat: invariant violated for %q: health %d outside [0, %d]", c.Name, c.Health, c.MaxHealth))
	case c.Mana < 0 || c.Mana > c.MaxMana:
		panic(fmt.Sprintf("combat: invariant violated for %q: mana %d outside [0, %d]", c.Name, c.Mana, c.MaxMana))
	case c.Level < 1:
		panic(fmt.Sprintf("combat: invariant violated for %q: level %d < 1", c.Name, c.Level))
	}
}
