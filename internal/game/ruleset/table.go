package ruleset

import (
	"errors"
	"fmt"
)

// Affinity damage multipliers.
const (
	AdvantageMultiplier = 1.2
	NeutralMultiplier   = 1.0
	WeaknessMultiplier  = 0.8
)

// Multiplier returns the damage multiplier for an attack by this archetype
// against defender: AdvantageMultiplier if defender is d.Advantage,
// WeaknessMultiplier if defender is d.Weakness, NeutralMultiplier otherwise.
func (d *ArchetypeDef) Multiplier(defender Archetype) float64 {
	switch {
	case d.Advantage != ArchetypeNone && defender == d.Advantage:
		return AdvantageMultiplier
	case d.Weakness != ArchetypeNone && defender == d.Weakness:
		return WeaknessMultiplier
	default:
		return NeutralMultiplier
	}
}

// Table is an immutable set of ArchetypeDefs, one per archetype.
type Table struct {
	defs map[Archetype]*ArchetypeDef
}

// NewTable validates defs and builds a Table.
//
// Precondition: defs must contain exactly one valid entry for each of Warrior, Mage, Rogue.
// Postcondition: Returns a Table or an error naming the first violation.
func NewTable(defs ...*ArchetypeDef) (*Table, error) {
	t := &Table{defs: make(map[Archetype]*ArchetypeDef, len(defs))}
	for _, d := range defs {
		if d == nil {
			return nil, fmt.Errorf("ruleset: nil archetype definition")
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.defs[d.Archetype]; dup {
			return nil, fmt.Errorf("ruleset: archetype %s defined twice", d.Archetype)
		}
		t.defs[d.Archetype] = d
	}
	for _, a := range Archetypes() {
		if _, ok := t.defs[a]; !ok {
			return nil, fmt.Errorf("ruleset: archetype %s is not defined", a)
		}
	}
	return t, nil
}

// Def returns the definition for a, or (nil, false) if absent.
func (t *Table) Def(a Archetype) (*ArchetypeDef, bool) {
	d, ok := t.defs[a]
	return d, ok
}

// MustDef returns the definition for a and panics if it is absent.
func (t *Table) MustDef(a Archetype) *ArchetypeDef {
	d, ok := t.defs[a]
	if !ok {
		panic("ruleset: no definition for archetype " + a.String())
	}
	return d
}

// All returns the definitions in archetype declaration order.
func (t *Table) All() []*ArchetypeDef {
	out := make([]*ArchetypeDef, 0, len(t.defs))
	for _, a := range Archetypes() {
		out = append(out, t.defs[a])
	}
	return out
}

// Multiplier returns the affinity multiplier for attacker against defender.
func (t *Table) Multiplier(attacker, defender Archetype) float64 {
	d, ok := t.defs[attacker]
	if !ok {
		return NeutralMultiplier
	}
	return d.Multiplier(defender)
}

// DefaultArchetypes returns fresh copies of the built-in archetype definitions.
//
// Warrior beats Rogue and is weak to Mage; Mage beats Warrior and is weak to
// Rogue; Rogue beats Mage and carries no weakness. A landed power strike stuns
// for one turn and a landed ambush poisons for three.
func DefaultArchetypes() []*ArchetypeDef {
	return []*ArchetypeDef{
		{
			Archetype:  Warrior,
			BaseHealth: 100,
			BaseAttack: 15,
			TurnRegen:  2,
			Advantage:  Rogue,
			Weakness:   Mage,
			Special: SpecialDef{
				Name:          "power strike",
				Multiplier:    2,
				SuccessChance: 0.5,
				HealthCost:    5,
				MinHealth:     5,
				Inflicts:      Inflicts{Condition: "stun", Turns: 1},
			},
		},
		{
			Archetype:  Mage,
			BaseHealth: 80,
			BaseAttack: 12,
			BaseMana:   50,
			Advantage:  Warrior,
			Weakness:   Rogue,
			Special: SpecialDef{
				Name:          "fireball",
				Multiplier:    1.5,
				SuccessChance: 1,
				ManaCost:      20,
			},
		},
		{
			Archetype:  Rogue,
			BaseHealth: 90,
			BaseAttack: 12,
			Advantage:  Mage,
			Special: SpecialDef{
				Name:          "ambush",
				Multiplier:    3,
				SuccessChance: 0.7,
				Inflicts:      Inflicts{Condition: "poison", Turns: 3},
			},
		},
	}
}

var defaultTable = mustTable(DefaultArchetypes()...)

func mustTable(defs ...*ArchetypeDef) *Table {
	t, err := NewTable(defs...)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the built-in archetype table.
func DefaultTable() *Table { return defaultTable }

// Multiplier returns the affinity multiplier for attacker against defender
// using the built-in table.
func Multiplier(attacker, defender Archetype) float64 {
	return defaultTable.Multiplier(attacker, defender)
}

// ConditionLookup resolves a condition ID; *condition.Registry satisfies it.
type ConditionLookup interface {
	Has(id string) bool
}

// CheckConditions reports every special attack whose inflicted condition is
// unknown to conditions.
func (t *Table) CheckConditions(conditions ConditionLookup) error {
	var errs []error
	for _, d := range t.All() {
		inf := d.Special.Inflicts
		if !inf.None() && !conditions.Has(inf.Condition) {
			errs = append(errs, fmt.Errorf("archetype %s: special %q inflicts unknown condition %q", d.Archetype, d.Special.Name, inf.Condition))
		}
	}
	return errors.Join(errs...)
}
