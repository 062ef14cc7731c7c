// Package ruleset holds the static combat configuration: archetypes, their
// base stats, special-attack parameters, and the affinity relation between them.
package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Archetype is the closed set of combatant classes.
// The zero value (ArchetypeNone) is intentionally invalid as a combatant class
// and means "no archetype" in affinity entries.
type Archetype int

const (
	ArchetypeNone Archetype = iota
	Warrior
	Mage
	Rogue
)

// Archetypes returns every valid archetype in declaration order.
func Archetypes() []Archetype {
	return []Archetype{Warrior, Mage, Rogue}
}

// String returns the lowercase archetype name.
func (a Archetype) String() string {
	switch a {
	case Warrior:
		return "warrior"
	case Mage:
		return "mage"
	case Rogue:
		return "rogue"
	case ArchetypeNone:
		return "none"
	default:
		return "unknown"
	}
}

// Title returns the capitalised archetype name for display.
func (a Archetype) Title() string {
	s := a.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether a is one of Warrior, Mage, or Rogue.
func (a Archetype) Valid() bool {
	return a == Warrior || a == Mage || a == Rogue
}

// ParseArchetype converts a case-insensitive name into an Archetype.
// "none" parses to ArchetypeNone.
//
// Postcondition: Returns an error for any unrecognised name.
func ParseArchetype(s string) (Archetype, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warrior":
		return Warrior, nil
	case "mage":
		return Mage, nil
	case "rogue":
		return Rogue, nil
	case "none":
		return ArchetypeNone, nil
	default:
		return ArchetypeNone, fmt.Errorf("ruleset: unknown archetype %q", s)
	}
}

// MarshalYAML encodes the archetype by name.
func (a Archetype) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML decodes an archetype name.
func (a *Archetype) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseArchetype(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SpecialDef parameterises an archetype's special attack.
type SpecialDef struct {
	Name string `yaml:"name"`
	// Multiplier scales attack power before affinity is applied.
	Multiplier float64 `yaml:"multiplier"`
	// SuccessChance is the probability in (0, 1] that the attack lands once
	// its precondition holds.
	SuccessChance float64 `yaml:"success_chance"`
	// HealthCost is self-inflicted damage on a successful hit.
	HealthCost int `yaml:"health_cost"`
	// MinHealth is the exclusive lower bound on health required to attempt.
	MinHealth int `yaml:"min_health"`
	// ManaCost is both the mana required and the mana spent.
	ManaCost int `yaml:"mana_cost"`
	// Inflicts is the condition a landed special attack applies to its target.
	Inflicts Inflicts `yaml:"inflicts"`
}

// Inflicts names a condition and how many of the target's turn-starts it lasts.
// The zero value inflicts nothing.
type Inflicts struct {
	Condition string `yaml:"condition"`
	Turns     int    `yaml:"turns"`
}

// None reports whether nothing is inflicted.
func (i Inflicts) None() bool { return i.Condition == "" }

// ArchetypeDef is the static configuration for one archetype.
type ArchetypeDef struct {
	Archetype  Archetype `yaml:"archetype"`
	BaseHealth int       `yaml:"base_health"`
	BaseAttack int       `yaml:"base_attack"`
	// BaseMana is 0 for archetypes without a mana pool.
	BaseMana int `yaml:"base_mana"`
	// TurnRegen is health restored at the end of each of the owner's turns.
	TurnRegen int `yaml:"turn_regen"`
	// Advantage is the archetype this one deals bonus damage to.
	Advantage Archetype `yaml:"advantage"`
	// Weakness is the archetype this one deals reduced damage to; ArchetypeNone for none.
	Weakness Archetype  `yaml:"weakness"`
	Special  SpecialDef `yaml:"special"`
}

// HasMana reports whether the archetype carries a mana pool.
func (d *ArchetypeDef) HasMana() bool { return d.BaseMana > 0 }

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff every field is in range.
func (d *ArchetypeDef) Validate() error {
	var errs []error
	if !d.Archetype.Valid() {
		errs = append(errs, fmt.Errorf("archetype must be one of warrior, mage, rogue; got %q", d.Archetype))
	}
	if d.BaseHealth <= 0 {
		errs = append(errs, fmt.Errorf("base_health must be > 0, got %d", d.BaseHealth))
	}
	if d.BaseAttack < 0 {
		errs = append(errs, fmt.Errorf("base_attack must be >= 0, got %d", d.BaseAttack))
	}
	if d.BaseMana < 0 {
		errs = append(errs, fmt.Errorf("base_mana must be >= 0, got %d", d.BaseMana))
	}
	if d.TurnRegen < 0 {
		errs = append(errs, fmt.Errorf("turn_regen must be >= 0, got %d", d.TurnRegen))
	}
	if d.Advantage != ArchetypeNone && d.Advantage == d.Archetype {
		errs = append(errs, errors.New("advantage must not be the archetype itself"))
	}
	if d.Weakness != ArchetypeNone && d.Weakness == d.Archetype {
		errs = append(errs, errors.New("weakness must not be the archetype itself"))
	}
	if d.Advantage != ArchetypeNone && d.Advantage == d.Weakness {
		errs = append(errs, errors.New("advantage and weakness must differ"))
	}
	s := d.Special
	if s.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("special.multiplier must be > 0, got %v", s.Multiplier))
	}
	if s.SuccessChance <= 0 || s.SuccessChance > 1 {
		errs = append(errs, fmt.Errorf("special.success_chance must be in (0, 1], got %v", s.SuccessChance))
	}
	if s.HealthCost < 0 || s.MinHealth < 0 || s.ManaCost < 0 {
		errs = append(errs, errors.New("special costs must be >= 0"))
	}
	if s.ManaCost > 0 && d.BaseMana == 0 {
		errs = append(errs, errors.New("special.mana_cost requires base_mana > 0"))
	}
	switch {
	case s.Inflicts.None() && s.Inflicts.Turns != 0:
		errs = append(errs, errors.New("special.inflicts.turns set without a condition"))
	case !s.Inflicts.None() && s.Inflicts.Turns <= 0:
		errs = append(errs, fmt.Errorf("special.inflicts.turns must be > 0 for %q, got %d", s.Inflicts.Condition, s.Inflicts.Turns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("archetype %s: %w", d.Archetype, errors.Join(errs...))
	}
	return nil
}

// archetypeFile is the on-disk layout of an archetype table.
type archetypeFile struct {
	Archetypes []*ArchetypeDef `yaml:"archetypes"`
}

// LoadArchetypes reads a YAML archetype table from path.
//
// Precondition: path must be a readable YAML file listing every archetype exactly once.
// Postcondition: Returns a validated Table or a non-nil error.
func LoadArchetypes(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f archetypeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing archetype file %s: %w", path, err)
	}
	t, err := NewTable(f.Archetypes...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}
