package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Item is an immutable equipment bonus applied once when equipped.
type Item struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	AttackBonus int                 `yaml:"attack_bonus"`
	HealthBonus int                 `yaml:"health_bonus"`
	Allowed     []ruleset.Archetype `yaml:"allowed"`
}

// Allows reports whether a combatant of archetype a may equip the item.
func (it *Item) Allows(a ruleset.Archetype) bool {
	return slices.Contains(it.Allowed, a)
}

// Validate checks that the Item satisfies its invariants.
//
// Precondition: it is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (it *Item) Validate() error {
	var errs []error
	if it.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if it.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if it.AttackBonus < 0 {
		errs = append(errs, fmt.Errorf("AttackBonus must be >= 0, got %d", it.AttackBonus))
	}
	if it.HealthBonus < 0 {
		errs = append(errs, fmt.Errorf("HealthBonus must be >= 0, got %d", it.HealthBonus))
	}
	if len(it.Allowed) == 0 {
		errs = append(errs, errors.New("Allowed must name at least one archetype"))
	}
	for _, a := range it.Allowed {
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("Allowed contains invalid archetype %q", a))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// Item, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Items or the first encountered error.
func LoadItems(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*Item
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var it Item
		if err := yaml.Unmarshal(data, &it); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &it)
	}
	return items, nil
}

// DefaultItems returns the built-in item set.
func DefaultItems() []*Item {
	return []*Item{
		{ID: "iron_sword", Name: "Iron Sword", AttackBonus: 5, Allowed: []ruleset.Archetype{ruleset.Warrior}},
		{ID: "oak_shield", Name: "Oak Shield", HealthBonus: 20, Allowed: []ruleset.Archetype{ruleset.Warrior}},
		{ID: "arcane_staff", Name: "Arcane Staff", AttackBonus: 4, Allowed: []ruleset.Archetype{ruleset.Mage}},
		{ID: "silk_robe", Name: "Silk Robe", HealthBonus: 10, Allowed: []ruleset.Archetype{ruleset.Mage}},
		{ID: "twin_daggers", Name: "Twin Daggers", AttackBonus: 4, Allowed: []ruleset.Archetype{ruleset.Rogue}},
		{ID: "shadow_cloak", Name: "Shadow Cloak", HealthBonus: 10, Allowed: []ruleset.Archetype{ruleset.Rogue}},
		{
			ID:          "amulet_of_vigor",
			Name:        "Amulet of Vigor",
			HealthBonus: 15,
			Allowed:     []ruleset.Archetype{ruleset.Warrior, ruleset.Mage, ruleset.Rogue},
		},
	}
}
