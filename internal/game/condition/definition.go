// Package condition defines timed status effects (poison, stun) and the
// per-turn tick that applies them to their owner.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in condition IDs.
const (
	Poison = "poison"
	Stun   = "stun"
)

// PoisonTickDamage is the damage poison deals at each of its owner's turn-starts.
const PoisonTickDamage = 5

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// TickDamage is dealt to the owner each time the condition ticks.
	TickDamage int `yaml:"tick_damage"`
	// SkipsTurn causes the owner to forfeit its action while the condition ticks.
	SkipsTurn bool `yaml:"skips_turn"`
}

// Validate checks the definition's invariants.
func (d *ConditionDef) Validate() error {
	if d.ID == "" {
		return errors.New("condition: id must not be empty")
	}
	if d.TickDamage < 0 {
		return fmt.Errorf("condition %q: tick_damage must be >= 0, got %d", d.ID, d.TickDamage)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// DefaultRegistry returns a Registry holding poison and stun.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(&ConditionDef{
		ID:          Poison,
		Name:        "Poisoned",
		Description: "Loses health at the start of each turn.",
		TickDamage:  PoisonTickDamage,
	})
	reg.Register(&ConditionDef{
		ID:          Stun,
		Name:        "Stunned",
		Description: "Cannot act.",
		SkipsTurn:   true,
	})
	return reg
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.defs[id]
	return ok
}

// All returns the registered ConditionDefs sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a ConditionDef,
// and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
