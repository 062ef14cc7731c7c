// Package inventory holds the static item pool from which rewards are drawn.
package inventory

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Registry holds all loaded Items indexed by ID.
type Registry struct {
	items map[string]*Item
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// NewRegistryFrom registers every item in items.
//
// Postcondition: Returns a populated Registry or the first registration error.
func NewRegistryFrom(items []*Item) (*Registry, error) {
	r := NewRegistry()
	for _, it := range items {
		if err := r.Register(it); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a Registry holding DefaultItems.
func DefaultRegistry() *Registry {
	r, err := NewRegistryFrom(DefaultItems())
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds it to the registry.
//
// Precondition:  it must not be nil.
// Postcondition: Item(it.ID) returns (it, true); returns error if it.ID already registered.
func (r *Registry) Register(it *Item) error {
	if _, exists := r.items[it.ID]; exists {
		return fmt.Errorf("inventory: Registry.Register: item ID %q already registered", it.ID)
	}
	r.items[it.ID] = it
	return nil
}

// Item returns the Item for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

// All returns all registered Items sorted by ID.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForArchetype returns the Items equippable by archetype a, sorted by ID so
// that a uniform index draw over the result is reproducible.
func (r *Registry) ForArchetype(a ruleset.Archetype) []*Item {
	var out []*Item
	for _, it := range r.All() {
		if it.Allows(a) {
			out = append(out, it)
		}
	}
	return out
}
