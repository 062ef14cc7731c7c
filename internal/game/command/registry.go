package command

import (
	"fmt"
	"sort"
	"strings"
)

// Registry resolves prompt input to commands by canonical name, alias, or
// an unambiguous prefix of a canonical name.
type Registry struct {
	byName  map[string]*Command
	byAlias map[string]*Command
	names   []string // sorted canonical names
}

// NewRegistry indexes cmds. Names and aliases are matched case-insensitively.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error describing the first collision.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]*Command, len(cmds)),
		byAlias: make(map[string]*Command),
	}
	for i := range cmds {
		cmd := &cmds[i]
		name := strings.ToLower(cmd.Name)
		if name == "" {
			return nil, fmt.Errorf("command %d has no name", i)
		}
		if _, taken := r.byName[name]; taken {
			return nil, fmt.Errorf("duplicate command name: %q", name)
		}
		if owner, taken := r.byAlias[name]; taken {
			return nil, fmt.Errorf("command name %q is already an alias of %q", name, owner.Name)
		}
		r.byName[name] = cmd
		r.names = append(r.names, name)

		for _, alias := range cmd.Aliases {
			alias = strings.ToLower(alias)
			if _, taken := r.byName[alias]; taken {
				return nil, fmt.Errorf("alias %q of %q shadows a command name", alias, name)
			}
			if owner, taken := r.byAlias[alias]; taken {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, owner.Name, name)
			}
			r.byAlias[alias] = cmd
		}
	}
	sort.Strings(r.names)
	return r, nil
}

// DefaultRegistry returns a Registry holding BuiltinCommands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("command: building default registry: %v", err))
	}
	return r
}

// Resolve looks input up as a name, then an alias, then a prefix that
// matches exactly one canonical name.
//
// Postcondition: Returns (command, true) on a unique match, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	input = strings.ToLower(input)
	if cmd, ok := r.byName[input]; ok {
		return cmd, true
	}
	if cmd, ok := r.byAlias[input]; ok {
		return cmd, true
	}
	if matches := r.Complete(input); len(matches) == 1 {
		return r.byName[matches[0]], true
	}
	return nil, false
}

// Complete returns the canonical names starting with prefix, sorted.
// An empty prefix matches nothing.
func (r *Registry) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	if prefix == "" {
		return nil
	}
	i := sort.SearchStrings(r.names, prefix)
	var out []string
	for ; i < len(r.names) && strings.HasPrefix(r.names[i], prefix); i++ {
		out = append(out, r.names[i])
	}
	return out
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.names))
	for i, name := range r.names {
		out[i] = r.byName[name]
	}
	return out
}

// InCategory returns the commands of one category sorted by name.
func (r *Registry) InCategory(category string) []*Command {
	var out []*Command
	for _, name := range r.names {
		if cmd := r.byName[name]; cmd.Category == category {
			out = append(out, cmd)
		}
	}
	return out
}
