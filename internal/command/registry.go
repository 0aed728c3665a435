package command

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Module is a named group of commands registered together.
type Module struct {
	Name string
	cmds []*Command
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// Add registers a command with the module. The name is required; aliases
// are optional and share the handler.
func (m *Module) Add(info Info, handler Handler) error {
	if info.Name == "" {
		return fmt.Errorf("module %s: command name is required", m.Name)
	}
	m.cmds = append(m.cmds, &Command{Info: info, Run: handler})
	return nil
}

// MustAdd is Add for static module definitions, where an empty name is a
// programming error.
func (m *Module) MustAdd(info Info, handler Handler) {
	if err := m.Add(info, handler); err != nil {
		panic(err)
	}
}

// Registry maps command names and aliases to commands. It is built once at
// startup and never mutated; dispatch only reads it.
type Registry struct {
	byName  map[string]*Command
	ordered []*Command
}

// NewRegistry merges the given modules in order. On a name or alias
// collision the first registration wins; the loser is logged and skipped.
func NewRegistry(modules ...*Module) *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	for _, m := range modules {
		for _, c := range m.cmds {
			if _, taken := r.byName[c.Info.Name]; taken {
				log.Warn().
					Str("module", m.Name).
					Str("command", c.Info.Name).
					Msg("Duplicate command name, first registration wins")
				continue
			}
			r.ordered = append(r.ordered, c)
			r.byName[c.Info.Name] = c
			for _, alias := range c.Info.Aliases {
				if _, taken := r.byName[alias]; taken {
					log.Warn().
						Str("module", m.Name).
						Str("alias", alias).
						Msg("Duplicate command alias, first registration wins")
					continue
				}
				r.byName[alias] = c
			}
		}
	}
	return r
}

// Resolve returns the command registered under name or any of its aliases.
func (r *Registry) Resolve(name string) (*Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Commands returns the primary commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.ordered))
	copy(out, r.ordered)
	return out
}
