package command

import (
	"fmt"
	"slices"
	"strings"
)

// Registry resolves the first token of a line to a Command. Names and aliases
// share one lowercase namespace; lookups fold case.
type Registry struct {
	ordered []*Command          // registration order
	index   map[string]*Command // name or alias → command
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: Names and aliases must be non-empty lowercase tokens without
// whitespace, and unique across the whole registry.
// Postcondition: Returns a Registry or an error naming the first offending token.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		ordered: make([]*Command, 0, len(cmds)),
		index:   make(map[string]*Command, len(cmds)*2),
	}
	for i := range cmds {
		cmd := &cmds[i]
		for _, token := range append([]string{cmd.Name}, cmd.Aliases...) {
			if err := checkToken(token); err != nil {
				return nil, fmt.Errorf("command %q: %w", cmd.Name, err)
			}
			if owner, taken := r.index[token]; taken {
				return nil, fmt.Errorf("command %q: token %q already belongs to %q", cmd.Name, token, owner.Name)
			}
			r.index[token] = cmd
		}
		r.ordered = append(r.ordered, cmd)
	}
	return r, nil
}

func checkToken(token string) error {
	switch {
	case token == "":
		return fmt.Errorf("empty name or alias")
	case strings.ContainsFunc(token, func(r rune) bool { return r == ' ' || r == '\t' }):
		return fmt.Errorf("%q contains whitespace", token)
	case strings.ToLower(token) != token:
		return fmt.Errorf("%q is not lowercase", token)
	}
	return nil
}

// DefaultRegistry creates a Registry with all built-in commands.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("command.DefaultRegistry: precondition violated: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias, ignoring case. Only exact
// tokens match; "WHISPER" and "W" resolve, "whisp" does not.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(token string) (*Command, bool) {
	cmd, ok := r.index[strings.ToLower(token)]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	out := slices.Clone(r.ordered)
	slices.SortFunc(out, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// CommandsByCategory returns commands grouped by category, each group sorted by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
