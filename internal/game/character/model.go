// Package character defines the primordial (lobby) and in-game character models
// and the pure conversions between them.
package character

import (
	"math/rand/v2"
	"sort"

	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
)

// None is the placeholder class and allegiance given to players admitted
// without any character data.
const None = "None"

// PrimordialCharacter is a player's in-progress character configuration.
// Each field is independently unresolved until the player configures it:
// empty strings and a nil NumModifiers mean "not chosen yet".
type PrimordialCharacter struct {
	ClassName    string
	Allegiance   string
	NumModifiers *int
}

// Count returns a pointer to n, for populating PrimordialCharacter.NumModifiers.
func Count(n int) *int {
	return &n
}

// Modifiers returns the chosen modifier count, or 0 when unresolved.
func (p PrimordialCharacter) Modifiers() int {
	if p.NumModifiers == nil {
		return 0
	}
	return *p.NumModifiers
}

// Placeholder returns the primordial character given to players that arrive
// without any character data.
func Placeholder() PrimordialCharacter {
	return PrimordialCharacter{ClassName: None, Allegiance: None, NumModifiers: Count(0)}
}

// Character is a fully built in-game character.
type Character struct {
	ClassName  string
	Allegiance string
	// Modifiers maps a modifier name to whether it is currently active.
	Modifiers map[string]bool
}

// ActiveModifierNames returns the names of the currently active modifiers, sorted.
//
// Postcondition: Returns a non-nil slice.
func (c *Character) ActiveModifierNames() []string {
	names := make([]string, 0, len(c.Modifiers))
	for name, active := range c.Modifiers {
		if active {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Summarize degrades an in-game character into the primordial summary a lobby keeps.
//
// Precondition: c must be non-nil.
// Postcondition: NumModifiers equals the number of active modifiers.
func Summarize(c *Character) PrimordialCharacter {
	return PrimordialCharacter{
		ClassName:    c.ClassName,
		Allegiance:   c.Allegiance,
		NumModifiers: Count(len(c.ActiveModifierNames())),
	}
}

// Build turns a primordial character into an in-game character. Unresolved
// class and allegiance stay as None; the requested number of modifiers is
// drawn without replacement from the catalog using rng.
//
// Precondition: catalog and rng must be non-nil.
// Postcondition: len(ActiveModifierNames()) == min(p.Modifiers(), len(catalog.Modifiers)).
func Build(p PrimordialCharacter, catalog *ruleset.Catalog, rng *rand.Rand) *Character {
	c := &Character{
		ClassName:  p.ClassName,
		Allegiance: p.Allegiance,
		Modifiers:  make(map[string]bool, p.Modifiers()),
	}
	if c.ClassName == "" {
		c.ClassName = None
	}
	if c.Allegiance == "" {
		c.Allegiance = None
	}

	pool := catalog.ModifierNames()
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := min(p.Modifiers(), len(pool))
	for _, name := range pool[:n] {
		c.Modifiers[name] = true
	}
	return c
}
