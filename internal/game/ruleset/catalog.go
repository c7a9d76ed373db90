// Package ruleset holds the static character catalogs consulted while players
// configure their characters in the lobby.
package ruleset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxNumModifiers is the modifier cap used when none is configured.
const DefaultMaxNumModifiers = 3

// Catalog is the fixed set of choices a primordial character is resolved against.
type Catalog struct {
	Classes         []*Class
	Allegiances     []*Allegiance
	Modifiers       []*Modifier
	MaxNumModifiers int
}

// DefaultCatalog returns the built-in catalog used when no content directory is configured.
//
// Postcondition: Returns a Catalog that passes Validate.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Classes: []*Class{
			{ID: "warrior", Name: "Warrior", Description: "Heavy armor, heavier blows."},
			{ID: "rogue", Name: "Rogue", Description: "Strikes from the shadows."},
			{ID: "mage", Name: "Mage", Description: "Bends the arcane to their will."},
			{ID: "cleric", Name: "Cleric", Description: "Mends wounds and smites the wicked."},
			{ID: "ranger", Name: "Ranger", Description: "Never misses at range."},
		},
		Allegiances: []*Allegiance{
			{ID: "good", Name: "Good"},
			{ID: "neutral", Name: "Neutral"},
			{ID: "evil", Name: "Evil"},
		},
		Modifiers: []*Modifier{
			{ID: "swift", Name: "Swift"},
			{ID: "hardy", Name: "Hardy"},
			{ID: "keen", Name: "Keen"},
			{ID: "lucky", Name: "Lucky"},
			{ID: "brutal", Name: "Brutal"},
		},
		MaxNumModifiers: DefaultMaxNumModifiers,
	}
}

// LoadCatalog reads a catalog from the classes/, allegiances/ and modifiers/
// subdirectories of dir. Entries are ordered by their Order field, then ID.
//
// Precondition: dir must contain the three subdirectories; maxNumModifiers must be >= 0.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalog(dir string, maxNumModifiers int) (*Catalog, error) {
	classes, err := LoadClasses(filepath.Join(dir, "classes"))
	if err != nil {
		return nil, err
	}
	allegiances, err := LoadAllegiances(filepath.Join(dir, "allegiances"))
	if err != nil {
		return nil, err
	}
	modifiers, err := LoadModifiers(filepath.Join(dir, "modifiers"))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(classes, func(i, j int) bool {
		return less(classes[i].Order, classes[i].ID, classes[j].Order, classes[j].ID)
	})
	sort.SliceStable(allegiances, func(i, j int) bool {
		return less(allegiances[i].Order, allegiances[i].ID, allegiances[j].Order, allegiances[j].ID)
	})
	sort.SliceStable(modifiers, func(i, j int) bool {
		return less(modifiers[i].Order, modifiers[i].ID, modifiers[j].Order, modifiers[j].ID)
	})

	c := &Catalog{
		Classes:         classes,
		Allegiances:     allegiances,
		Modifiers:       modifiers,
		MaxNumModifiers: maxNumModifiers,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", dir, err)
	}
	return c, nil
}

func less(oi int, idi string, oj int, idj string) bool {
	if oi != oj {
		return oi < oj
	}
	return idi < idj
}

// Validate checks that every list is non-empty and every entry is named uniquely.
//
// Postcondition: Returns nil if the catalog is usable, or an error describing all violations.
func (c *Catalog) Validate() error {
	var errs []string
	check := func(kind string, ids, names []string) {
		if len(ids) == 0 {
			errs = append(errs, fmt.Sprintf("no %s defined", kind))
			return
		}
		seen := make(map[string]bool, len(names))
		for i, name := range names {
			if ids[i] == "" || name == "" {
				errs = append(errs, fmt.Sprintf("%s #%d must have an id and a name", kind, i+1))
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				errs = append(errs, fmt.Sprintf("duplicate %s name %q", kind, name))
			}
			seen[key] = true
		}
	}

	ids, names := make([]string, 0, len(c.Classes)), c.ClassNames()
	for _, cl := range c.Classes {
		ids = append(ids, cl.ID)
	}
	check("classes", ids, names)

	ids, names = make([]string, 0, len(c.Allegiances)), c.AllegianceNames()
	for _, a := range c.Allegiances {
		ids = append(ids, a.ID)
	}
	check("allegiances", ids, names)

	ids, names = make([]string, 0, len(c.Modifiers)), c.ModifierNames()
	for _, m := range c.Modifiers {
		ids = append(ids, m.ID)
	}
	check("modifiers", ids, names)

	if c.MaxNumModifiers < 0 {
		errs = append(errs, fmt.Sprintf("max modifiers must be >= 0, got %d", c.MaxNumModifiers))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ClassNames returns the display names of all classes in catalog order.
func (c *Catalog) ClassNames() []string {
	names := make([]string, 0, len(c.Classes))
	for _, cl := range c.Classes {
		names = append(names, cl.Name)
	}
	return names
}

// AllegianceNames returns the display names of all allegiances in catalog order.
func (c *Catalog) AllegianceNames() []string {
	names := make([]string, 0, len(c.Allegiances))
	for _, a := range c.Allegiances {
		names = append(names, a.Name)
	}
	return names
}

// ModifierNames returns the display names of all modifiers in catalog order.
func (c *Catalog) ModifierNames() []string {
	names := make([]string, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		names = append(names, m.Name)
	}
	return names
}
