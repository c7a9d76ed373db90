package lobby

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/fuzzy"
	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

// Rules are the static inputs to character configuration.
type Rules struct {
	Catalog        *ruleset.Catalog
	FuzzyTolerance int
}

// ConfigureResult is the outcome of one ready command: the finalized
// character and every problem found along the way.
type ConfigureResult struct {
	Log       []string
	Character character.PrimordialCharacter
}

// ParsePrimordialCharacter applies the key=value components of a ready
// command on top of previous. Components are keyed by the first letter of
// the key: c(lass), a(llegiance) and m(odifiers). Only the first component of
// each kind takes effect; bad values are logged and leave that field as it
// was. A modifier count of zero also keeps the previous count. Tokens without
// '=' are ignored.
//
// Precondition: tokens[0] must equal "ready" case-insensitively.
// Postcondition: NumModifiers, when set, is within [0, rules.Catalog.MaxNumModifiers].
func ParsePrimordialCharacter(tokens []string, previous character.PrimordialCharacter, rules Rules) ConfigureResult {
	if len(tokens) == 0 || !strings.EqualFold(tokens[0], "ready") {
		session.Violate("ParsePrimordialCharacter", "tokens must begin with ready, got %q", tokens)
	}

	var (
		log         []string
		className   string
		allegiance  string
		numModifier *int
	)
	for _, token := range tokens[1:] {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(firstLetter(key)) {
		case "c":
			if className != "" {
				continue
			}
			if name, found := fuzzy.Find(value, rules.Catalog.ClassNames(), rules.FuzzyTolerance); found {
				className = name
			} else {
				log = append(log, fmt.Sprintf("Unrecognized character class: %s", value))
			}
		case "a":
			if allegiance != "" {
				continue
			}
			if name, found := fuzzy.Find(value, rules.Catalog.AllegianceNames(), rules.FuzzyTolerance); found {
				allegiance = name
			} else {
				log = append(log, fmt.Sprintf("Unrecognized allegiance: %s", value))
			}
		case "m":
			if numModifier != nil {
				continue
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				log = append(log, fmt.Sprintf("Bad number of modifiers: %s", value))
				continue
			}
			numModifier = character.Count(n)
		default:
			log = append(log, fmt.Sprintf("Unrecognized key: %s", key))
		}
	}

	result := previous
	if className != "" {
		result.ClassName = className
	}
	if allegiance != "" {
		result.Allegiance = allegiance
	}
	if numModifier != nil && *numModifier != 0 {
		result.NumModifiers = numModifier
	}
	if result.NumModifiers != nil {
		result.NumModifiers = character.Count(clamp(*result.NumModifiers, 0, rules.Catalog.MaxNumModifiers))
	}
	return ConfigureResult{Log: log, Character: result}
}

func firstLetter(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
