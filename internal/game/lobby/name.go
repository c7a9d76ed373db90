package lobby

import (
	"fmt"
	"regexp"

	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// NameValidity is the outcome of checking a requested display name.
type NameValidity int

const (
	NameValid NameValidity = iota
	NameTaken
	NameInvalid
)

func (v NameValidity) String() string {
	switch v {
	case NameValid:
		return "valid"
	case NameTaken:
		return "taken"
	case NameInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("NameValidity(%d)", int(v))
	}
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateName checks name against the allowed character set and against the
// names already held by non-anonymous players.
//
// Postcondition: NameInvalid takes precedence over NameTaken.
func ValidateName(name string, players []player.Player) NameValidity {
	if !namePattern.MatchString(name) {
		return NameInvalid
	}
	for _, p := range players {
		if p.State != player.StateAnon && p.Name == name {
			return NameTaken
		}
	}
	return NameValid
}

func nameRejection(name string, v NameValidity) string {
	if v == NameTaken {
		return fmt.Sprintf("The name '%s' has already been taken.", name)
	}
	return fmt.Sprintf("The name '%s' contains invalid characters. Use only alphanumeric, underscore, and hyphen characters.", name)
}
