// Package player defines the per-connection player record shared by every
// game context.
package player

import (
	"github.com/cory-johannsen/xanadu/internal/game/character"
)

// State is a player's onboarding or gameplay phase.
type State string

const (
	// StateAnon is a connected player that has not chosen a name yet.
	StateAnon State = "Anon"
	// StatePreparing is a named player configuring their character.
	StatePreparing State = "Preparing"
	// StateReady is a named player waiting for the match to start.
	StateReady State = "Ready"
	// StatePlaying is a player inside a running match.
	StatePlaying State = "Playing"
)

// IsLobby reports whether s is one of the lobby phases.
func (s State) IsLobby() bool {
	switch s {
	case StateAnon, StatePreparing, StateReady:
		return true
	default:
		return false
	}
}

// Player is one connection's identity and phase data.
//
// Invariant: Name is non-empty once State != StateAnon.
type Player struct {
	ID    string
	Name  string
	State State
	// Primordial is the in-progress character kept while in the lobby.
	Primordial character.PrimordialCharacter
	// Character is set while a match is running; nil otherwise.
	Character *character.Character
}

// New returns a freshly connected anonymous player.
//
// Precondition: id must be non-empty.
func New(id string) Player {
	return Player{ID: id, State: StateAnon}
}

// IsReady reports whether p has finished configuring their character.
func IsReady(p Player) bool {
	return p.State == StateReady
}

// Patch is a merge-patch for a Player: only non-nil fields are applied.
type Patch struct {
	Name       *string
	State      *State
	Primordial *character.PrimordialCharacter
	Character  **character.Character
}

// Apply returns p with every field set in patch overwritten.
func (patch Patch) Apply(p Player) Player {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.State != nil {
		p.State = *patch.State
	}
	if patch.Primordial != nil {
		p.Primordial = *patch.Primordial
	}
	if patch.Character != nil {
		p.Character = *patch.Character
	}
	return p
}

// WithName sets the name field of the patch.
func (patch Patch) WithName(name string) Patch {
	patch.Name = &name
	return patch
}

// WithState sets the state field of the patch.
func (patch Patch) WithState(s State) Patch {
	patch.State = &s
	return patch
}

// WithPrimordial sets the primordial character field of the patch.
func (patch Patch) WithPrimordial(pc character.PrimordialCharacter) Patch {
	patch.Primordial = &pc
	return patch
}

// WithCharacter sets the in-game character field of the patch; nil clears it.
func (patch Patch) WithCharacter(c *character.Character) Patch {
	patch.Character = &c
	return patch
}
