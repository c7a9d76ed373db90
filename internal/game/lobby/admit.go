package lobby

import (
	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// Admit normalizes a player arriving from another context into a lobby player.
//
//   - players already in a lobby state pass through unchanged
//   - players carrying an in-game character are summarized and set to Preparing
//   - any other player keeps its state and gets the placeholder character
//
// A player with no state at all is treated as freshly connected: Anon when
// unnamed, Preparing otherwise.
func Admit(p player.Player) player.Player {
	switch {
	case p.State.IsLobby():
		return p
	case p.Character != nil:
		p.Primordial = character.Summarize(p.Character)
		p.Character = nil
		p.State = player.StatePreparing
	default:
		p.Primordial = character.Placeholder()
		p.Character = nil
		if p.State == "" {
			p.State = player.StatePreparing
			if p.Name == "" {
				p.State = player.StateAnon
			}
		}
	}
	return p
}
