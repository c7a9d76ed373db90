// Package match implements the in-game context entered once every lobby
// player is ready. Free text is routed through the communication parser.
package match

import (
	"errors"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/chat"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

var _ session.Context = (*Match)(nil)

// ContextName identifies the match phase.
const ContextName = "match"

// ErrMatchInProgress is returned by Join: a running match admits nobody.
var ErrMatchInProgress = errors.New("match in progress")

// Match is a running game.
type Match struct {
	*session.Manager
	id         string
	minPlayers int
	logger     *zap.Logger
}

// New starts a match for players, building each primordial character into an
// in-game character and marking every player Playing.
//
// Precondition: catalog, rng and logger must be non-nil; minPlayers must be >= 1.
// Postcondition: Every player has a non-nil Character and state StatePlaying.
func New(id string, players []player.Player, catalog *ruleset.Catalog, rng *rand.Rand, minPlayers int, logger *zap.Logger) *Match {
	if catalog == nil || rng == nil || logger == nil {
		panic("match.New: precondition violated: catalog, rng and logger must be non-nil")
	}
	if minPlayers < 1 {
		panic("match.New: precondition violated: minPlayers must be >= 1")
	}
	started := make([]player.Player, 0, len(players))
	for _, p := range players {
		c := character.Build(p.Primordial, catalog, rng)
		started = append(started, player.Patch{}.WithCharacter(c).WithState(player.StatePlaying).Apply(p))
		logger.Debug("character built",
			zap.String("match_id", id),
			zap.String("player_id", p.ID),
			zap.String("class", c.ClassName),
			zap.String("allegiance", c.Allegiance),
			zap.Strings("modifiers", c.ActiveModifierNames()),
		)
	}
	return &Match{
		Manager:    session.NewManager(started...),
		id:         id,
		minPlayers: minPlayers,
		logger:     logger,
	}
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// Name returns ContextName.
func (m *Match) Name() string { return ContextName }

// Join always fails with ErrMatchInProgress.
func (m *Match) Join(player.Player) ([]message.Message, error) {
	return nil, ErrMatchInProgress
}

// HandleMessage echoes the line and relays it as a broadcast, whisper or chat.
func (m *Match) HandleMessage(msg session.ClientMessage) []message.Message {
	return []message.Message{
		message.NewEcho(msg.Content, msg.Player),
		chat.Parse(msg.Content, msg.Player, m.Manager),
	}
}

// IsReadyForNextContext reports whether too few players remain to continue.
func (m *Match) IsReadyForNextContext() bool {
	return m.PlayerCount() < m.minPlayers
}

// IsReadyForUpdate is false; the match has no timed simulation.
func (m *Match) IsReadyForUpdate() bool { return false }

// Update does nothing.
func (m *Match) Update() session.UpdateResult { return session.UpdateResult{} }
