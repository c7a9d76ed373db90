// Package lobby implements the onboarding context: anonymous players choose a
// name, configure a primordial character, and mark themselves ready.
package lobby

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/game/command"
	"github.com/cory-johannsen/xanadu/internal/game/fuzzy"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

var _ session.Context = (*Lobby)(nil)

// ContextName identifies the lobby phase.
const ContextName = "lobby"

// ErrLobbyFull is returned by Join when the lobby is at capacity.
var ErrLobbyFull = errors.New("lobby is full")

// Options configures a Lobby.
type Options struct {
	// ServerName is shown in the welcome message.
	ServerName string
	// MaxPlayers caps Join; zero means unlimited.
	MaxPlayers     int
	Catalog        *ruleset.Catalog
	FuzzyTolerance int
}

// DefaultOptions returns Options using the built-in catalog.
func DefaultOptions() Options {
	return Options{
		ServerName:     "Xanadu",
		MaxPlayers:     8,
		Catalog:        ruleset.DefaultCatalog(),
		FuzzyTolerance: fuzzy.DefaultTolerance,
	}
}

// Lobby is the pre-match context. It advances only in response to messages.
type Lobby struct {
	*session.Manager
	opts   Options
	logger *zap.Logger
}

// New creates a Lobby holding players, each normalized with Admit.
//
// Precondition: logger must be non-nil; player ids must be unique.
// Postcondition: A nil opts.Catalog is replaced by ruleset.DefaultCatalog().
func New(opts Options, players []player.Player, logger *zap.Logger) *Lobby {
	if logger == nil {
		panic("lobby.New: precondition violated: logger must be non-nil")
	}
	if opts.Catalog == nil {
		opts.Catalog = ruleset.DefaultCatalog()
	}
	admitted := make([]player.Player, 0, len(players))
	for _, p := range players {
		admitted = append(admitted, Admit(p))
	}
	return &Lobby{
		Manager: session.NewManager(admitted...),
		opts:    opts,
		logger:  logger,
	}
}

// Name returns ContextName.
func (l *Lobby) Name() string { return ContextName }

// Rules returns the character configuration rules in effect.
func (l *Lobby) Rules() Rules {
	return Rules{Catalog: l.opts.Catalog, FuzzyTolerance: l.opts.FuzzyTolerance}
}

// Join admits a newly connected player and prompts them for a name.
//
// Postcondition: Returns ErrLobbyFull when MaxPlayers players are present.
func (l *Lobby) Join(p player.Player) ([]message.Message, error) {
	if l.opts.MaxPlayers > 0 && l.PlayerCount() >= l.opts.MaxPlayers {
		return nil, ErrLobbyFull
	}
	p = Admit(p)
	if err := l.AddPlayer(p); err != nil {
		return nil, err
	}
	l.logger.Debug("player joined lobby", zap.String("player_id", p.ID), zap.String("state", string(p.State)))
	if p.State != player.StateAnon {
		return nil, nil
	}
	return []message.Message{message.NewGame("What name will you be known by?", p)}, nil
}

// IsReadyForNextContext reports whether every player is Ready.
func (l *Lobby) IsReadyForNextContext() bool {
	return l.AllReady()
}

// IsReadyForUpdate is always false.
func (l *Lobby) IsReadyForUpdate() bool { return false }

// Update does nothing.
func (l *Lobby) Update() session.UpdateResult { return session.UpdateResult{} }

// HandleMessage echoes the line and then names the player, configures their
// character, or relays chatter, depending on their state.
func (l *Lobby) HandleMessage(msg session.ClientMessage) []message.Message {
	out := []message.Message{message.NewEcho(msg.Content, msg.Player)}

	switch msg.Player.State {
	case player.StateAnon:
		return append(out, l.handleName(msg.Player, msg.Content)...)
	case player.StatePreparing, player.StateReady:
		parsed := command.Parse(msg.Content)
		if parsed.Command == "ready" {
			return append(out, l.handleReady(msg.Player, parsed.Tokens)...)
		}
		return append(out, message.NewTalk(msg.Player, msg.Content, l.PlayersWithout(msg.Player)))
	default:
		return out
	}
}

func (l *Lobby) handleName(p player.Player, name string) []message.Message {
	v := ValidateName(name, l.Players())
	if v != NameValid {
		l.logger.Debug("name rejected",
			zap.String("player_id", p.ID),
			zap.String("name", name),
			zap.Stringer("reason", v),
		)
		return []message.Message{message.NewGame(nameRejection(name, v), p)}
	}

	p = l.UpdatePlayer(p.ID, player.Patch{}.WithName(name).WithState(player.StatePreparing))
	l.logger.Debug("player named",
		zap.String("player_id", p.ID),
		zap.String("name", p.Name),
		zap.String("state", string(p.State)),
	)
	return []message.Message{
		message.NewGame(fmt.Sprintf("Welcome to %s %s! Enter `ready` to start.", l.opts.ServerName, p.Name), p),
		l.BroadcastFromPlayer(fmt.Sprintf("%s has joined the game!", p.Name), p),
	}
}

func (l *Lobby) handleReady(p player.Player, tokens []string) []message.Message {
	var out []message.Message
	result := ParsePrimordialCharacter(tokens, p.Primordial, l.Rules())
	if len(result.Log) > 0 {
		out = append(out, message.NewGame(strings.Join(result.Log, "\n"), p))
	}

	p = l.UpdatePlayer(p.ID, player.Patch{}.WithPrimordial(result.Character).WithState(player.StateReady))
	l.logger.Debug("player ready",
		zap.String("player_id", p.ID),
		zap.String("name", p.Name),
		zap.String("class", p.Primordial.ClassName),
		zap.String("allegiance", p.Primordial.Allegiance),
		zap.Int("num_modifiers", p.Primordial.Modifiers()),
		zap.Int("problems", len(result.Log)),
	)
	return append(out, l.BroadcastFromPlayer(fmt.Sprintf("%s is ready", p.Name), p))
}
