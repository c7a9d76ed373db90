// Package session provides the player store shared by every game context and
// the Context contract the hub drives.
package session

import (
	"fmt"

	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// ClientMessage is one inbound line from a connection.
type ClientMessage struct {
	Player  player.Player
	Content string
}

// UpdateResult is the output of a Context's timed update.
type UpdateResult struct {
	Messages []message.Message
	Log      []string
}

// Context is a phase of the game that owns the player collection and decides
// how inbound lines are handled.
//
// Implementations are not safe for concurrent use; callers serialize access.
type Context interface {
	// Name identifies the phase, e.g. "lobby".
	Name() string
	// Join admits a newly connected player.
	Join(p player.Player) ([]message.Message, error)
	// Leave removes a player and returns any departure messages.
	Leave(id string) []message.Message
	// HandleMessage processes one line and returns its output, echo first.
	HandleMessage(msg ClientMessage) []message.Message
	IsReadyForNextContext() bool
	IsReadyForUpdate() bool
	Update() UpdateResult
	Players() []player.Player
	GetPlayer(id string) (player.Player, bool)
}

// InvariantViolation is the panic value raised when a caller breaks a
// precondition. It signals a bug, never a user error.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: precondition violated: %s", v.Op, v.Detail)
}

// Violate panics with an *InvariantViolation.
func Violate(op, format string, args ...any) {
	panic(&InvariantViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
