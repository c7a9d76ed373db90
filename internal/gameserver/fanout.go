package gameserver

import (
	"fmt"

	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// Recipients returns the ids of the players msg is delivered to. everyone is
// the current context's player list, used for broadcasts. Duplicate ids are
// removed; order follows the message's own ordering.
func Recipients(msg message.Message, everyone []player.Player) []string {
	var to []player.Player
	switch m := msg.(type) {
	case message.Echo:
		to = []player.Player{m.Player}
	case message.Game:
		to = m.Recipients
	case message.Talk:
		to = m.Recipients
	case message.Broadcast:
		to = everyone
	case message.Whisper:
		to = []player.Player{m.To}
	case message.Chat:
		to = m.To
	default:
		panic(fmt.Sprintf("gameserver.Recipients: unhandled message type %T", msg))
	}

	ids := make([]string, 0, len(to))
	seen := make(map[string]bool, len(to))
	for _, p := range to {
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}
	return ids
}
