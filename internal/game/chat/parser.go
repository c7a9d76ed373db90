// Package chat classifies a line of free-form player text into a broadcast,
// a whisper, or a multi-party chat and resolves the named recipients.
package chat

import (
	"fmt"

	"github.com/cory-johannsen/xanadu/internal/game/command"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// ChatRecipients is the fixed number of names a chat command takes.
const ChatRecipients = 2

// Directory resolves exact player names within a context.
type Directory interface {
	GetPlayerByName(name string) (player.Player, bool)
}

var registry = command.DefaultRegistry()

// Parse classifies raw as sent by from.
//
// Postcondition: Returns a Whisper, Chat or Broadcast; a whisper or chat with
// missing or unknown recipients yields a Game message addressed to from.
func Parse(raw string, from player.Player, dir Directory) message.Message {
	parsed := command.Parse(raw)
	cmd, ok := registry.Resolve(parsed.Command)
	if !ok {
		return message.NewBroadcast(raw, from)
	}

	switch cmd.Handler {
	case command.HandlerWhisper:
		return addressed(cmd, parsed.Args, 1, from, dir, func(to []player.Player, body string) message.Message {
			return message.NewWhisper(body, from, to[0])
		})
	case command.HandlerChat:
		return addressed(cmd, parsed.Args, ChatRecipients, from, dir, func(to []player.Player, body string) message.Message {
			return message.NewChat(body, from, to...)
		})
	default:
		return message.NewBroadcast(raw, from)
	}
}

// addressed resolves the first n args as recipient names and hands the rest
// of the line to build as the body.
func addressed(cmd *command.Command, args []string, n int, from player.Player, dir Directory,
	build func(to []player.Player, body string) message.Message) message.Message {
	if len(args) < n {
		return message.NewGame(fmt.Sprintf("Usage: %s", cmd.Usage), from)
	}
	to := make([]player.Player, 0, n)
	for _, name := range args[:n] {
		p, ok := dir.GetPlayerByName(name)
		if !ok {
			return message.NewGame(fmt.Sprintf("There is no player named '%s'.", name), from)
		}
		to = append(to, p)
	}
	return build(to, command.Join(args[n:]))
}
