// Package command provides the player command registry and the line tokenizer
// shared by the lobby and the communication parser.
package command

// Categories for organizing commands.
const (
	CategoryLobby         = "lobby"
	CategoryCommunication = "communication"
)

// Handler identifiers for the built-in commands.
const (
	HandlerReady   = "ready"
	HandlerWhisper = "whisper"
	HandlerChat    = "chat"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument grammar.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler identifies the code path that executes the command.
	Handler string
}

// BuiltinCommands returns all built-in commands. Prefixes are matched as exact
// lowercased tokens; no abbreviation beyond the listed aliases is accepted.
func BuiltinCommands() []Command {
	return []Command{
		{
			Name:     "ready",
			Usage:    "ready [class=<name>] [allegiance=<name>] [modifiers=<n>]",
			Help:     "Configure your character and mark yourself ready",
			Category: CategoryLobby,
			Handler:  HandlerReady,
		},
		{
			Name:     "whisper",
			Aliases:  []string{"w"},
			Usage:    "whisper <name> <text>",
			Help:     "Send a private message to one player",
			Category: CategoryCommunication,
			Handler:  HandlerWhisper,
		},
		{
			Name:     "chat",
			Aliases:  []string{"c"},
			Usage:    "chat <name> <name> <text>",
			Help:     "Send a message to two players",
			Category: CategoryCommunication,
			Handler:  HandlerChat,
		},
	}
}
