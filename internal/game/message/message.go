// Package message defines the closed set of output messages a game context
// produces for the transport layer.
//
// Message values are immutable once constructed. Player fields are copies of
// the context's records taken at construction time.
package message

import (
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// Kind identifies a Message variant.
type Kind string

// Kind values double as the "kind" field of WebSocket frames.
const (
	// KindEcho is a line echoed back to its sender.
	KindEcho Kind = "echo"
	// KindGame is server text for specific players.
	KindGame Kind = "game"
	// KindTalk is lobby talk relayed to the other players.
	KindTalk Kind = "talk"
	// KindBroadcast reaches every player in the context.
	KindBroadcast Kind = "broadcast"
	// KindWhisper is a private line to one player.
	KindWhisper Kind = "whisper"
	// KindChat is a line to a fixed group of players.
	KindChat Kind = "chat"
)

// Message is one of Echo, Game, Talk, Broadcast, Whisper or Chat.
// The interface is sealed; consumers switch on the concrete type.
type Message interface {
	Kind() Kind
	sealed()
}

// Echo returns a player's raw input back to them.
type Echo struct {
	Content string
	Player  player.Player
}

// Game is system text addressed to specific players.
type Game struct {
	Text       string
	Recipients []player.Player
}

// Talk is lobby chatter from one player to others.
type Talk struct {
	From       player.Player
	Text       string
	Recipients []player.Player
}

// Broadcast is text for every player in the context. From is nil for
// messages the server sends on nobody's behalf.
type Broadcast struct {
	Text string
	From *player.Player
}

// Whisper is private text to exactly one player.
type Whisper struct {
	Text string
	From player.Player
	To   player.Player
}

// Chat is text to an explicit set of named players.
type Chat struct {
	Text string
	From player.Player
	To   []player.Player
}

func (Echo) Kind() Kind      { return KindEcho }
func (Game) Kind() Kind      { return KindGame }
func (Talk) Kind() Kind      { return KindTalk }
func (Broadcast) Kind() Kind { return KindBroadcast }
func (Whisper) Kind() Kind   { return KindWhisper }
func (Chat) Kind() Kind      { return KindChat }

func (Echo) sealed()      {}
func (Game) sealed()      {}
func (Talk) sealed()      {}
func (Broadcast) sealed() {}
func (Whisper) sealed()   {}
func (Chat) sealed()      {}

// NewEcho echoes content back to p.
func NewEcho(content string, p player.Player) Echo {
	return Echo{Content: content, Player: p}
}

// NewGame addresses system text to recipients.
func NewGame(text string, recipients ...player.Player) Game {
	return Game{Text: text, Recipients: recipients}
}

// NewTalk sends lobby chatter from one player to recipients.
func NewTalk(from player.Player, text string, recipients []player.Player) Talk {
	return Talk{From: from, Text: text, Recipients: recipients}
}

// NewBroadcast sends text to everyone, attributed to from.
func NewBroadcast(text string, from player.Player) Broadcast {
	return Broadcast{Text: text, From: &from}
}

// NewAnnouncement sends text to everyone with no sender.
func NewAnnouncement(text string) Broadcast {
	return Broadcast{Text: text}
}

// NewWhisper sends text from one player to another.
func NewWhisper(text string, from, to player.Player) Whisper {
	return Whisper{Text: text, From: from, To: to}
}

// NewChat sends text from one player to each player in to.
func NewChat(text string, from player.Player, to ...player.Player) Chat {
	return Chat{Text: text, From: from, To: to}
}
