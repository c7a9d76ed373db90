package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/xanadu/internal/frontend/telnet"
	"github.com/cory-johannsen/xanadu/internal/game/command"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

var (
	alpha = player.Player{ID: "a", Name: "alpha", State: player.StatePlaying}
	beta  = player.Player{ID: "b", Name: "beta", State: player.StatePlaying}
	gamma = player.Player{ID: "c", Name: "gamma", State: player.StatePlaying}
)

func render(t *testing.T, msg message.Message, viewer string) string {
	t.Helper()
	text, ok := RenderMessage(msg, viewer)
	assert.True(t, ok)
	return telnet.StripANSI(text)
}

func TestRenderMessage_EchoIsHidden(t *testing.T) {
	_, ok := RenderMessage(message.NewEcho("hi", alpha), "a")
	assert.False(t, ok)
}

func TestRenderMessage(t *testing.T) {
	cases := []struct {
		name   string
		msg    message.Message
		viewer string
		want   string
	}{
		{"game", message.NewGame("Welcome", alpha), "a", "Welcome"},
		{"talk", message.NewTalk(alpha, "anyone?", []player.Player{beta}), "b", "alpha says: anyone?"},
		{"announcement", message.NewAnnouncement("beta has left the game."), "a", "beta has left the game."},
		{"broadcast", message.NewBroadcast("hello world", alpha), "b", "[alpha] hello world"},
		{"whisper received", message.NewWhisper("wazzup", alpha, beta), "b", "alpha whispers: wazzup"},
		{"whisper sent", message.NewWhisper("wazzup", alpha, beta), "a", "You whisper to beta: wazzup"},
		{"chat", message.NewChat("shaken not stirred", alpha, beta, gamma), "c", "[alpha → beta, gamma] shaken not stirred"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.msg, tc.viewer))
		})
	}
}

func TestRenderMessage_IsColored(t *testing.T) {
	text, _ := RenderMessage(message.NewGame("Welcome", alpha), "a")
	assert.Equal(t, telnet.Yellow.Wrap("Welcome"), text)
}

func TestRenderHelp_ListsCommands(t *testing.T) {
	help := telnet.StripANSI(RenderHelp(command.DefaultRegistry()))
	assert.Contains(t, help, "ready [class=<name>]")
	assert.Contains(t, help, "whisper <name> <text>")
	assert.Contains(t, help, "chat <name> <name> <text>")
	assert.Contains(t, help, QuitCommand)
}
