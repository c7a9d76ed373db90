package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/xanadu/internal/frontend/telnet"
	"github.com/cory-johannsen/xanadu/internal/game/command"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// Prompt is written after every burst of output.
var Prompt = telnet.BrightCyan.Wrap("> ")

// RenderMessage formats msg as colored Telnet text for the player viewerID.
// Echoes are not rendered: Telnet clients already echo their own input.
//
// Postcondition: Returns (text, true), or ("", false) if nothing should be shown.
func RenderMessage(msg message.Message, viewerID string) (string, bool) {
	switch m := msg.(type) {
	case message.Echo:
		return "", false
	case message.Game:
		return telnet.Yellow.Wrap(m.Text), true
	case message.Talk:
		return telnet.BrightWhite.Wrapf("%s says: %s", m.From.Name, m.Text), true
	case message.Broadcast:
		if m.From == nil {
			return telnet.Cyan.Wrap(m.Text), true
		}
		return telnet.Green.Wrapf("[%s] %s", m.From.Name, m.Text), true
	case message.Whisper:
		if m.From.ID == viewerID {
			return telnet.Magenta.Wrapf("You whisper to %s: %s", m.To.Name, m.Text), true
		}
		return telnet.Magenta.Wrapf("%s whispers: %s", m.From.Name, m.Text), true
	case message.Chat:
		return telnet.BrightYellow.Wrapf("[%s → %s] %s", m.From.Name, names(m.To), m.Text), true
	default:
		return telnet.Red.Wrapf("unrenderable message %T", msg), true
	}
}

func names(players []player.Player) string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Name)
	}
	return strings.Join(out, ", ")
}

// RenderHelp lists the registry's commands grouped by category.
func RenderHelp(r *command.Registry) string {
	var b strings.Builder
	b.WriteString(telnet.Bold.Wrap("Commands:"))
	for _, category := range []string{command.CategoryLobby, command.CategoryCommunication} {
		for _, cmd := range r.CommandsByCategory()[category] {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("  %s  %s", telnet.BrightCyan.Wrap(cmd.Usage), telnet.Dim.Wrap(cmd.Help)))
		}
	}
	b.WriteString("\n  " + telnet.BrightCyan.Wrap(QuitCommand) + "  " + telnet.Dim.Wrap("Leave the game"))
	return b.String()
}
