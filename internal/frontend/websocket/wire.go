package websocket

import (
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// wireMessage is the JSON frame sent to WebSocket clients.
type wireMessage struct {
	Kind message.Kind `json:"kind"`
	Text string       `json:"text"`
	From string       `json:"from,omitempty"`
	To   []string     `json:"to,omitempty"`
}

// encode converts msg to its wire form. Players are identified by name.
func encode(msg message.Message) wireMessage {
	w := wireMessage{Kind: msg.Kind()}
	switch m := msg.(type) {
	case message.Echo:
		w.Text = m.Content
		w.To = []string{m.Player.Name}
	case message.Game:
		w.Text = m.Text
		w.To = playerNames(m.Recipients)
	case message.Talk:
		w.Text = m.Text
		w.From = m.From.Name
		w.To = playerNames(m.Recipients)
	case message.Broadcast:
		w.Text = m.Text
		if m.From != nil {
			w.From = m.From.Name
		}
	case message.Whisper:
		w.Text = m.Text
		w.From = m.From.Name
		w.To = []string{m.To.Name}
	case message.Chat:
		w.Text = m.Text
		w.From = m.From.Name
		w.To = playerNames(m.To)
	}
	return w
}

func playerNames(players []player.Player) []string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return names
}
