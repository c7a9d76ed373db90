package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/xanadu/internal/game/player"
)

func TestKinds(t *testing.T) {
	alpha := player.Player{ID: "1", Name: "alpha", State: player.StatePreparing}
	beta := player.Player{ID: "2", Name: "beta", State: player.StatePreparing}

	cases := []struct {
		msg  Message
		kind Kind
	}{
		{NewEcho("hi", alpha), KindEcho},
		{NewGame("welcome", alpha), KindGame},
		{NewTalk(alpha, "hi", []player.Player{beta}), KindTalk},
		{NewBroadcast("hi", alpha), KindBroadcast},
		{NewAnnouncement("hi"), KindBroadcast},
		{NewWhisper("hi", alpha, beta), KindWhisper},
		{NewChat("hi", alpha, beta), KindChat},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.msg.Kind())
	}
}

func TestNewBroadcast_CopiesSender(t *testing.T) {
	alpha := player.Player{ID: "1", Name: "alpha"}
	b := NewBroadcast("hi", alpha)
	alpha.Name = "changed"
	require.NotNil(t, b.From)
	assert.Equal(t, "alpha", b.From.Name)
}

func TestNewAnnouncement_HasNoSender(t *testing.T) {
	assert.Nil(t, NewAnnouncement("server restarting").From)
}

func TestEqualWhispersCompareEqual(t *testing.T) {
	alpha := player.Player{ID: "1", Name: "alpha"}
	beta := player.Player{ID: "2", Name: "beta"}
	assert.Equal(t, NewWhisper("wazzup", alpha, beta), NewWhisper("wazzup", alpha, beta))
}
