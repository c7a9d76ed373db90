package match_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/match"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

func readyPlayers() []player.Player {
	return []player.Player{
		{ID: "1", Name: "alpha", State: player.StateReady,
			Primordial: character.PrimordialCharacter{ClassName: "Mage", Allegiance: "Good", NumModifiers: character.Count(2)}},
		{ID: "2", Name: "beta", State: player.StateReady},
		{ID: "3", Name: "gamma", State: player.StateReady, Primordial: character.Placeholder()},
	}
}

func newMatch(t *testing.T, minPlayers int) *match.Match {
	return match.New("m1", readyPlayers(), ruleset.DefaultCatalog(), rand.New(rand.NewPCG(1, 2)), minPlayers, zaptest.NewLogger(t))
}

func TestNew_BuildsCharacters(t *testing.T) {
	m := newMatch(t, 2)
	assert.Equal(t, "m1", m.ID())
	assert.Equal(t, match.ContextName, m.Name())

	for _, p := range m.Players() {
		assert.Equal(t, player.StatePlaying, p.State)
		require.NotNil(t, p.Character, p.ID)
	}
	alpha, _ := m.GetPlayer("1")
	assert.Equal(t, "Mage", alpha.Character.ClassName)
	assert.Len(t, alpha.Character.ActiveModifierNames(), 2)

	beta, _ := m.GetPlayer("2")
	assert.Equal(t, character.None, beta.Character.ClassName)
	assert.Empty(t, beta.Character.ActiveModifierNames())
}

func TestNew_SameSeedSameModifiers(t *testing.T) {
	a := newMatch(t, 2)
	b := newMatch(t, 2)
	pa, _ := a.GetPlayer("1")
	pb, _ := b.GetPlayer("1")
	assert.Equal(t, pa.Character.ActiveModifierNames(), pb.Character.ActiveModifierNames())
}

func TestNew_Preconditions(t *testing.T) {
	assert.Panics(t, func() {
		match.New("m", nil, nil, rand.New(rand.NewPCG(1, 1)), 2, zaptest.NewLogger(t))
	})
	assert.Panics(t, func() {
		match.New("m", nil, ruleset.DefaultCatalog(), rand.New(rand.NewPCG(1, 1)), 0, zaptest.NewLogger(t))
	})
}

func TestMatch_JoinRejected(t *testing.T) {
	_, err := newMatch(t, 2).Join(player.New("late"))
	assert.ErrorIs(t, err, match.ErrMatchInProgress)
}

func TestMatch_HandleMessageRoutesThroughChat(t *testing.T) {
	m := newMatch(t, 2)
	alpha, _ := m.GetPlayer("1")
	beta, _ := m.GetPlayer("2")

	msgs := m.HandleMessage(session.ClientMessage{Player: alpha, Content: "w beta psst"})
	require.Len(t, msgs, 2)
	assert.Equal(t, message.NewEcho("w beta psst", alpha), msgs[0])
	assert.Equal(t, message.NewWhisper("psst", alpha, beta), msgs[1])

	msgs = m.HandleMessage(session.ClientMessage{Player: alpha, Content: "hello all"})
	assert.Equal(t, message.NewBroadcast("hello all", alpha), msgs[1])
}

func TestMatch_IsReadyForNextContext(t *testing.T) {
	m := newMatch(t, 2)
	assert.False(t, m.IsReadyForNextContext())
	assert.False(t, m.IsReadyForUpdate())

	m.Leave("3")
	assert.False(t, m.IsReadyForNextContext())

	msgs := m.Leave("2")
	assert.Equal(t, []message.Message{message.NewAnnouncement("beta has left the game.")}, msgs)
	assert.True(t, m.IsReadyForNextContext())
}
