package postgres_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/player"
	"github.com/cory-johannsen/xanadu/internal/storage/postgres"
	"github.com/cory-johannsen/xanadu/internal/testutil"
)

func repo(t *testing.T) (*postgres.RosterRepository, *testutil.PostgresContainer) {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewRosterRepository(pc.RawPool), pc
}

func playing(id, name, class, allegiance string, mods ...string) player.Player {
	c := &character.Character{ClassName: class, Allegiance: allegiance, Modifiers: map[string]bool{}}
	for _, m := range mods {
		c.Modifiers[m] = true
	}
	return player.Player{ID: id, Name: name, State: player.StatePlaying, Character: c}
}

func TestRecordAndListRoster(t *testing.T) {
	r, _ := repo(t)
	ctx := context.Background()
	matchID := uuid.NewString()

	players := []player.Player{
		playing("p1", "alpha", "Mage", "Good", "Swift", "Keen"),
		playing("p2", "beta", "Rogue", "Evil"),
		{ID: "p3", Name: "gamma", State: player.StatePlaying},
	}
	require.NoError(t, r.RecordRoster(ctx, matchID, players))

	roster, err := r.ListRoster(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, matchID, roster.MatchID)
	assert.WithinDuration(t, time.Now(), roster.StartedAt, time.Minute)
	assert.Equal(t, []postgres.RosterEntry{
		{Seat: 0, PlayerID: "p1", Name: "alpha", ClassName: "Mage", Allegiance: "Good", Modifiers: []string{"Keen", "Swift"}},
		{Seat: 1, PlayerID: "p2", Name: "beta", ClassName: "Rogue", Allegiance: "Evil", Modifiers: []string{}},
		{Seat: 2, PlayerID: "p3", Name: "gamma", ClassName: character.None, Allegiance: character.None, Modifiers: []string{}},
	}, roster.Entries)
}

func TestRecordRoster_Duplicate(t *testing.T) {
	r, _ := repo(t)
	ctx := context.Background()
	matchID := uuid.NewString()
	players := []player.Player{playing("p1", "alpha", "Mage", "Good")}

	require.NoError(t, r.RecordRoster(ctx, matchID, players))
	assert.ErrorIs(t, r.RecordRoster(ctx, matchID, players), postgres.ErrMatchExists)
}

func TestRecordRoster_RollsBackOnFailure(t *testing.T) {
	r, pc := repo(t)
	ctx := context.Background()
	matchID := uuid.NewString()
	// The second name overflows VARCHAR(64).
	long := strings.Repeat("x", 100)
	players := []player.Player{
		playing("p1", "alpha", "Mage", "Good"),
		playing("p2", long, "Rogue", "Evil"),
	}
	assert.Error(t, r.RecordRoster(ctx, matchID, players))

	var n int
	require.NoError(t, pc.RawPool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n))
	assert.Zero(t, n)
	_, err := r.ListRoster(ctx, matchID)
	assert.ErrorIs(t, err, postgres.ErrMatchNotFound)
}

func TestListRoster_NotFound(t *testing.T) {
	r, _ := repo(t)
	_, err := r.ListRoster(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, postgres.ErrMatchNotFound)
}

func TestRecentMatches(t *testing.T) {
	r, _ := repo(t)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		id := uuid.NewString()
		ids = append(ids, id)
		require.NoError(t, r.RecordRoster(ctx, id, []player.Player{playing("p", "alpha", "Mage", "Good")}))
	}

	recent, err := r.RecentMatches(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	for _, id := range recent {
		assert.Contains(t, ids, id)
	}
	assert.Panics(t, func() { _, _ = r.RecentMatches(ctx, 0) })
}
