package lobby_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/lobby"
	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

func rules() lobby.Rules {
	return lobby.Rules{Catalog: ruleset.DefaultCatalog(), FuzzyTolerance: 1}
}

func configure(line string, previous character.PrimordialCharacter) lobby.ConfigureResult {
	return lobby.ParsePrimordialCharacter(strings.Fields(line), previous, rules())
}

func TestParsePrimordialCharacter_AllFields(t *testing.T) {
	r := configure("ready class=mage allegiance=evil modifiers=2", character.PrimordialCharacter{})
	assert.Empty(t, r.Log)
	assert.Equal(t, "Mage", r.Character.ClassName)
	assert.Equal(t, "Evil", r.Character.Allegiance)
	require.NotNil(t, r.Character.NumModifiers)
	assert.Equal(t, 2, *r.Character.NumModifiers)
}

func TestParsePrimordialCharacter_ShortKeysAndTypos(t *testing.T) {
	r := configure("READY C=Warrir a=GOOD", character.PrimordialCharacter{})
	assert.Empty(t, r.Log)
	assert.Equal(t, "Warrior", r.Character.ClassName)
	assert.Equal(t, "Good", r.Character.Allegiance)
	assert.Nil(t, r.Character.NumModifiers)
}

func TestParsePrimordialCharacter_ClampsWithoutLogging(t *testing.T) {
	r := configure("ready m=999", character.PrimordialCharacter{})
	assert.Empty(t, r.Log)
	require.NotNil(t, r.Character.NumModifiers)
	assert.Equal(t, ruleset.DefaultMaxNumModifiers, *r.Character.NumModifiers)
}

func TestParsePrimordialCharacter_PartialFailure(t *testing.T) {
	r := configure("ready c=unknownclass a=good m=2", character.PrimordialCharacter{})
	assert.Equal(t, []string{"Unrecognized character class: unknownclass"}, r.Log)
	assert.Equal(t, "", r.Character.ClassName)
	assert.Equal(t, "Good", r.Character.Allegiance)
	assert.Equal(t, 2, r.Character.Modifiers())
}

func TestParsePrimordialCharacter_ErrorMessages(t *testing.T) {
	r := configure("ready a=chaotic m=-1 m=lots x=1 =2", character.PrimordialCharacter{})
	assert.Equal(t, []string{
		"Unrecognized allegiance: chaotic",
		"Bad number of modifiers: -1",
		"Bad number of modifiers: lots",
		"Unrecognized key: x",
		"Unrecognized key: ",
	}, r.Log)
}

func TestParsePrimordialCharacter_FirstComponentWins(t *testing.T) {
	r := configure("ready c=rogue c=mage m=1 m=3 a=good a=evil", character.PrimordialCharacter{})
	assert.Empty(t, r.Log, "repeated components are ignored silently")
	assert.Equal(t, "Rogue", r.Character.ClassName)
	assert.Equal(t, "Good", r.Character.Allegiance)
	assert.Equal(t, 1, r.Character.Modifiers())
}

func TestParsePrimordialCharacter_ZeroModifiersKeepsPrevious(t *testing.T) {
	previous := character.PrimordialCharacter{NumModifiers: character.Count(3)}
	r := configure("ready m=0", previous)
	assert.Empty(t, r.Log)
	require.NotNil(t, r.Character.NumModifiers)
	assert.Equal(t, 3, *r.Character.NumModifiers)

	r = configure("ready m=0 m=2", character.PrimordialCharacter{})
	assert.Nil(t, r.Character.NumModifiers, "a zero count still consumes the m component")
}

// Property: m=0 never changes the previous modifier count.
func TestPropertyZeroModifiersFallsBack(t *testing.T) {
	c := ruleset.DefaultCatalog()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, c.MaxNumModifiers).Draw(rt, "n")
		previous := character.PrimordialCharacter{NumModifiers: character.Count(n)}
		r := lobby.ParsePrimordialCharacter([]string{"ready", "m=0"}, previous, rules())
		if r.Character.Modifiers() != n {
			rt.Fatalf("previous %d became %d", n, r.Character.Modifiers())
		}
	})
}

func TestParsePrimordialCharacter_SplitsOnFirstEquals(t *testing.T) {
	r := configure("ready c=mage=x", character.PrimordialCharacter{})
	assert.Equal(t, []string{"Unrecognized character class: mage=x"}, r.Log)
}

func TestParsePrimordialCharacter_IgnoresBareTokens(t *testing.T) {
	r := configure("ready to go c=cleric", character.PrimordialCharacter{})
	assert.Empty(t, r.Log)
	assert.Equal(t, "Cleric", r.Character.ClassName)
}

func TestParsePrimordialCharacter_FallsBackToPrevious(t *testing.T) {
	previous := character.PrimordialCharacter{ClassName: "Ranger", Allegiance: "Neutral", NumModifiers: character.Count(2)}
	r := configure("ready", previous)
	assert.Empty(t, r.Log)
	assert.Equal(t, "Ranger", r.Character.ClassName)
	assert.Equal(t, "Neutral", r.Character.Allegiance)
	assert.Equal(t, 2, r.Character.Modifiers())
}

func TestParsePrimordialCharacter_PreviousIsNotAliased(t *testing.T) {
	n := 2
	previous := character.PrimordialCharacter{NumModifiers: &n}
	r := configure("ready m=1", previous)
	assert.Equal(t, 1, r.Character.Modifiers())
	assert.Equal(t, 2, n)
}

func TestParsePrimordialCharacter_PanicsWithoutReady(t *testing.T) {
	for _, tokens := range [][]string{nil, {}, {"go"}, {"c=mage"}} {
		func() {
			defer func() {
				r := recover()
				_, ok := r.(*session.InvariantViolation)
				assert.True(t, ok, "tokens %q: expected *InvariantViolation, got %v", tokens, r)
			}()
			lobby.ParsePrimordialCharacter(tokens, character.PrimordialCharacter{}, rules())
		}()
	}
}

// Property: any non-negative m value is clamped into [0, max] and never logged.
func TestPropertyModifierCountIsClamped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 1_000_000).Draw(rt, "n")
		maxN := rapid.IntRange(0, 10).Draw(rt, "max")
		c := ruleset.DefaultCatalog()
		c.MaxNumModifiers = maxN
		r := lobby.ParsePrimordialCharacter([]string{"ready", "m=" + strconv.Itoa(n)}, character.PrimordialCharacter{},
			lobby.Rules{Catalog: c, FuzzyTolerance: 1})
		if len(r.Log) != 0 {
			rt.Fatalf("unexpected log %q", r.Log)
		}
		got := r.Character.Modifiers()
		if got < 0 || got > maxN || (n <= maxN && got != n) || (n > maxN && got != maxN) {
			rt.Fatalf("m=%d max=%d: got %d", n, maxN, got)
		}
	})
}

// Property: a ready with no components leaves a configured character unchanged.
func TestPropertyBareReadyPreservesPrevious(t *testing.T) {
	c := ruleset.DefaultCatalog()
	rapid.Check(t, func(rt *rapid.T) {
		previous := character.PrimordialCharacter{
			ClassName:    rapid.SampledFrom(c.ClassNames()).Draw(rt, "class"),
			Allegiance:   rapid.SampledFrom(c.AllegianceNames()).Draw(rt, "allegiance"),
			NumModifiers: character.Count(rapid.IntRange(0, c.MaxNumModifiers).Draw(rt, "n")),
		}
		r := lobby.ParsePrimordialCharacter([]string{"ready"}, previous, rules())
		if len(r.Log) != 0 || r.Character.ClassName != previous.ClassName ||
			r.Character.Allegiance != previous.Allegiance || r.Character.Modifiers() != previous.Modifiers() {
			rt.Fatalf("previous %+v became %+v (log %q)", previous, r.Character, r.Log)
		}
	})
}
