package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Tokens)
	assert.Nil(t, result.Args)
}

func TestParse_WhitespaceOnly(t *testing.T) {
	result := Parse(" \t  ")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Tokens)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("ready")
	assert.Equal(t, "ready", result.Command)
	assert.Equal(t, []string{"ready"}, result.Tokens)
	assert.Nil(t, result.Args)
}

func TestParse_LowercasesCommandOnly(t *testing.T) {
	result := Parse("READY Class=Mage")
	assert.Equal(t, "ready", result.Command)
	assert.Equal(t, []string{"READY", "Class=Mage"}, result.Tokens)
	assert.Equal(t, []string{"Class=Mage"}, result.Args)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  w   beta   hello   world  ")
	assert.Equal(t, "w", result.Command)
	assert.Equal(t, []string{"beta", "hello", "world"}, result.Args)
	assert.Equal(t, "beta hello world", Join(result.Args))
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		if result.Command != strings.ToLower(word) {
			t.Fatalf("Parse(%q).Command = %q", word, result.Command)
		}
	})
}

// Property: Join(Tokens) equals the input with whitespace runs collapsed.
func TestPropertyJoinCollapsesWhitespace(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 6).Draw(t, "words")
		sep := rapid.SampledFrom([]string{" ", "  ", "\t", " \t "}).Draw(t, "sep")
		result := Parse(strings.Join(words, sep))
		if Join(result.Tokens) != strings.Join(words, " ") {
			t.Fatalf("unexpected tokens %q for words %q", result.Tokens, words)
		}
	})
}
