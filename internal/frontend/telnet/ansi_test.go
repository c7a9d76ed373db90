package telnet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColor_Wrap(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Red.Wrap("danger"))
}

func TestColor_Wrapf(t *testing.T) {
	assert.Equal(t, "\033[36malpha is ready\033[0m", Cyan.Wrapf("%s is ready", "alpha"))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m \033[1;97mboth\033[0m"
	assert.Equal(t, "red normal bold green both", StripANSI(input))
}

func TestStripANSI_NoEscapes(t *testing.T) {
	assert.Equal(t, "plain text", StripANSI("plain text"))
}

// Property: stripping a wrapped string yields the original text.
func TestPropertyStripANSIUndoesWrap(t *testing.T) {
	colors := []Color{Bold, Dim, Red, Green, Yellow, Blue, Magenta, Cyan, BrightBlack, BrightYellow, BrightCyan, BrightWhite}
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ -~]{0,40}`).Filter(func(s string) bool {
			return !strings.Contains(s, "\033")
		}).Draw(rt, "text")
		c := rapid.SampledFrom(colors).Draw(rt, "color")
		if got := StripANSI(c.Wrap(text)); got != text {
			rt.Fatalf("StripANSI(%q) = %q", c.Wrap(text), got)
		}
	})
}
