package telnet

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// pipeConn returns a Conn reading input. Writes to the Conn are discarded.
func pipeConn(t testing.TB, input []byte) *Conn {
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	go func() {
		_, _ = client.Write(input)
		_ = client.Close()
	}()
	return NewConn(server, 0, 0)
}

func readAll(c *Conn) []string {
	var lines []string
	for {
		line, err := c.ReadLine()
		if err != nil {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestReadLine_Terminators(t *testing.T) {
	c := pipeConn(t, []byte("crlf\r\nlf\ncr\rlast\n"))
	assert.Equal(t, []string{"crlf", "lf", "cr", "last"}, readAll(c))
}

func TestReadLine_EOFReturnsPartialLine(t *testing.T) {
	c := pipeConn(t, []byte("partial"))
	line, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "partial", line)
}

func TestReadLine_StripsCommands(t *testing.T) {
	input := []byte{IAC, WILL, 1, 'h', IAC, DO, 34, 'i', IAC, SB, 24, 0, 'x', IAC, SE, '!', IAC, 241, '\n'}
	c := pipeConn(t, input)
	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hi!", line)
}

func TestReadLine_DropsControlBytes(t *testing.T) {
	c := pipeConn(t, []byte("a\x1b[31mb\tc\x07\n"))
	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a[31mb\tc", line)
}

func TestReadLine_TooLong(t *testing.T) {
	input := strings.Repeat("x", MaxLineLength+10) + "\nnext\n"
	c := pipeConn(t, []byte(input))

	_, err := c.ReadLine()
	assert.ErrorIs(t, err, ErrLineTooLong)

	line, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestWriteText_UsesCRLF(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	c := NewConn(server, 0, 0)

	got := make(chan []byte, 1)
	go func() {
		buf, _ := io.ReadAll(client)
		got <- buf
	}()
	require.NoError(t, c.WriteText("one\ntwo\r\n"))
	require.NoError(t, c.WritePrompt("> "))
	require.NoError(t, c.Close())

	assert.Equal(t, "one\r\ntwo\r\n> ", string(<-got))
}

// Property: lines of printable text survive a CRLF round trip.
func TestPropertyReadLineRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[ -~]{0,60}`), 1, 8).Draw(rt, "lines")
		var buf bytes.Buffer
		for _, l := range lines {
			buf.WriteString(l)
			buf.WriteString("\r\n")
		}
		c := pipeConn(t, buf.Bytes())
		got := readAll(c)
		if len(got) != len(lines) {
			rt.Fatalf("got %d lines, want %d", len(got), len(lines))
		}
		for i := range lines {
			if got[i] != lines[i] {
				rt.Fatalf("line %d: got %q, want %q", i, got[i], lines[i])
			}
		}
	})
}
