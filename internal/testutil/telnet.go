package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/xanadu/internal/frontend/telnet"
)

// TelnetClient is a line-oriented Telnet client for end-to-end tests.
// Telnet commands and ANSI escapes are stripped from everything it reads.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
	seen   strings.Builder
}

// NewTelnetClient dials addr and returns a test client.
//
// Precondition: addr must be a "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}
	t.Cleanup(func() { conn.Close() })

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, reader: bufio.NewReader(conn), t: t}
}

// ReadUntil reads until the plain text received so far contains substr and
// returns that text. Text consumed by earlier calls is not returned again.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output containing substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
		if b == telnet.IAC {
			c.skipCommand()
			continue
		}
		buf.WriteByte(b)
		plain := telnet.StripANSI(buf.String())
		if strings.Contains(plain, substr) {
			c.seen.WriteString(plain)
			return plain
		}
	}
}

func (c *TelnetClient) skipCommand() {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return
	}
	switch cmd {
	case telnet.WILL, telnet.WONT, telnet.DO, telnet.DONT:
		_, _ = c.reader.ReadByte()
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Transcript returns every plain-text chunk returned by ReadUntil so far.
func (c *TelnetClient) Transcript() string {
	return c.seen.String()
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
