// Package testutil holds helpers for end-to-end tests that drive the game over Telnet.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/wanderer/internal/config"
	"github.com/cory-johannsen/wanderer/internal/frontend/telnet"
)

// Prompt is the visible text the game writes before each read.
const Prompt = "> "

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

// StripANSI removes color escape sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// StartAcceptor serves h on a loopback port and stops it when the test ends.
//
// Postcondition: Returns the listening address.
func StartAcceptor(t *testing.T, h telnet.SessionHandler) string {
	t.Helper()
	acc := telnet.NewAcceptor(config.TelnetConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		Width:        78,
	}, h, zaptest.NewLogger(t))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	go func() { _ = acc.Serve(listener) }()
	t.Cleanup(acc.Stop)
	return listener.Addr().String()
}

// TelnetClient is a line-oriented test client. Output it returns has color
// escapes stripped and CRLF collapsed to LF.
type TelnetClient struct {
	conn    net.Conn
	reader  *bufio.Reader
	pending strings.Builder
	t       *testing.T
}

// NewTelnetClient dials addr and consumes the server's option negotiation.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
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

// ReportWidth sends a NAWS subnegotiation announcing cols terminal columns.
func (c *TelnetClient) ReportWidth(cols int) {
	c.t.Helper()
	c.write([]byte{
		telnet.IAC, telnet.SB, telnet.OptNAWS,
		byte(cols >> 8), byte(cols), 0, 24,
		telnet.IAC, telnet.SE,
	})
}

// ReadUntil reads until the plain output contains substr, or fails the test on timeout.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the output up to and including the first match. Anything
// read past the match is kept for the next call.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	for {
		plain := c.pending.String()
		if i := strings.Index(plain, substr); i >= 0 {
			end := i + len(substr)
			c.pending.Reset()
			c.pending.WriteString(plain[end:])
			return plain[:end]
		}

		b, err := c.reader.ReadByte()
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, plain, err)
		}
		switch b {
		case telnet.IAC:
			c.skipCommand()
		case '\r':
		default:
			c.pending.WriteByte(b)
		}
		if strings.HasSuffix(c.pending.String(), "m") {
			stripped := StripANSI(c.pending.String())
			c.pending.Reset()
			c.pending.WriteString(stripped)
		}
	}
}

// skipCommand discards the Telnet command following an IAC byte.
func (c *TelnetClient) skipCommand() {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return
	}
	if cmd == telnet.WILL || cmd == telnet.WONT || cmd == telnet.DO || cmd == telnet.DONT {
		_, _ = c.reader.ReadByte()
	}
}

// ReadPrompt reads everything up to the next prompt, which always starts a line.
func (c *TelnetClient) ReadPrompt() string {
	c.t.Helper()
	return c.ReadUntil("\n"+Prompt, 5*time.Second)
}

// Command sends line and returns the output it produced, up to the next prompt.
func (c *TelnetClient) Command(line string) string {
	c.t.Helper()
	c.Send(line)
	return strings.TrimSuffix(c.ReadPrompt(), Prompt)
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	c.write([]byte(fmt.Sprintf("%s\r\n", text)))
}

func (c *TelnetClient) write(data []byte) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.conn.Write(data); err != nil {
		c.t.Fatalf("writing %q: %v", data, err)
	}
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
