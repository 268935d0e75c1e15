package telnet

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	GA   byte = 249 // Go Ahead
	NOP  byte = 241
	SE   byte = 240 // Sub-negotiation End

	// Telnet options
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptNAWS            byte = 31 // Negotiate About Window Size, RFC 1073
)

// maxLine bounds a single input line; longer input is truncated.
const maxLine = 1024

// Conn wraps a TCP connection with Telnet protocol handling. It strips IAC
// sequences from input, records the client's window width when the client
// reports it, and provides line-based reading.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex // serializes writes
	width  atomic.Int32
	// afterCR is set when a line ended in CR with nothing buffered behind it, so a
	// late LF or NUL still belongs to that line. Only the reading goroutine touches it.
	afterCR bool

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead and asks the client to report its window size.
//
// Postcondition: Negotiation bytes are written to the connection.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{
		IAC, WILL, OptSuppressGoAhead,
		IAC, DO, OptNAWS,
	})
}

// Width returns the client's reported terminal width in columns, or 0 if the
// client has not reported one.
func (c *Conn) Width() int {
	return int(c.width.Load())
}

// ReadLine reads a single line of input, filtering Telnet IAC sequences and control
// characters other than tab. The returned line does not include the line terminator.
//
// Postcondition: Returns the next line of text input, or an error (including io.EOF).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		if c.afterCR {
			c.afterCR = false
			if b == '\n' || b == 0 {
				continue
			}
		}

		switch {
		case b == IAC:
			if err := c.handleIAC(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if c.reader.Buffered() == 0 {
				c.afterCR = true
				return line.String(), nil
			}
			if next, err := c.reader.Peek(1); err == nil && (next[0] == '\n' || next[0] == 0) {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b < 32 && b != '\t':
		case line.Len() < maxLine:
			line.WriteByte(b)
		}
	}
}

// handleIAC consumes one Telnet command after its IAC byte has been read.
func (c *Conn) handleIAC() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		payload, err := c.readSubnegotiation()
		if err != nil {
			return err
		}
		if len(payload) == 5 && payload[0] == OptNAWS {
			c.width.Store(int32(binary.BigEndian.Uint16(payload[1:3])))
		}
	}
	return nil
}

// readSubnegotiation returns the bytes between IAC SB and IAC SE with escaped
// IAC bytes collapsed.
func (c *Conn) readSubnegotiation() ([]byte, error) {
	var payload []byte
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != IAC {
			payload = append(payload, b)
			continue
		}
		next, err := c.reader.ReadByte()
		if err != nil {
			return nil, err
		}
		if next == SE {
			return payload, nil
		}
		payload = append(payload, next)
	}
}

func (c *Conn) armWrite() {
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
}

// WriteLine sends a line of text followed by \r\n to the client.
//
// Precondition: text should not contain trailing newline characters.
func (c *Conn) WriteLine(text string) error {
	return c.WriteLines(text)
}

// WriteLines sends each line followed by \r\n in a single write.
func (c *Conn) WriteLines(lines ...string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	return c.Write([]byte(b.String()))
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armWrite()
	_, err := c.raw.Write(data)
	return err
}

// WritePrompt sends a prompt string without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armWrite()
	_, err := fmt.Fprint(c.raw, prompt)
	return err
}

// Close closes the underlying TCP connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC removes Telnet IAC sequences from raw input bytes. An escaped IAC
// (IAC IAC) yields one literal 0xFF.
//
// Postcondition: Returns input with all IAC sequences removed.
func FilterIAC(input []byte) []byte {
	result := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		if input[i] != IAC || i+1 >= len(input) {
			result = append(result, input[i])
			i++
			continue
		}
		switch input[i+1] {
		case WILL, WONT, DO, DONT:
			i += 3
		case SB:
			j := i + 2
			for j < len(input)-1 && !(input[j] == IAC && input[j+1] == SE) {
				j++
			}
			i = j + 2
		case IAC:
			result = append(result, IAC)
			i += 2
		default:
			i += 2
		}
	}
	return result
}
