//go:build !rp2040 && !rp2350

package hal

import (
	"github.com/mattn/go-tty"

	"karatos/types"
)

// TTYConsole is the interactive host console. A reader goroutine feeds a
// buffered channel so ReadByte never blocks the main cycle.
type TTYConsole struct {
	tty *tty.TTY
	in  chan byte
}

// OpenTTY puts the controlling terminal in raw mode and starts the reader.
func OpenTTY() (*TTYConsole, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	c := &TTYConsole{tty: t, in: make(chan byte, 256)}
	go c.readLoop()
	return c, nil
}

func (c *TTYConsole) readLoop() {
	for {
		r, err := c.tty.ReadRune()
		if err != nil {
			close(c.in)
			return
		}
		if r < 0x80 { // the shell speaks bytes; drop non-ASCII input
			c.in <- byte(r)
		}
	}
}

func (c *TTYConsole) WriteByte(b byte) {
	var buf [1]byte
	buf[0] = b
	c.tty.Output().Write(buf[:])
}

func (c *TTYConsole) ReadByte() (byte, bool) {
	select {
	case b, ok := <-c.in:
		return b, ok
	default:
		return 0, false
	}
}

// Close restores the terminal.
func (c *TTYConsole) Close() error { return c.tty.Close() }

// Loopback is an in-memory console for tests: scripted input via Feed, all
// output captured for inspection.
type Loopback struct {
	in  []byte
	out []byte
}

// Feed appends scripted input bytes.
func (l *Loopback) Feed(s string) { l.in = append(l.in, s...) }

func (l *Loopback) WriteByte(b byte) { l.out = append(l.out, b) }

func (l *Loopback) ReadByte() (byte, bool) {
	if len(l.in) == 0 {
		return 0, false
	}
	b := l.in[0]
	l.in = l.in[1:]
	return b, true
}

// Output returns everything written so far.
func (l *Loopback) Output() string { return string(l.out) }

// Drain returns the output and clears the capture buffer.
func (l *Loopback) Drain() string {
	s := string(l.out)
	l.out = l.out[:0]
	return s
}

var _ types.Console = (*TTYConsole)(nil)
var _ types.Console = (*Loopback)(nil)
