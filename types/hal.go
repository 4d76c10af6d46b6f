package types

// ------------------------
// HAL contract
// ------------------------
//
// The kernel core depends on exactly two pieces of hardware: a console byte
// transport and a monotonic tick source. Each target provides its own
// implementation (see the hal package); tests use in-memory fakes.

// Console is a byte-oriented, non-blocking console transport.
type Console interface {
	// WriteByte emits one byte. It must not block indefinitely.
	WriteByte(b byte)
	// ReadByte returns the next pending input byte, if any.
	ReadByte() (b byte, ok bool)
}

// TickSource supplies a monotonically increasing counter. Ticks feed
// diagnostics only; the scheduler never consults them.
type TickSource interface {
	Now() uint64
}

// WriteString sends s byte by byte over a Console.
func WriteString(c Console, s string) {
	for i := 0; i < len(s); i++ {
		c.WriteByte(s[i])
	}
}

// ------------------------
// Null implementations
// ------------------------

// NullConsole discards writes and never has input.
type NullConsole struct{}

func (NullConsole) WriteByte(byte)         {}
func (NullConsole) ReadByte() (byte, bool) { return 0, false }

// ZeroTicks always reports tick zero.
type ZeroTicks struct{}

func (ZeroTicks) Now() uint64 { return 0 }
