// Package hal supplies the platform-specific console and tick sources behind
// the types.Console and types.TickSource contracts. Host builds get a TTY (or
// an in-memory loopback for tests); rp2040/rp2350 builds get a hardware UART.
package hal

import (
	"time"

	"tinygo.org/x/drivers"

	"karatos/types"
)

// DriverConsole adapts any drivers.UART stream into a types.Console. It is
// the common path for serial transports on both targets.
type DriverConsole struct {
	Port drivers.UART
}

func (c *DriverConsole) WriteByte(b byte) {
	var buf [1]byte
	buf[0] = b
	c.Port.Write(buf[:])
}

func (c *DriverConsole) ReadByte() (byte, bool) {
	if c.Port.Buffered() == 0 {
		return 0, false
	}
	var buf [1]byte
	n, err := c.Port.Read(buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}

// WallTicks counts milliseconds since construction.
type WallTicks struct {
	start time.Time
}

func NewWallTicks() *WallTicks { return &WallTicks{start: time.Now()} }

func (t *WallTicks) Now() uint64 {
	return uint64(time.Since(t.start) / time.Millisecond)
}

var _ types.Console = (*DriverConsole)(nil)
var _ types.TickSource = (*WallTicks)(nil)
