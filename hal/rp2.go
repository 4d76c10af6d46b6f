//go:build rp2040 || rp2350

package hal

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"karatos/types"
)

// UARTConsole runs the shell over a hardware UART via the interrupt-driven
// uartx rings. Reads never block; writes go straight to the FIFO.
type UARTConsole struct {
	u *uartx.UART
}

// DefaultConsole configures UART0 on the standard Pico pins at 115200 baud.
func DefaultConsole() *UARTConsole {
	u := uartx.UART0
	u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return &UARTConsole{u: u}
}

func (c *UARTConsole) WriteByte(b byte) { c.u.WriteByte(b) }

func (c *UARTConsole) ReadByte() (byte, bool) {
	if c.u.Buffered() == 0 {
		return 0, false
	}
	var buf [1]byte
	n, err := c.u.Read(buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}

var _ types.Console = (*UARTConsole)(nil)
