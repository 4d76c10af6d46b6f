// Package shell implements the console command interpreter: a byte-at-a-time
// line editor feeding a small command table. It never blocks; the main cycle
// calls Service once per iteration and the shell consumes whatever input has
// arrived since the last call.
package shell

import (
	"strings"

	"github.com/google/shlex"

	"karatos/errcode"
	"karatos/kernel"
	"karatos/logring"
	"karatos/types"
	"karatos/x/conv"
)

// MaxLineLen bounds the input accumulator. Longer lines are rejected whole,
// never truncated and executed.
const MaxLineLen = 64

// Prompt is written after every completed command and at startup.
const Prompt = "karatOS> "

// state of the line accumulator.
type state uint8

const (
	stateAccumulating state = iota
	stateDiscarding         // overflow: drop bytes until a line terminator
)

// Shell binds a kernel to its console. Construct one per kernel; it shares
// the kernel's single execution context and must only be used from it.
type Shell struct {
	k       *kernel.Kernel
	console types.Console

	buf   [MaxLineLen]byte
	n     int
	state state

	lastCR bool // swallow the LF of a CRLF pair

	out [MaxLineLen]byte // scratch for number formatting
}

// New builds a shell over k's console and writes the greeting and the first
// prompt.
func New(k *kernel.Kernel) *Shell {
	s := &Shell{k: k, console: k.Console()}
	s.writeLine("karatOS console ready (type 'help')")
	s.writePrompt()
	return s
}

// Service drains every byte currently readable from the console and advances
// the line state machine. It returns once the console has nothing buffered,
// so the main cycle stays live. Runs identically before and after exit.
func (s *Shell) Service() {
	for {
		b, ok := s.console.ReadByte()
		if !ok {
			return
		}
		s.feed(b)
	}
}

// feed advances the state machine by one input byte.
func (s *Shell) feed(b byte) {
	if s.lastCR && b == '\n' {
		s.lastCR = false
		return
	}
	s.lastCR = b == '\r'

	switch {
	case b == '\r' || b == '\n':
		if s.state == stateDiscarding {
			// Oversized line fully drained; back to a clean prompt.
			s.state = stateAccumulating
			s.writePrompt()
			return
		}
		s.console.WriteByte('\r')
		s.console.WriteByte('\n')
		line := string(s.buf[:s.n])
		s.n = 0
		s.execute(line)
		s.writePrompt()

	case b == 0x08 || b == 0x7f: // backspace, delete
		if s.state == stateDiscarding || s.n == 0 {
			return
		}
		s.n--
		// Erase the echoed character on the terminal.
		types.WriteString(s.console, "\b \b")

	case s.state == stateDiscarding:
		return

	case b < 0x20 || b > 0x7e: // ignore other control bytes
		return

	case s.n == MaxLineLen:
		s.n = 0
		s.state = stateDiscarding
		s.k.Log().Record("console: " + string(errcode.InputTooLong))
		s.writeLine("")
		s.writeLine("error: " + string(errcode.InputTooLong) + ": max 64 bytes")

	default:
		s.buf[s.n] = b
		s.n++
		s.console.WriteByte(b) // echo
	}
}

// -----------------------------------------------------------------------------
// Command dispatch
// -----------------------------------------------------------------------------

func (s *Shell) execute(line string) {
	fields, err := shlex.Split(line)
	if err != nil {
		s.writeLine("error: " + string(errcode.InvalidParams) + ": unbalanced quote")
		return
	}
	if len(fields) == 0 {
		return
	}
	if len(fields) > 1 {
		// Commands take no arguments: the whole line must match.
		s.unknown(strings.TrimSpace(line))
		return
	}
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case "help", "?":
		s.cmdHelp()
	case "status":
		s.cmdStatus()
	case "exit":
		s.cmdExit()
	case "restart", "reboot":
		s.cmdRestart()
	default:
		s.unknown(cmd)
	}
}

func (s *Shell) unknown(what string) {
	s.writeLine("error: " + string(errcode.UnknownCommand) + ": " + what + " (try 'help')")
}

func (s *Shell) cmdHelp() {
	s.writeLine("commands:")
	s.writeLine("  help | ?          show this text")
	s.writeLine("  status            kernel counters, tasks, queues, recent log")
	s.writeLine("  exit              stop scheduling (console stays up)")
	s.writeLine("  restart | reboot  reset kernel state and respawn tasks")
}

func (s *Shell) cmdExit() {
	s.k.Halt()
	s.writeLine("scheduler halted; 'restart' to resume")
}

func (s *Shell) cmdRestart() {
	s.k.Restart()
	s.writeLine("kernel restarted")
}

// cmdStatus prints counters, the live task table, per-class queue depths, and
// the retained diagnostic lines, oldest first.
func (s *Shell) cmdStatus() {
	c := s.k.Counters()

	s.kv("cycles", c.Cycles)
	s.kv("tasks active", uint64(c.ActiveTasks))
	s.kv("events posted", uint64(c.EventsPosted))
	s.kv("events dispatched", uint64(c.EventsDispatched))
	s.kv("events rejected", uint64(c.EventsRejected))
	s.kv("events unhandled", uint64(c.EventsUnhandled))
	if s.k.Halted() {
		s.writeLine("scheduler: halted")
	} else {
		s.writeLine("scheduler: running")
	}

	s.writeLine("tasks:")
	for _, ti := range s.k.Tasks() {
		b := s.out[:0]
		b = append(b, "  id="...)
		b = conv.AppendUint(b, uint64(ti.ID))
		b = append(b, " prio="...)
		b = append(b, ti.Priority.String()...)
		b = append(b, " state="...)
		b = append(b, ti.State.String()...)
		b = append(b, " work="...)
		b = conv.AppendUint(b, uint64(ti.Work))
		s.writeBytesLine(b)
	}

	depths := s.k.QueueDepths()
	b := s.out[:0]
	b = append(b, "queued events:"...)
	for p := kernel.PriorityHigh; p <= kernel.PriorityEventDriven; p++ {
		b = append(b, ' ')
		b = append(b, p.String()...)
		b = append(b, '=')
		b = conv.AppendUint(b, uint64(depths[p]))
	}
	s.writeBytesLine(b)

	held, total := s.k.Log().Stats()
	b = s.out[:0]
	b = append(b, "log: "...)
	b = conv.AppendUint(b, uint64(held))
	b = append(b, " of "...)
	b = conv.AppendUint(b, uint64(total))
	b = append(b, " lines retained"...)
	s.writeBytesLine(b)
	for _, line := range s.k.Log().LastN(logring.MaxLines) {
		s.writeLine("  " + line)
	}
}

// kv writes "name: value".
func (s *Shell) kv(name string, v uint64) {
	b := s.out[:0]
	b = append(b, name...)
	b = append(b, ": "...)
	b = conv.AppendUint(b, v)
	s.writeBytesLine(b)
}

// -----------------------------------------------------------------------------
// Output helpers
// -----------------------------------------------------------------------------

func (s *Shell) writePrompt() { types.WriteString(s.console, Prompt) }

func (s *Shell) writeLine(line string) {
	types.WriteString(s.console, line)
	types.WriteString(s.console, "\r\n")
}

func (s *Shell) writeBytesLine(b []byte) {
	for _, c := range b {
		s.console.WriteByte(c)
	}
	types.WriteString(s.console, "\r\n")
}
