// Package kernel is the cooperative core: a fixed-capacity priority
// scheduler, a bounded priority-partitioned event queue, and the main cycle
// tying them to the console interpreter. One execution context owns all
// state; nothing here locks, blocks, or allocates after construction beyond
// snapshot reads.
package kernel

import (
	"context"

	"karatos/errcode"
	"karatos/logring"
	"karatos/types"
	"karatos/x/conv"
	"karatos/x/mathx"
)

// Sized for the board targets; hosts can raise them through Config.
const (
	DefaultMaxTasks   = 8
	DefaultQueueDepth = 16 // events per priority class
)

// Config configures a Kernel. The zero value of every field means "use the
// default"; sizes are clamped to sane bounds.
type Config struct {
	MaxTasks   int // task table slots, 1..64
	QueueDepth int // events per priority class, 1..256

	Console types.Console    // defaults to types.NullConsole
	Ticks   types.TickSource // defaults to types.ZeroTicks

	// OnFatal, if set, observes the unrecoverable halt path after the final
	// diagnostic has been recorded. Scheduling is already stopped when it
	// runs.
	OnFatal func(code errcode.Code, msg string)
}

// Kernel owns the task table, the event queues, and the log ring. Thread it
// explicitly through the main cycle and the shell; it is not safe for
// concurrent use and is not meant to be.
type Kernel struct {
	console types.Console
	ticks   types.TickSource
	ring    *logring.Ring
	onFatal func(errcode.Code, string)

	slots  []slot
	cursor [numPriorities]int
	nextID TaskID

	queues [numPriorities]eventQueue

	cycles           uint64
	eventsPosted     uint32
	eventsDispatched uint32
	eventsRejected   uint32
	eventsUnhandled  uint32

	halted bool
	fatals int

	scratch [logring.MaxLineLen]byte
}

// New builds a kernel from cfg.
func New(cfg Config) *Kernel {
	k := &Kernel{
		console: cfg.Console,
		ticks:   cfg.Ticks,
		ring:    logring.New(),
		onFatal: cfg.OnFatal,
		nextID:  1,
	}
	if k.console == nil {
		k.console = types.NullConsole{}
	}
	if k.ticks == nil {
		k.ticks = types.ZeroTicks{}
	}
	k.slots = make([]slot, mathx.ClampDefault(cfg.MaxTasks, DefaultMaxTasks, 1, 64))
	depth := mathx.ClampDefault(cfg.QueueDepth, DefaultQueueDepth, 1, 256)
	for p := 0; p < numPriorities; p++ {
		k.queues[p].init(depth)
	}
	return k
}

// -----------------------------------------------------------------------------
// Main cycle
// -----------------------------------------------------------------------------

// Cycle runs one iteration of the main loop: dispatch at most one queued
// event, then execute at most one ready task step, in that fixed order.
// While halted it only advances the cycle counter, leaving the console loop
// responsive. Console servicing happens after Cycle, see Run.
func (k *Kernel) Cycle() {
	k.cycles++
	if k.halted {
		return
	}
	if ev, ok := k.drainOne(); ok {
		k.dispatch(ev)
	}
	if k.halted { // a handler may have tripped the fatal path
		return
	}
	k.stepTask()
}

// Run drives Cycle until ctx is cancelled, invoking service (typically the
// shell's console pump) at the end of every cycle.
func (k *Kernel) Run(ctx context.Context, service func()) {
	for ctx.Err() == nil {
		k.Cycle()
		if service != nil {
			service()
		}
	}
}

// Halt stops scheduling between cycles: no further events are dispatched and
// no task steps execute. The console stays responsive.
func (k *Kernel) Halt() {
	if !k.halted {
		k.ring.Record("halt: scheduling stopped")
	}
	k.halted = true
}

// Halted reports whether scheduling is stopped.
func (k *Kernel) Halted() bool { return k.halted }

// Restart returns the kernel to its initial state: task table, event queues,
// log ring, and counters cleared, then the default demonstration task set
// re-spawned. Equivalent to a power cycle; nothing persists across it.
func (k *Kernel) Restart() {
	for i := range k.slots {
		k.slots[i] = slot{}
	}
	for p := 0; p < numPriorities; p++ {
		k.queues[p].clear()
		k.cursor[p] = 0
	}
	k.ring.Clear()
	k.nextID = 1
	k.cycles = 0
	k.eventsPosted, k.eventsDispatched = 0, 0
	k.eventsRejected, k.eventsUnhandled = 0, 0
	k.halted = false
	k.fatals = 0
	k.ring.Record("restart: kernel state reset")
	k.SpawnDemoTasks()
}

// -----------------------------------------------------------------------------
// Counters and accessors
// -----------------------------------------------------------------------------

// Counters is the set of running totals reported by the status command.
type Counters struct {
	Cycles           uint64
	ActiveTasks      int
	EventsPosted     uint32
	EventsDispatched uint32
	EventsRejected   uint32
	EventsUnhandled  uint32
}

func (k *Kernel) Counters() Counters {
	return Counters{
		Cycles:           k.cycles,
		ActiveTasks:      k.ActiveTasks(),
		EventsPosted:     k.eventsPosted,
		EventsDispatched: k.eventsDispatched,
		EventsRejected:   k.eventsRejected,
		EventsUnhandled:  k.eventsUnhandled,
	}
}

// Cycles reports main-cycle iterations since construction or restart.
func (k *Kernel) Cycles() uint64 { return k.cycles }

// Log exposes the diagnostic ring. The shell reads it on status and clears
// it through Restart; everything else only appends.
func (k *Kernel) Log() *logring.Ring { return k.ring }

// Console exposes the byte transport the kernel was built with.
func (k *Kernel) Console() types.Console { return k.console }

// Tick reports the HAL's monotonic counter. Diagnostics only.
func (k *Kernel) Tick() uint64 { return k.ticks.Now() }

// -----------------------------------------------------------------------------
// Fatal path
// -----------------------------------------------------------------------------

// fatal records a final diagnostic, mirrors it on the console, and stops
// scheduling permanently. Reserved for invariant violations; normal
// operation must never reach it.
func (k *Kernel) fatal(code errcode.Code, msg string) {
	b := k.scratch[:0]
	b = append(b, "fatal: "...)
	b = append(b, string(code)...)
	b = append(b, ": "...)
	b = append(b, msg...)
	k.ring.RecordBytes(b)
	for _, c := range b {
		k.console.WriteByte(c)
	}
	k.console.WriteByte('\n')
	k.halted = true
	k.fatals++
	if k.onFatal != nil {
		k.onFatal(code, msg)
	}
}

// -----------------------------------------------------------------------------
// Ring line composition (no fmt, no allocation)
// -----------------------------------------------------------------------------

func (k *Kernel) logTask(msg string, id TaskID, prio string) {
	b := k.scratch[:0]
	b = append(b, msg...)
	b = append(b, ' ')
	b = conv.AppendUint(b, uint64(id))
	b = append(b, " prio="...)
	b = append(b, prio...)
	k.ring.RecordBytes(b)
}

func (k *Kernel) logEvent(msg string, ev Event) {
	b := k.scratch[:0]
	b = append(b, msg...)
	b = append(b, ' ')
	b = conv.AppendHex32(b, uint32(ev.ID))
	b = append(b, " prio="...)
	b = append(b, ev.Priority.String()...)
	k.ring.RecordBytes(b)
}

// -----------------------------------------------------------------------------
// Step context
// -----------------------------------------------------------------------------

// StepContext is handed to a step function for the duration of one step. It
// must not be retained after the step returns.
type StepContext struct {
	k    *Kernel
	id   TaskID
	work uint32
}

// TaskID identifies the running task.
func (c *StepContext) TaskID() TaskID { return c.id }

// Work is the task's work counter before this step; the scheduler advances
// it by one when the step returns.
func (c *StepContext) Work() uint32 { return c.work }

// Tick reads the HAL tick source.
func (c *StepContext) Tick() uint64 { return c.k.ticks.Now() }

// Log records one diagnostic line tagged with the task id.
func (c *StepContext) Log(msg string) {
	b := c.k.scratch[:0]
	b = append(b, "task "...)
	b = conv.AppendUint(b, uint64(c.id))
	b = append(b, ": "...)
	b = append(b, msg...)
	c.k.ring.RecordBytes(b)
}

// PostEvent queues an event for later, serialized handling. Called from an
// event handler it queues normally; nothing ever runs inline.
func (c *StepContext) PostEvent(ev Event) error { return c.k.PostEvent(ev) }
