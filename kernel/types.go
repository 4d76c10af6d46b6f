package kernel

// -----------------------------------------------------------------------------
// Priorities
// -----------------------------------------------------------------------------

// Priority is one of the four fixed scheduling classes, shared by tasks and
// events. Lower values dominate: a ready High task always runs before any
// ready task of a later class.
type Priority uint8

const (
	PriorityHigh Priority = iota
	PriorityNormal
	PriorityLow
	PriorityEventDriven

	numPriorities = 4
)

func (p Priority) Valid() bool { return p < numPriorities }

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityEventDriven:
		return "event"
	default:
		return "invalid"
	}
}

// -----------------------------------------------------------------------------
// Tasks
// -----------------------------------------------------------------------------

// TaskID identifies a spawned task. IDs are assigned monotonically and are
// never reused, even after the task's slot is freed. Zero is never a valid id.
type TaskID uint32

// TaskState is the lifecycle of a table slot.
type TaskState uint8

const (
	StateReady TaskState = iota
	StateRunning
	StateCompleted
)

func (s TaskState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "invalid"
	}
}

// Status is what a step function reports back to the scheduler.
type Status uint8

const (
	// StatusReady: more work remains; re-invoke on a later cycle.
	StatusReady Status = iota
	// StatusDone: the task finished; its slot is freed.
	StatusDone
)

// StepFunc is one resumable unit of work. It must perform a bounded amount of
// work and return immediately; a step that never returns stalls the kernel.
type StepFunc func(ctx *StepContext) Status

// TaskInfo is a read-only snapshot of one live table entry.
type TaskInfo struct {
	ID       TaskID
	Priority Priority
	State    TaskState
	Work     uint32
}

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

// EventID names a hardware or software condition. Tasks subscribe by id.
type EventID uint32

// Event is a priority-tagged unit of deferred work. It is immutable after
// creation and consumed exactly once by the dispatcher.
type Event struct {
	ID       EventID
	Priority Priority
	Data     uint32
}

// NewEvent builds an event with an empty payload word.
func NewEvent(id EventID, p Priority) Event { return Event{ID: id, Priority: p} }
