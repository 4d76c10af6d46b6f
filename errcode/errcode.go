package errcode

// Code is a stable kernel error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Capacity: recoverable, returned to the caller.
	CapacityExceeded Code = "capacity_exceeded" // task table full
	QueueFull        Code = "queue_full"        // event queue full for that priority

	// Protocol: recoverable, reported on the console.
	InputTooLong   Code = "input_too_long"
	UnknownCommand Code = "unknown_command"
	InvalidParams  Code = "invalid_params"

	// Lifecycle.
	Halted Code = "halted" // scheduling stopped by exit

	// Fatal: invariant violations only, never normal operation.
	CorruptTable Code = "corrupt_table"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Fatal reports whether a code belongs to the unrecoverable class.
func Fatal(c Code) bool { return c == CorruptTable }
