package shell

import (
	"strings"
	"testing"

	"karatos/hal"
	"karatos/kernel"
)

func newTestShell(t *testing.T) (*Shell, *kernel.Kernel, *hal.Loopback) {
	t.Helper()
	lb := &hal.Loopback{}
	k := kernel.New(kernel.Config{Console: lb})
	s := New(k)
	lb.Drain() // greeting and first prompt are covered separately
	return s, k, lb
}

// run types one full line and returns everything the shell wrote back.
func run(s *Shell, lb *hal.Loopback, line string) string {
	lb.Feed(line + "\r")
	s.Service()
	return lb.Drain()
}

func TestGreetingAndFirstPrompt(t *testing.T) {
	lb := &hal.Loopback{}
	k := kernel.New(kernel.Config{Console: lb})
	New(k)
	out := lb.Output()
	if !strings.Contains(out, "karatOS console ready") {
		t.Fatalf("greeting missing: %q", out)
	}
	if !strings.HasSuffix(out, Prompt) {
		t.Fatalf("output %q does not end with the prompt", out)
	}
}

func TestEmptyLineReprompts(t *testing.T) {
	s, _, lb := newTestShell(t)
	out := run(s, lb, "")
	if out != "\r\n"+Prompt {
		t.Fatalf("empty line produced %q, want newline and prompt only", out)
	}
}

func TestHelpIsIdempotent(t *testing.T) {
	s, _, lb := newTestShell(t)
	first := run(s, lb, "help")
	second := run(s, lb, "help")
	if first != second {
		t.Fatalf("help output changed between calls:\n%q\n%q", first, second)
	}
	for _, cmd := range []string{"help", "status", "exit", "restart"} {
		if !strings.Contains(first, cmd) {
			t.Errorf("help does not mention %q", cmd)
		}
	}
}

func TestHelpAlias(t *testing.T) {
	s, _, lb := newTestShell(t)
	long := run(s, lb, "help")
	short := run(s, lb, "?")
	// Identical apart from the echoed command itself.
	if strings.TrimPrefix(long, "help") != strings.TrimPrefix(short, "?") {
		t.Fatal("? and help disagree")
	}
}

func TestCommandsAreCaseInsensitive(t *testing.T) {
	s, _, lb := newTestShell(t)
	if out := run(s, lb, "HELP"); !strings.Contains(out, "commands:") {
		t.Fatalf("upper-case command rejected: %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	s, k, lb := newTestShell(t)
	out := run(s, lb, "frobnicate")
	if !strings.Contains(out, "unknown_command: frobnicate") {
		t.Fatalf("no rejection in %q", out)
	}
	if !strings.HasSuffix(out, Prompt) {
		t.Fatal("no fresh prompt after unknown command")
	}
	if k.Halted() || k.Cycles() != 0 {
		t.Fatal("unknown command disturbed kernel state")
	}
}

// A known command word followed by anything else is not a command: the whole
// line has to match.
func TestTrailingTokensRejected(t *testing.T) {
	s, k, lb := newTestShell(t)
	out := run(s, lb, "exit now please")
	if !strings.Contains(out, "unknown_command: exit now please") {
		t.Fatalf("trailing tokens not rejected: %q", out)
	}
	if k.Halted() {
		t.Fatal("exit ran despite trailing tokens")
	}
	if out = run(s, lb, "help verbose"); strings.Contains(out, "commands:") {
		t.Fatalf("help ran despite an argument: %q", out)
	}
}

func TestEchoAndBackspace(t *testing.T) {
	s, _, lb := newTestShell(t)
	lb.Feed("helq\x08p\r")
	s.Service()
	out := lb.Drain()
	if !strings.Contains(out, "helq\b \bp") {
		t.Fatalf("echo/erase sequence missing from %q", out)
	}
	// The corrected line executed as help.
	if !strings.Contains(out, "commands:") {
		t.Fatalf("edited line did not run: %q", out)
	}
}

func TestControlBytesIgnored(t *testing.T) {
	s, _, lb := newTestShell(t)
	lb.Feed("he\x01l\x1bp\r")
	s.Service()
	out := lb.Drain()
	if !strings.Contains(out, "commands:") {
		t.Fatalf("control bytes corrupted the line: %q", out)
	}
	if strings.ContainsAny(out, "\x01\x1b") {
		t.Fatal("control bytes were echoed")
	}
}

func TestCRLFExecutesOnce(t *testing.T) {
	s, _, lb := newTestShell(t)
	lb.Feed("help\r\n")
	s.Service()
	out := lb.Drain()
	if n := strings.Count(out, "commands:"); n != 1 {
		t.Fatalf("CRLF ran the line %d times", n)
	}
}

func TestInputTooLong(t *testing.T) {
	s, k, lb := newTestShell(t)
	lb.Feed(strings.Repeat("a", 80) + "\r")
	s.Service()
	out := lb.Drain()
	if !strings.Contains(out, "input_too_long") {
		t.Fatalf("oversize line not rejected: %q", out)
	}
	if lines := k.Log().LastN(1); len(lines) != 1 || !strings.Contains(lines[0], "input_too_long") {
		t.Fatalf("overflow not recorded in the ring: %v", lines)
	}
	if strings.Contains(out, "unknown_command") {
		t.Fatal("truncated junk reached the command table")
	}
	// The interpreter recovered: the next command runs normally.
	if out = run(s, lb, "help"); !strings.Contains(out, "commands:") {
		t.Fatalf("shell did not recover after overflow: %q", out)
	}
}

func TestExactlyMaxLengthLineStillRuns(t *testing.T) {
	s, _, lb := newTestShell(t)
	line := "help" + strings.Repeat(" ", MaxLineLen-4)
	out := run(s, lb, line)
	if strings.Contains(out, "input_too_long") {
		t.Fatalf("%d-byte line rejected: %q", len(line), out)
	}
	if !strings.Contains(out, "commands:") {
		t.Fatalf("full-width line did not execute: %q", out)
	}
}

func TestUnbalancedQuoteRejected(t *testing.T) {
	s, _, lb := newTestShell(t)
	out := run(s, lb, `status "oops`)
	if !strings.Contains(out, "unbalanced quote") {
		t.Fatalf("quote error not reported: %q", out)
	}
}

func TestStatusReflectsKernel(t *testing.T) {
	s, k, lb := newTestShell(t)
	if err := k.SpawnDemoTasks(); err != nil {
		t.Fatalf("demo tasks: %v", err)
	}
	for i := 0; i < 10; i++ {
		k.Cycle()
	}
	k.PostEvent(kernel.NewEvent(0x99, kernel.PriorityLow))

	out := run(s, lb, "status")
	for _, want := range []string{
		"cycles: 10",
		"tasks active: 4",
		"events posted: 1",
		"scheduler: running",
		"prio=high",
		"prio=event",
		"queued events: high=0 normal=0 low=1 event=0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q in:\n%s", want, out)
		}
	}
	// Spawn diagnostics are replayed from the ring, oldest first.
	if !strings.Contains(out, "spawn task 1 prio=high") {
		t.Errorf("log replay missing from status:\n%s", out)
	}
}

func TestExitHaltsButConsoleStaysLive(t *testing.T) {
	s, k, lb := newTestShell(t)
	out := run(s, lb, "exit")
	if !k.Halted() {
		t.Fatal("exit did not halt the scheduler")
	}
	if !strings.Contains(out, "halted") {
		t.Fatalf("exit gave no feedback: %q", out)
	}
	// Console keeps answering after the halt.
	if out = run(s, lb, "status"); !strings.Contains(out, "scheduler: halted") {
		t.Fatalf("status unresponsive after exit: %q", out)
	}
}

func TestRestartAndRebootAlias(t *testing.T) {
	s, k, lb := newTestShell(t)
	run(s, lb, "exit")
	out := run(s, lb, "restart")
	if k.Halted() {
		t.Fatal("restart left the scheduler halted")
	}
	if !strings.Contains(out, "kernel restarted") {
		t.Fatalf("restart gave no feedback: %q", out)
	}
	if k.ActiveTasks() != 4 {
		t.Fatalf("demo tasks not respawned: %d active", k.ActiveTasks())
	}

	run(s, lb, "exit")
	run(s, lb, "reboot")
	if k.Halted() {
		t.Fatal("reboot alias did not restart")
	}
}
