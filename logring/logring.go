// Package logring is the kernel's diagnostic trail: a fixed-capacity ring of
// line records. It is passive and non-blocking, never influences scheduling,
// and allocates all storage up front.
package logring

// Storage is fixed so the ring fits board RAM without allocation.
const (
	MaxLines   = 100 // line records held before the ring overwrites
	MaxLineLen = 64  // bytes per record; longer input is truncated
)

type record struct {
	buf [MaxLineLen]byte
	n   int
}

// Ring holds the most recent min(count, MaxLines) lines in chronological
// order. The zero value is ready to use.
type Ring struct {
	lines [MaxLines]record
	next  int // write cursor
	held  int // lines currently stored, <= MaxLines
	total int // lines ever recorded
}

// New returns an empty ring.
func New() *Ring { return &Ring{} }

// Record appends one line, overwriting the oldest once the ring is full.
// O(1), no allocation beyond the copy into the preallocated slot.
func (r *Ring) Record(line string) {
	rec := &r.lines[r.next]
	rec.n = copy(rec.buf[:], line)
	r.advance()
}

// RecordBytes is Record for callers composing lines into scratch buffers.
func (r *Ring) RecordBytes(line []byte) {
	rec := &r.lines[r.next]
	rec.n = copy(rec.buf[:], line)
	r.advance()
}

func (r *Ring) advance() {
	r.next = (r.next + 1) % MaxLines
	if r.held < MaxLines {
		r.held++
	}
	r.total++
}

// LastN returns up to n most recent lines, oldest first. n larger than the
// held count returns everything. The read is non-destructive.
func (r *Ring) LastN(n int) []string {
	if n > r.held {
		n = r.held
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	// Walk back n slots from the write cursor, then forward.
	start := (r.next - n + MaxLines) % MaxLines
	for i := 0; i < n; i++ {
		rec := &r.lines[(start+i)%MaxLines]
		out = append(out, string(rec.buf[:rec.n]))
	}
	return out
}

// Stats reports lines currently held and lines ever recorded.
func (r *Ring) Stats() (held, total int) { return r.held, r.total }

// Clear resets the ring to empty. Used by the restart command.
func (r *Ring) Clear() {
	r.next = 0
	r.held = 0
	r.total = 0
}
