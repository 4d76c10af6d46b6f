package kernel

import "karatos/errcode"

// eventQueue is a bounded FIFO ring for one priority class. Storage is
// allocated once at kernel construction and never grows.
type eventQueue struct {
	events []Event
	head   int
	tail   int
	count  int
}

func (q *eventQueue) init(depth int) {
	q.events = make([]Event, depth)
	q.head, q.tail, q.count = 0, 0, 0
}

// push appends; reports false when the ring is full. Overflow never
// overwrites queued events.
func (q *eventQueue) push(ev Event) bool {
	if q.count >= len(q.events) {
		return false
	}
	q.events[q.tail] = ev
	q.tail = (q.tail + 1) % len(q.events)
	q.count++
	return true
}

// pop removes the oldest event.
func (q *eventQueue) pop() (Event, bool) {
	if q.count == 0 {
		return Event{}, false
	}
	ev := q.events[q.head]
	q.head = (q.head + 1) % len(q.events)
	q.count--
	return ev, true
}

func (q *eventQueue) clear() {
	q.head, q.tail, q.count = 0, 0, 0
}

// -----------------------------------------------------------------------------
// Posting and draining
// -----------------------------------------------------------------------------

// PostEvent appends ev to the queue of its priority class. Returns
// errcode.QueueFull when that class is at capacity; the producer decides
// whether to retry or drop. Returns errcode.Halted once scheduling has
// stopped, since nothing would ever drain the event. Safe to call from
// inside an event handler: the event is queued, never handled inline.
func (k *Kernel) PostEvent(ev Event) error {
	if k.halted {
		return errcode.Halted
	}
	if !ev.Priority.Valid() {
		return &errcode.E{C: errcode.InvalidParams, Op: "post_event", Msg: "bad priority"}
	}
	if !k.queues[ev.Priority].push(ev) {
		k.eventsRejected++
		return errcode.QueueFull
	}
	k.eventsPosted++
	return nil
}

// drainOne removes the oldest event of the highest-priority non-empty class,
// using the same cross-class ordering rule as the scheduler.
func (k *Kernel) drainOne() (Event, bool) {
	for p := 0; p < numPriorities; p++ {
		if ev, ok := k.queues[p].pop(); ok {
			return ev, true
		}
	}
	return Event{}, false
}

// QueueDepths reports the number of queued events per priority class.
func (k *Kernel) QueueDepths() [numPriorities]int {
	var d [numPriorities]int
	for p := 0; p < numPriorities; p++ {
		d[p] = k.queues[p].count
	}
	return d
}
