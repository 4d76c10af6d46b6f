package kernel

import "karatos/errcode"

// slot is one entry of the fixed task table.
type slot struct {
	used     bool
	id       TaskID
	prio     Priority
	state    TaskState
	work     uint32
	step     StepFunc
	subEvent EventID
	hasSub   bool
}

// -----------------------------------------------------------------------------
// Spawning
// -----------------------------------------------------------------------------

// Spawn inserts a new Ready task into the first free slot of the table and
// returns its id. Ids are strictly increasing and never reused. Returns
// errcode.CapacityExceeded when the table is full; existing tasks are never
// evicted or reordered.
func (k *Kernel) Spawn(p Priority, step StepFunc) (TaskID, error) {
	if step == nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "spawn", Msg: "nil step"}
	}
	if !p.Valid() {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "spawn", Msg: "bad priority"}
	}
	for i := range k.slots {
		s := &k.slots[i]
		if s.used {
			continue
		}
		id := k.nextID
		k.nextID++
		*s = slot{used: true, id: id, prio: p, state: StateReady, step: step}
		k.logTask("spawn task", id, p.String())
		return id, nil
	}
	return 0, errcode.CapacityExceeded
}

// Subscribe binds a live task to an event id. A dispatched event with that id
// runs the task's step once as the handler execution. One event id per task;
// the most recent binding wins when ids collide across tasks.
func (k *Kernel) Subscribe(id TaskID, ev EventID) error {
	s := k.findTask(id)
	if s == nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "subscribe", Msg: "no such task"}
	}
	s.subEvent = ev
	s.hasSub = true
	return nil
}

func (k *Kernel) findTask(id TaskID) *slot {
	for i := range k.slots {
		if k.slots[i].used && k.slots[i].id == id {
			return &k.slots[i]
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Scheduling
// -----------------------------------------------------------------------------

// stepTask performs one scheduling decision: scan priority classes High down
// to EventDriven, pick the next Ready task after that class's round-robin
// cursor, and execute one bounded step. Reports the id of the task that ran.
func (k *Kernel) stepTask() (TaskID, bool) {
	n := len(k.slots)
	for p := Priority(0); p < numPriorities; p++ {
		start := k.cursor[p]
		for i := 0; i < n; i++ {
			idx := (start + i) % n
			s := &k.slots[idx]
			if !s.used || s.prio != p || s.state != StateReady {
				continue
			}
			// Advance the cursor past the selected task so equal-priority
			// peers take strict turns.
			k.cursor[p] = (idx + 1) % n
			id := s.id
			k.execute(idx)
			return id, true
		}
	}
	return 0, false
}

// execute runs one step of the task in slot idx. Used both for scheduled
// steps and for event handler dispatch; either way the kernel never begins a
// second unit of work before this one returns.
func (k *Kernel) execute(idx int) {
	s := &k.slots[idx]
	if !s.used || s.step == nil {
		k.fatal(errcode.CorruptTable, "step on empty slot")
		return
	}
	s.state = StateRunning
	ctx := StepContext{k: k, id: s.id, work: s.work}
	st := s.step(&ctx)

	// An aliased slot after a handler re-entered Spawn would be table
	// corruption; the single execution context makes it impossible unless a
	// step misuses kernel internals.
	if !s.used || s.id != ctx.id {
		k.fatal(errcode.CorruptTable, "slot changed under running task")
		return
	}
	s.work++
	if st == StatusDone {
		s.state = StateCompleted
		k.logTask("task done", s.id, s.prio.String())
		*s = slot{} // free the slot; the id is never reused
		return
	}
	s.state = StateReady
}

// dispatch hands a drained event to its subscribed task, running that task's
// step once as the handler execution. Events nobody subscribed to are
// counted and recorded, not errors.
func (k *Kernel) dispatch(ev Event) {
	for i := range k.slots {
		s := &k.slots[i]
		if s.used && s.hasSub && s.subEvent == ev.ID {
			k.eventsDispatched++
			k.logEvent("dispatch event", ev)
			k.execute(i)
			return
		}
	}
	k.eventsUnhandled++
	k.logEvent("event unhandled", ev)
}

// -----------------------------------------------------------------------------
// Introspection
// -----------------------------------------------------------------------------

// Tasks returns a snapshot of the live task table in slot order.
func (k *Kernel) Tasks() []TaskInfo {
	out := make([]TaskInfo, 0, len(k.slots))
	for i := range k.slots {
		s := &k.slots[i]
		if !s.used {
			continue
		}
		out = append(out, TaskInfo{ID: s.id, Priority: s.prio, State: s.state, Work: s.work})
	}
	return out
}

// ActiveTasks reports the number of occupied table slots.
func (k *Kernel) ActiveTasks() int {
	n := 0
	for i := range k.slots {
		if k.slots[i].used {
			n++
		}
	}
	return n
}
