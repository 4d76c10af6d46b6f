package kernel

// Default demonstration task set: the same four-task demo the boards boot
// with. High and Normal run a fixed work quota then complete, the Low
// heartbeat runs for as long as the kernel does, and the EventDriven task
// only does work when an event it subscribed to is dispatched.

const (
	// DemoWorkQuota is the number of steps the High and Normal demo tasks
	// perform before completing.
	DemoWorkQuota = 5000

	// DemoEventID wakes the event-driven demo task.
	DemoEventID EventID = 0x4

	heartbeatEvery = 1000 // cycles between heartbeat log lines
)

// SpawnDemoTasks populates the table with the default demonstration task
// set. Called at boot and by the restart command.
func (k *Kernel) SpawnDemoTasks() error {
	if _, err := k.Spawn(PriorityHigh, quotaWorker("high demo done", DemoWorkQuota)); err != nil {
		return err
	}
	if _, err := k.Spawn(PriorityNormal, quotaWorker("normal demo done", DemoWorkQuota)); err != nil {
		return err
	}
	if _, err := k.Spawn(PriorityLow, heartbeat()); err != nil {
		return err
	}
	id, err := k.Spawn(PriorityEventDriven, eventWorker())
	if err != nil {
		return err
	}
	return k.Subscribe(id, DemoEventID)
}

// quotaWorker performs one unit of work per step and completes after quota
// steps.
func quotaWorker(doneMsg string, quota uint32) StepFunc {
	return func(ctx *StepContext) Status {
		if ctx.Work()+1 >= quota {
			ctx.Log(doneMsg)
			return StatusDone
		}
		return StatusReady
	}
}

// heartbeat logs a liveness line every heartbeatEvery steps and never
// completes.
func heartbeat() StepFunc {
	return func(ctx *StepContext) Status {
		if ctx.Work()%heartbeatEvery == 0 {
			ctx.Log("heartbeat")
		}
		return StatusReady
	}
}

// eventWorker is the demonstration event consumer. The Low heartbeat never
// completes, so this task is never reached by the priority scan and its
// steps run only via dispatch: the work counter counts handled events.
func eventWorker() StepFunc {
	return func(ctx *StepContext) Status {
		ctx.Log("handled event")
		return StatusReady
	}
}
