package ecs

// Frame carries the per-frame context handed to every system: the time step,
// total elapsed time since the scheduler started, the command buffer for
// deferred structural changes, and the storage for direct component reads.
type Frame struct {
	DeltaTime float64
	Elapsed   float64
	Commands  *Commands
	Storage   *Storage
}

func newFrame(dt, elapsed float64, storage *Storage, commands *Commands) *Frame {
	return &Frame{
		DeltaTime: dt,
		Elapsed:   elapsed,
		Commands:  commands,
		Storage:   storage,
	}
}
