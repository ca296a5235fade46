package ecs

// System represents a behavior that operates on entities with specific
// components once per frame. User-defined systems implement this interface
// and may declare Query and Singleton fields, which the Scheduler wires up
// at registration, along with custom state fields that persist across frames.
type System interface {
	Execute(frame *Frame)
}
