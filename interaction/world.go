package interaction

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/plus3/grasp/ecs"
	"github.com/plus3/grasp/scene"
)

// World wires the component registry, storage, and scheduler for the
// interaction core and registers the five passes with their declared
// ordering: the raycast pass runs before the button and draggable passes;
// calibration and instruction visibility are independent of the raycast
// result and run after the FSM passes in registration order.
type World struct {
	registry  *ecs.ComponentRegistry
	storage   *ecs.Storage
	scheduler *ecs.Scheduler

	input    *ecs.Singleton[PointerInput]
	tracking *ecs.Singleton[TrackingState]

	log *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for transition-edge debug logs. The
// default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		w.log = log
	}
}

// NewWorld creates a ready-to-run interaction world.
func NewWorld(opts ...Option) *World {
	w := &World{log: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}

	w.registry = ecs.NewComponentRegistry()
	ecs.RegisterComponent[ObjectBinding](w.registry)
	ecs.RegisterComponent[Intersectable](w.registry)
	ecs.RegisterComponent[Button](w.registry)
	ecs.RegisterComponent[Draggable](w.registry)
	ecs.RegisterComponent[OffsetFromCamera](w.registry)
	ecs.RegisterComponent[NeedsCalibration](w.registry)
	ecs.RegisterComponent[InstructionText](w.registry)

	w.storage = ecs.NewStorage(w.registry)
	w.scheduler = ecs.NewScheduler(w.storage)

	w.input = ecs.NewSingleton[PointerInput](w.storage)
	w.tracking = ecs.NewSingleton[TrackingState](w.storage)

	raycast := NewRaycastSystem(w.log)
	w.scheduler.Register(raycast)
	w.scheduler.Register(NewButtonSystem(w.log), ecs.After(raycast))
	w.scheduler.Register(NewDraggableSystem(w.log), ecs.After(raycast))
	w.scheduler.Register(NewCalibrationSystem(w.log))
	w.scheduler.Register(NewInstructionSystem())

	return w
}

// Storage exposes the underlying component storage for hosts that spawn
// entities directly.
func (w *World) Storage() *ecs.Storage {
	return w.storage
}

// Scheduler exposes the underlying scheduler, e.g. for execution stats.
func (w *World) Scheduler() *ecs.Scheduler {
	return w.scheduler
}

// SetTracking records the host's tracking session state for subsequent
// frames.
func (w *World) SetTracking(active bool, cameraPosition mgl64.Vec3) {
	t := w.tracking.Get()
	t.SessionActive = active
	t.CameraPosition = cameraPosition
}

// Frame runs one interaction frame: the host's pointers are published to the
// passes, then every pass executes once in dependency order.
func (w *World) Frame(dt float64, pointers []HandPointer) {
	w.input.Get().Pointers = pointers
	w.scheduler.Once(dt)
}

// SpawnButton creates a pressable entity bound to the given node. The action
// fires once per press edge.
func (w *World) SpawnButton(node *scene.Node, bounds scene.Bounds, action func()) ecs.EntityId {
	return w.storage.Spawn(
		ObjectBinding{Node: node, Bounds: bounds},
		Intersectable{},
		Button{Action: action},
	)
}

// SpawnDraggable creates a grabbable entity bound to the given node.
func (w *World) SpawnDraggable(node *scene.Node, bounds scene.Bounds) ecs.EntityId {
	return w.storage.Spawn(
		ObjectBinding{Node: node, Bounds: bounds},
		Intersectable{},
		Draggable{},
	)
}

// SpawnCalibrated creates an entity that will be placed relative to the
// tracking camera once a session is active.
func (w *World) SpawnCalibrated(node *scene.Node, offset mgl64.Vec3) ecs.EntityId {
	return w.storage.Spawn(
		ObjectBinding{Node: node},
		OffsetFromCamera{X: offset.X(), Y: offset.Y(), Z: offset.Z()},
		NeedsCalibration{},
	)
}

// SpawnInstruction creates a helper entity whose visibility follows hand
// tracking.
func (w *World) SpawnInstruction(node *scene.Node) ecs.EntityId {
	return w.storage.Spawn(
		ObjectBinding{Node: node},
		InstructionText{},
	)
}
