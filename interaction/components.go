// Package interaction is the per-frame interaction core of a hand-tracked
// spatial application. Each frame it decides which bound object every hand
// pointer is aimed at, advances per-object interaction state machines
// (hover, press, drag attach/detach), and invokes application callbacks on
// state transitions. Scene assembly, tracking-session setup, and rendering
// belong to the host; the core only reads pointer state and mutates
// interaction components and the bound nodes' parent, scale, position, and
// visibility.
package interaction

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/grasp/scene"
)

// ButtonState is one phase of a button's interaction lifecycle.
type ButtonState uint8

const (
	ButtonNone ButtonState = iota
	ButtonHovered
	ButtonPressed
)

func (s ButtonState) String() string {
	switch s {
	case ButtonNone:
		return "none"
	case ButtonHovered:
		return "hovered"
	case ButtonPressed:
		return "pressed"
	}
	return "unknown"
}

// DragState is one phase of a draggable's interaction lifecycle. The
// to-be-attached and to-be-detached states are transient requests staked by
// the raycast pass and consumed by the draggable pass within the same frame.
type DragState uint8

const (
	DragNone DragState = iota
	DragHovered
	DragToBeAttached
	DragAttached
	DragToBeDetached
)

func (s DragState) String() string {
	switch s {
	case DragNone:
		return "none"
	case DragHovered:
		return "hovered"
	case DragToBeAttached:
		return "to-be-attached"
	case DragAttached:
		return "attached"
	case DragToBeDetached:
		return "to-be-detached"
	}
	return "unknown"
}

// ObjectBinding associates an entity with the node and bounding volume it
// represents. It is the only way systems reach renderable geometry.
type ObjectBinding struct {
	Node   *scene.Node
	Bounds scene.Bounds
}

// Intersectable marks an entity as a valid raycast target.
type Intersectable struct{}

// Button is the state of a pressable entity. Action is registered at entity
// creation and fired exactly once per hovered→pressed edge.
type Button struct {
	CurrState ButtonState
	PrevState ButtonState
	Action    func()
}

// Draggable is the state of a grabbable entity. OriginalParent is captured
// on first observation and restored on detach; AttachedPointer is the hand
// currently holding the object, nil while detached.
type Draggable struct {
	State           DragState
	OriginalParent  *scene.Node
	AttachedPointer HandPointer
}

// OffsetFromCamera is a camera-relative placement for calibrated entities.
type OffsetFromCamera struct {
	X, Y, Z float64
}

// Vec3 returns the offset as a vector.
func (o OffsetFromCamera) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{o.X, o.Y, o.Z}
}

// NeedsCalibration marks an entity as awaiting one-shot camera-relative
// placement. The calibration pass removes it once placement succeeds.
type NeedsCalibration struct{}

// InstructionText marks helper entities whose visibility follows hand
// tracking: shown while any hand is tracked, hidden otherwise.
type InstructionText struct{}

// PointerInput is the singleton carrying the host's hand pointers for the
// current frame, in a stable host-defined order.
type PointerInput struct {
	Pointers []HandPointer
}

// TrackingState is the singleton carrying the host's tracking session state
// for the current frame.
type TrackingState struct {
	SessionActive  bool
	CameraPosition mgl64.Vec3
}
