package interaction

import "github.com/plus3/grasp/scene"

// NoTargetCursorDistance is where a pointer's cursor rests when its ray hits
// nothing: a fixed comfortable distance in front of the hand.
const NoTargetCursorDistance = 1.5

const (
	hoverScale  = 1.1
	normalScale = 1.0
)

// HandPointer is the core's view of one tracked hand. The host owns the
// implementation (scene.Pointer satisfies this); the core only queries it
// and toggles the attach flag.
type HandPointer interface {
	// Intersect casts the hand's ray against the node's bounding volume and
	// returns hits sorted by ascending distance.
	Intersect(node *scene.Node, bounds scene.Bounds) []scene.Hit
	// IsPinched reports whether the hand is currently pinching.
	IsPinched() bool
	// IsAttached reports whether the pointer already holds an attachment.
	// A pointer holds at most one attachment at a time.
	IsAttached() bool
	// SetAttached records that the pointer acquired or released an
	// attachment.
	SetAttached(bool)
	// SetCursor places the pointer's cursor visual at the given distance
	// along its ray.
	SetCursor(distance float64)
	// GripNode returns the node dragged objects are parented under while
	// attached.
	GripNode() *scene.Node
	// Visible reports whether the hand is currently tracked.
	Visible() bool
}
