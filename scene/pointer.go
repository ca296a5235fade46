package scene

import "github.com/go-gl/mathgl/mgl64"

// Pointer models one tracked hand: a world-space ray, a pinch flag, an
// attachment flag, and two nodes of its own. The grip node is the child slot
// dragged objects attach under; the cursor node is a small visual placed
// along the ray at the distance set by SetCursor.
type Pointer struct {
	name     string
	ray      Ray
	pinched  bool
	attached bool
	visible  bool

	grip   *Node
	cursor *Node
}

// NewPointer creates a pointer with its grip and cursor nodes. The pointer
// starts untracked; the host flips visibility once the hand is acquired.
func NewPointer(name string) *Pointer {
	grip := NewNode(name + "-grip")
	cursor := NewNode(name + "-cursor")
	cursor.SetParent(grip)

	return &Pointer{
		name:   name,
		ray:    NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}),
		grip:   grip,
		cursor: cursor,
	}
}

// Name returns the pointer's display name.
func (p *Pointer) Name() string {
	return p.name
}

// SetRay updates the pointer's world-space ray and moves the grip node to
// the ray origin.
func (p *Pointer) SetRay(origin, direction mgl64.Vec3) {
	p.ray = NewRay(origin, direction)
	p.grip.SetWorldPosition(origin)
}

// Ray returns the pointer's current world-space ray.
func (p *Pointer) Ray() Ray {
	return p.ray
}

// Intersect casts the pointer's ray against the node's bounding sphere and
// returns the hits sorted by ascending distance.
func (p *Pointer) Intersect(node *Node, bounds Bounds) []Hit {
	center := node.WorldPosition().Add(bounds.Center)
	radius := bounds.Radius * node.Scale()

	distances := p.ray.IntersectSphere(center, radius)
	hits := make([]Hit, 0, len(distances))
	for _, d := range distances {
		hits = append(hits, Hit{Node: node, Distance: d})
	}
	return hits
}

// IsPinched reports whether the hand is currently pinching.
func (p *Pointer) IsPinched() bool {
	return p.pinched
}

// SetPinched sets the pinch flag; driven by the host's gesture recognizer.
func (p *Pointer) SetPinched(pinched bool) {
	p.pinched = pinched
}

// IsAttached reports whether the pointer currently holds an attachment.
func (p *Pointer) IsAttached() bool {
	return p.attached
}

// SetAttached marks the pointer as holding (or having released) an
// attachment.
func (p *Pointer) SetAttached(attached bool) {
	p.attached = attached
}

// SetCursor places the cursor node along the ray at the given distance.
func (p *Pointer) SetCursor(distance float64) {
	p.cursor.SetWorldPosition(p.ray.At(distance))
}

// CursorNode returns the pointer's cursor visual.
func (p *Pointer) CursorNode() *Node {
	return p.cursor
}

// GripNode returns the node dragged objects are parented under.
func (p *Pointer) GripNode() *Node {
	return p.grip
}

// Visible reports whether the hand is currently tracked.
func (p *Pointer) Visible() bool {
	return p.visible
}

// SetVisible sets the tracked flag; driven by the host's tracking loop.
func (p *Pointer) SetVisible(visible bool) {
	p.visible = visible
}
