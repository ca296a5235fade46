// Package scene provides the object layer the interaction core binds to:
// transform nodes with parent/child links, bounding volumes, rays, and hand
// pointers. Nodes carry translation only; the interaction core never needs
// orientation, it reasons about world-space positions and bounding spheres.
package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Node is a transform in a parent/child hierarchy. Position is local to the
// parent; scale and visibility are plain per-node flags consumed by the
// renderer, not inherited.
type Node struct {
	id       uuid.UUID
	name     string
	parent   *Node
	children []*Node

	position mgl64.Vec3
	scale    float64
	visible  bool
}

// NewNode creates a detached node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		id:      uuid.New(),
		name:    name,
		scale:   1,
		visible: true,
	}
}

// ID returns the node's unique identifier.
func (n *Node) ID() uuid.UUID {
	return n.id
}

// Name returns the node's display name.
func (n *Node) Name() string {
	return n.name
}

// Parent returns the node's current parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// SetParent detaches the node from its current parent and attaches it under
// the new one in a single step, preserving the node's world position. Passing
// nil makes the node a root. Within a frame a node is therefore never
// observable with an inconsistent parent.
func (n *Node) SetParent(parent *Node) {
	if n.parent == parent {
		return
	}

	world := n.WorldPosition()

	if n.parent != nil {
		n.parent.children = slices.DeleteFunc(n.parent.children, func(c *Node) bool {
			return c == n
		})
	}

	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}

	n.SetWorldPosition(world)
}

// Position returns the node's position local to its parent.
func (n *Node) Position() mgl64.Vec3 {
	return n.position
}

// SetPosition sets the node's position local to its parent.
func (n *Node) SetPosition(p mgl64.Vec3) {
	n.position = p
}

// WorldPosition composes translations up the parent chain.
func (n *Node) WorldPosition() mgl64.Vec3 {
	world := n.position
	for p := n.parent; p != nil; p = p.parent {
		world = world.Add(p.position)
	}
	return world
}

// SetWorldPosition sets the node's local position such that its world
// position equals w.
func (n *Node) SetWorldPosition(w mgl64.Vec3) {
	if n.parent == nil {
		n.position = w
		return
	}
	n.position = w.Sub(n.parent.WorldPosition())
}

// Scale returns the node's uniform scale factor.
func (n *Node) Scale() float64 {
	return n.scale
}

// SetScale sets the node's uniform scale factor.
func (n *Node) SetScale(s float64) {
	n.scale = s
}

// Visible returns the node's visibility flag.
func (n *Node) Visible() bool {
	return n.visible
}

// SetVisible sets the node's visibility flag.
func (n *Node) SetVisible(v bool) {
	n.visible = v
}
