package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/grasp/scene"
)

func TestNodeWorldPosition(t *testing.T) {
	root := scene.NewNode("root")
	root.SetPosition(mgl64.Vec3{1, 0, 0})

	child := scene.NewNode("child")
	child.SetParent(root)
	child.SetPosition(mgl64.Vec3{0, 2, 0})

	assert.Equal(t, mgl64.Vec3{1, 2, 0}, child.WorldPosition())
}

func TestNodeSetParentMovesChildLinks(t *testing.T) {
	a := scene.NewNode("a")
	b := scene.NewNode("b")
	child := scene.NewNode("child")

	child.SetParent(a)
	require.Equal(t, a, child.Parent())
	require.Len(t, a.Children(), 1)

	child.SetParent(b)
	assert.Equal(t, b, child.Parent())
	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)
}

func TestNodeReparentPreservesWorldPosition(t *testing.T) {
	a := scene.NewNode("a")
	a.SetPosition(mgl64.Vec3{5, 0, 0})
	b := scene.NewNode("b")
	b.SetPosition(mgl64.Vec3{0, 0, 3})

	child := scene.NewNode("child")
	child.SetParent(a)
	child.SetPosition(mgl64.Vec3{0, 1, 0})

	world := child.WorldPosition()
	child.SetParent(b)

	assert.Equal(t, world, child.WorldPosition())
	assert.Equal(t, mgl64.Vec3{5, 1, -3}, child.Position())
}

func TestNodeSetParentNilMakesRoot(t *testing.T) {
	parent := scene.NewNode("parent")
	parent.SetPosition(mgl64.Vec3{1, 1, 1})

	child := scene.NewNode("child")
	child.SetParent(parent)
	child.SetPosition(mgl64.Vec3{1, 0, 0})

	child.SetParent(nil)

	assert.Nil(t, child.Parent())
	assert.Equal(t, mgl64.Vec3{2, 1, 1}, child.WorldPosition())
}

func TestNodeSetWorldPosition(t *testing.T) {
	parent := scene.NewNode("parent")
	parent.SetPosition(mgl64.Vec3{0, 10, 0})

	child := scene.NewNode("child")
	child.SetParent(parent)
	child.SetWorldPosition(mgl64.Vec3{3, 10, 0})

	assert.Equal(t, mgl64.Vec3{3, 0, 0}, child.Position())
	assert.Equal(t, mgl64.Vec3{3, 10, 0}, child.WorldPosition())
}

func TestNodeIDsAreUnique(t *testing.T) {
	a := scene.NewNode("x")
	b := scene.NewNode("x")
	assert.NotEqual(t, a.ID(), b.ID())
}
