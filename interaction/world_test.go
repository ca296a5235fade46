package interaction_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/grasp/ecs"
	"github.com/plus3/grasp/interaction"
	"github.com/plus3/grasp/scene"
)

// stubPointer scripts intersection results per node, so tests control exact
// hit distances without building real geometry.
type stubPointer struct {
	hits     map[*scene.Node][]float64
	pinched  bool
	attached bool
	visible  bool

	grip   *scene.Node
	cursor float64
}

func newStubPointer(name string) *stubPointer {
	return &stubPointer{
		hits: make(map[*scene.Node][]float64),
		grip: scene.NewNode(name + "-grip"),
	}
}

func (p *stubPointer) Intersect(node *scene.Node, _ scene.Bounds) []scene.Hit {
	distances := p.hits[node]
	hits := make([]scene.Hit, 0, len(distances))
	for _, d := range distances {
		hits = append(hits, scene.Hit{Node: node, Distance: d})
	}
	return hits
}

func (p *stubPointer) IsPinched() bool           { return p.pinched }
func (p *stubPointer) IsAttached() bool          { return p.attached }
func (p *stubPointer) SetAttached(v bool)        { p.attached = v }
func (p *stubPointer) SetCursor(d float64)       { p.cursor = d }
func (p *stubPointer) GripNode() *scene.Node     { return p.grip }
func (p *stubPointer) Visible() bool             { return p.visible }

func button(w *interaction.World, id ecs.EntityId) *interaction.Button {
	return ecs.ReadComponent[interaction.Button](w.Storage(), id)
}

func draggable(w *interaction.World, id ecs.EntityId) *interaction.Draggable {
	return ecs.ReadComponent[interaction.Draggable](w.Storage(), id)
}

func TestButtonActionFiresOncePerPressEdge(t *testing.T) {
	world := interaction.NewWorld()
	node := scene.NewNode("btn")

	presses := 0
	id := world.SpawnButton(node, scene.Bounds{Radius: 0.1}, func() { presses++ })

	p := newStubPointer("hand")
	p.hits[node] = []float64{1.0}
	pointers := []interaction.HandPointer{p}

	// Hover without pinch.
	world.Frame(0.016, pointers)
	assert.Equal(t, 0, presses)
	assert.Equal(t, interaction.ButtonHovered, button(world, id).CurrState)

	// Pinch held for several frames: the action fires exactly once.
	p.pinched = true
	for i := 0; i < 5; i++ {
		world.Frame(0.016, pointers)
	}
	assert.Equal(t, 1, presses)
	assert.Equal(t, interaction.ButtonPressed, button(world, id).CurrState)

	// Release and press again: a second edge, a second invocation.
	p.pinched = false
	world.Frame(0.016, pointers)
	p.pinched = true
	world.Frame(0.016, pointers)
	assert.Equal(t, 2, presses)
}

func TestButtonVisualTrailsByOneFrame(t *testing.T) {
	world := interaction.NewWorld()
	node := scene.NewNode("btn")
	world.SpawnButton(node, scene.Bounds{Radius: 0.1}, nil)

	p := newStubPointer("hand")
	p.hits[node] = []float64{1.0}
	pointers := []interaction.HandPointer{p}

	// The frame that establishes the hover still renders the resting scale;
	// the enlargement shows one frame later.
	world.Frame(0.016, pointers)
	assert.Equal(t, 1.0, node.Scale())

	world.Frame(0.016, pointers)
	assert.Equal(t, 1.1, node.Scale())

	// Hover ends: enlargement persists one more frame, then rests.
	delete(p.hits, node)
	world.Frame(0.016, pointers)
	assert.Equal(t, 1.1, node.Scale())
	world.Frame(0.016, pointers)
	assert.Equal(t, 1.0, node.Scale())
}

func TestNearestEntityWinsWithStableTieBreak(t *testing.T) {
	world := interaction.NewWorld()

	far := scene.NewNode("far")
	tiedFirst := scene.NewNode("tied-first")
	tiedSecond := scene.NewNode("tied-second")

	farId := world.SpawnButton(far, scene.Bounds{}, nil)
	firstId := world.SpawnButton(tiedFirst, scene.Bounds{}, nil)
	secondId := world.SpawnButton(tiedSecond, scene.Bounds{}, nil)

	p := newStubPointer("hand")
	p.hits[far] = []float64{2.0}
	p.hits[tiedFirst] = []float64{1.0}
	p.hits[tiedSecond] = []float64{1.0}

	world.Frame(0.016, []interaction.HandPointer{p})

	assert.Equal(t, 1.0, p.cursor)
	assert.Equal(t, interaction.ButtonNone, button(world, farId).CurrState)
	assert.Equal(t, interaction.ButtonHovered, button(world, firstId).CurrState,
		"the first entity in query order wins the tie")
	assert.Equal(t, interaction.ButtonNone, button(world, secondId).CurrState)
}

func TestNoTargetFrameSetsSentinelCursor(t *testing.T) {
	world := interaction.NewWorld()
	node := scene.NewNode("btn")
	id := world.SpawnButton(node, scene.Bounds{Radius: 0.1}, nil)

	a := newStubPointer("a")
	b := newStubPointer("b")
	a.cursor = -1
	b.cursor = -1

	world.Frame(0.016, []interaction.HandPointer{a, b})

	assert.Equal(t, interaction.NoTargetCursorDistance, a.cursor)
	assert.Equal(t, interaction.NoTargetCursorDistance, b.cursor)
	assert.Equal(t, interaction.ButtonNone, button(world, id).CurrState)
	assert.Equal(t, interaction.ButtonNone, button(world, id).PrevState)
}

func TestDragAttachDetachRoundTrip(t *testing.T) {
	world := interaction.NewWorld()

	home := scene.NewNode("shelf")
	node := scene.NewNode("cube")
	node.SetParent(home)

	id := world.SpawnDraggable(node, scene.Bounds{Radius: 0.1})

	p := newStubPointer("hand")
	p.hits[node] = []float64{0.8}
	pointers := []interaction.HandPointer{p}

	// Hover only.
	world.Frame(0.016, pointers)
	assert.Equal(t, interaction.DragHovered, draggable(world, id).State)
	assert.Equal(t, home, node.Parent())

	// Pinch: the claim and the reparent land within one frame.
	p.pinched = true
	world.Frame(0.016, pointers)
	d := draggable(world, id)
	assert.Equal(t, interaction.DragAttached, d.State)
	assert.Equal(t, p.grip, node.Parent())
	assert.Same(t, p, d.AttachedPointer)
	assert.True(t, p.IsAttached())

	// Hold for a while; the attachment is stable.
	for i := 0; i < 10; i++ {
		world.Frame(0.016, pointers)
	}
	assert.Equal(t, interaction.DragAttached, draggable(world, id).State)
	assert.Equal(t, p.grip, node.Parent())

	// Release: the object returns to the parent captured at first
	// observation, however many frames have passed.
	p.pinched = false
	world.Frame(0.016, pointers)
	d = draggable(world, id)
	assert.Equal(t, interaction.DragNone, d.State)
	assert.Equal(t, home, node.Parent())
	assert.Nil(t, d.AttachedPointer)
	assert.False(t, p.IsAttached())
}

func TestDetachWorksWithoutHover(t *testing.T) {
	world := interaction.NewWorld()

	home := scene.NewNode("shelf")
	node := scene.NewNode("cube")
	node.SetParent(home)
	id := world.SpawnDraggable(node, scene.Bounds{Radius: 0.1})

	p := newStubPointer("hand")
	p.hits[node] = []float64{0.8}
	pointers := []interaction.HandPointer{p}

	p.pinched = true
	world.Frame(0.016, pointers)
	require.Equal(t, interaction.DragAttached, draggable(world, id).State)

	// The ray now points at nothing; releasing the pinch must still detach.
	delete(p.hits, node)
	p.pinched = false
	world.Frame(0.016, pointers)

	assert.Equal(t, interaction.DragNone, draggable(world, id).State)
	assert.Equal(t, home, node.Parent())
}

func TestPointerHoldsAtMostOneAttachment(t *testing.T) {
	world := interaction.NewWorld()

	first := scene.NewNode("first")
	second := scene.NewNode("second")
	firstId := world.SpawnDraggable(first, scene.Bounds{Radius: 0.1})
	secondId := world.SpawnDraggable(second, scene.Bounds{Radius: 0.1})

	p := newStubPointer("hand")
	p.hits[first] = []float64{0.5}
	pointers := []interaction.HandPointer{p}

	p.pinched = true
	world.Frame(0.016, pointers)
	require.Equal(t, interaction.DragAttached, draggable(world, firstId).State)

	// Still pinching, the ray drifts onto another draggable. The busy
	// pointer must not claim it.
	delete(p.hits, first)
	p.hits[second] = []float64{0.5}
	for i := 0; i < 3; i++ {
		world.Frame(0.016, pointers)
	}

	assert.Equal(t, interaction.DragAttached, draggable(world, firstId).State)
	assert.NotEqual(t, interaction.DragAttached, draggable(world, secondId).State)
	assert.Nil(t, draggable(world, secondId).AttachedPointer)
}

func TestDraggableHeldByOnePointerNotClaimedByAnother(t *testing.T) {
	world := interaction.NewWorld()

	node := scene.NewNode("cube")
	id := world.SpawnDraggable(node, scene.Bounds{Radius: 0.1})

	holder := newStubPointer("holder")
	thief := newStubPointer("thief")
	holder.hits[node] = []float64{0.5}
	thief.hits[node] = []float64{0.4}
	pointers := []interaction.HandPointer{holder, thief}

	holder.pinched = true
	world.Frame(0.016, pointers)
	require.Same(t, holder, draggable(world, id).AttachedPointer)

	thief.pinched = true
	world.Frame(0.016, pointers)

	assert.Same(t, holder, draggable(world, id).AttachedPointer)
	assert.Equal(t, node.Parent(), holder.grip)
	assert.False(t, thief.IsAttached())
}

func TestCalibrationIsOneShot(t *testing.T) {
	world := interaction.NewWorld()

	node := scene.NewNode("panel")
	world.SpawnCalibrated(node, mgl64.Vec3{0, -0.5, -1})

	// No session: the entity waits.
	world.Frame(0.016, nil)
	assert.Equal(t, mgl64.Vec3{}, node.WorldPosition())

	world.SetTracking(true, mgl64.Vec3{0, 1.6, 0})
	world.Frame(0.016, nil)
	assert.Equal(t, mgl64.Vec3{0, 1.1, -1}, node.WorldPosition())

	// The camera moves on; the placement never recurs.
	world.SetTracking(true, mgl64.Vec3{5, 5, 5})
	world.Frame(0.016, nil)
	world.Frame(0.016, nil)
	assert.Equal(t, mgl64.Vec3{0, 1.1, -1}, node.WorldPosition())
}

func TestInstructionVisibilityFollowsHands(t *testing.T) {
	world := interaction.NewWorld()

	node := scene.NewNode("help")
	world.SpawnInstruction(node)

	a := newStubPointer("a")
	b := newStubPointer("b")
	pointers := []interaction.HandPointer{a, b}

	world.Frame(0.016, pointers)
	assert.False(t, node.Visible(), "no tracked hand, no instructions")

	b.visible = true
	world.Frame(0.016, pointers)
	assert.True(t, node.Visible())

	b.visible = false
	world.Frame(0.016, pointers)
	assert.False(t, node.Visible())
}

func TestAttachedPointerInvariant(t *testing.T) {
	world := interaction.NewWorld()

	nodes := make([]*scene.Node, 3)
	ids := make([]ecs.EntityId, 3)
	for i := range nodes {
		nodes[i] = scene.NewNode("cube")
		ids[i] = world.SpawnDraggable(nodes[i], scene.Bounds{Radius: 0.1})
	}

	p := newStubPointer("hand")
	p.hits[nodes[1]] = []float64{0.3}
	p.hits[nodes[2]] = []float64{0.9}

	p.pinched = true
	world.Frame(0.016, []interaction.HandPointer{p})

	require.True(t, p.IsAttached())

	holders := 0
	for i, id := range ids {
		d := draggable(world, id)
		if d.AttachedPointer == interaction.HandPointer(p) {
			holders++
			assert.Equal(t, interaction.DragAttached, d.State)
			assert.Equal(t, 1, i, "the nearest draggable holds the attachment")
		}
	}
	assert.Equal(t, 1, holders, "an attached pointer maps to exactly one draggable")
}
