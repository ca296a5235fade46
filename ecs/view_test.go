package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/grasp/ecs"
)

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 3})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	t.Run("fills all required components", func(t *testing.T) {
		item := view.Get(id)
		require.NotNil(t, item)
		assert.Equal(t, float32(1), item.Position.X)
		assert.Equal(t, float32(3), item.Velocity.DX)
	})

	t.Run("returns nil when a required component is missing", func(t *testing.T) {
		other := storage.Spawn(Position{})
		assert.Nil(t, view.Get(other))
	})
}

func TestViewOptionalField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 4})

	view := ecs.NewView[struct {
		*Position
		Vel *Velocity `ecs:"optional"`
	}](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, float32(4), item.Position.X)
	assert.Nil(t, item.Vel)
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 8})
	ref := storage.CreateEntityRef(id)

	view := ecs.NewView[struct{ *Position }](storage)

	require.NotNil(t, view.GetRef(ref))

	storage.Delete(id)
	assert.Nil(t, view.GetRef(ref))
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	id := view.Spawn(struct {
		*Position
		*Velocity
	}{
		Position: &Position{X: 10},
		Velocity: &Velocity{DX: 20},
	})

	assert.Equal(t, float32(10), ecs.ReadComponent[Position](storage, id).X)
	assert.Equal(t, float32(20), ecs.ReadComponent[Velocity](storage, id).DX)
}

func TestViewIterSkipsNonMatching(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{})
	storage.Spawn(Health{})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	count := 0
	for range view.Iter() {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestViewMutationThroughPointer(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	view := ecs.NewView[struct{ *Position }](storage)
	view.Get(id).Position.X = 55

	assert.Equal(t, float32(55), ecs.ReadComponent[Position](storage, id).X)
}
