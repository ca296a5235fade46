package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/grasp/ecs"
)

func TestQueryIterRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	assert.PanicsWithValue(t, "Query.Iter() called before Query.Execute()", func() {
		for range query.Iter() {
		}
	})
}

func TestQueryMatchesAcrossArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2}, Velocity{})
	storage.Spawn(Velocity{})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()

	assert.Equal(t, 2, query.Count())
}

func TestQuerySeesNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	query.Execute()
	assert.Equal(t, 0, query.Count())

	storage.Spawn(Position{})
	query.Execute()
	assert.Equal(t, 1, query.Count())

	// A new archetype that also matches.
	storage.Spawn(Position{}, Health{})
	query.Execute()
	assert.Equal(t, 2, query.Count())
}

func TestQueryIterationOrderStableWithinFrame(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	// Same archetype: iteration order is ascending slot index, i.e. spawn
	// order.
	for i := 0; i < 5; i++ {
		storage.Spawn(Position{X: float32(i)})
	}

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()

	var first []ecs.EntityId
	for id := range query.Iter() {
		first = append(first, id)
	}
	var second []ecs.EntityId
	for id := range query.Iter() {
		second = append(second, id)
	}

	require.Equal(t, 5, len(first))
	assert.Equal(t, first, second)

	prev := float32(-1)
	for item := range query.Values() {
		assert.Greater(t, item.Position.X, prev)
		prev = item.Position.X
	}
}

func TestQueryMutationVisibleToLaterReaders(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})

	writer := ecs.NewQuery[struct{ *Position }](storage)
	reader := ecs.NewQuery[struct{ *Position }](storage)
	writer.Execute()
	reader.Execute()

	for item := range writer.Values() {
		item.Position.X = 99
	}
	for item := range reader.Values() {
		assert.Equal(t, float32(99), item.Position.X)
	}
}

func TestQueryOptionalComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 5})

	query := ecs.NewQuery[struct {
		*Position
		Vel *Velocity `ecs:"optional"`
	}](storage)
	query.Execute()

	withVel := 0
	withoutVel := 0
	for item := range query.Values() {
		if item.Vel != nil {
			withVel++
		} else {
			withoutVel++
		}
	}
	assert.Equal(t, 1, withVel)
	assert.Equal(t, 1, withoutVel)
}
