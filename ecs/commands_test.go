package ecs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/grasp/ecs"
)

type spawnerSystem struct {
	Positions ecs.Query[struct{ *Position }]
}

func (s *spawnerSystem) Execute(frame *ecs.Frame) {
	// Structural changes are buffered; the entity set must stay stable while
	// systems run.
	frame.Commands.Spawn(Position{X: 100})
}

func TestCommandsDeferredUntilFrameEnd(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	spawner := &spawnerSystem{}
	scheduler.Register(spawner)

	scheduler.Once(1.0 / 60)
	scheduler.Once(1.0 / 60)

	// Frame 1 spawned one entity visible in frame 2, which spawned another.
	spawner.Positions.Execute()
	assert.Equal(t, 2, spawner.Positions.Count())
}

func TestCommandsDeleteWinsOverOtherOps(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	commands := &ecs.Commands{}
	commands.Delete(id)
	commands.AddComponent(id, Velocity{})
	commands.RemoveComponent(id, reflect.TypeFor[Position]())
	commands.Flush(storage)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Position]()))
}

func TestCommandsRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Tag{})
	ref := storage.CreateEntityRef(id)

	commands := &ecs.Commands{}
	commands.RemoveComponent(id, reflect.TypeFor[Tag]())
	commands.Flush(storage)

	newId, ok := storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.False(t, storage.HasComponent(newId, reflect.TypeFor[Tag]()))
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, newId).X)
}

func TestCommandsDeferRunsAfterStructuralChanges(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	observed := -1
	commands := &ecs.Commands{}
	commands.Delete(id)
	commands.Defer(func() {
		if storage.GetComponent(id, reflect.TypeFor[Position]()) == nil {
			observed = 1
		} else {
			observed = 0
		}
	})
	commands.Flush(storage)

	assert.Equal(t, 1, observed, "defer should observe the delete already applied")
}
