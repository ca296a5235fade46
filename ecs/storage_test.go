package ecs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/grasp/ecs"
)

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Tag](registry)
	return registry
}

func TestStorageSpawnAndGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 3, DY: 4})

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(1), pos.X)
	assert.Equal(t, float32(2), pos.Y)

	vel := ecs.ReadComponent[Velocity](storage, id)
	require.NotNil(t, vel)
	assert.Equal(t, float32(3), vel.DX)
}

func TestStorageComponentMutation(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ecs.ReadComponent[Position](storage, id).X = 42

	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, id).X)
}

func TestStorageDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	storage.Delete(id)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Position]()))
}

func TestStorageAddComponentMigratesEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 7})
	newId := storage.AddComponent(id, Velocity{DX: 1})

	assert.NotEqual(t, id, newId)
	assert.Equal(t, float32(7), ecs.ReadComponent[Position](storage, newId).X)
	assert.Equal(t, float32(1), ecs.ReadComponent[Velocity](storage, newId).DX)

	// The old slot is gone.
	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Position]()))
}

func TestStorageRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	t.Run("keeps remaining components", func(t *testing.T) {
		id := storage.Spawn(Position{X: 5}, Velocity{DX: 2})
		newId := storage.RemoveComponent(id, reflect.TypeFor[Velocity]())

		assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, newId).X)
		assert.False(t, storage.HasComponent(newId, reflect.TypeFor[Velocity]()))
	})

	t.Run("removing the last component deletes the entity", func(t *testing.T) {
		id := storage.Spawn(Health{Current: 10})
		newId := storage.RemoveComponent(id, reflect.TypeFor[Health]())

		assert.Equal(t, ecs.EntityId(0), newId)
	})
}

func TestStorageMustComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	t.Run("returns present components", func(t *testing.T) {
		comp := storage.MustComponent(id, reflect.TypeFor[Position]())
		assert.Equal(t, float32(1), comp.(*Position).X)
	})

	t.Run("panics with MissingComponentError when absent", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(*ecs.MissingComponentError)
			require.True(t, ok, "panic value should be *MissingComponentError, got %T", r)
			assert.Equal(t, id, err.Entity)
			assert.Equal(t, reflect.TypeFor[Velocity](), err.Component)
		}()
		storage.MustComponent(id, reflect.TypeFor[Velocity]())
	})
}

func TestStorageSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	t.Run("created on first access", func(t *testing.T) {
		single := ecs.NewSingleton[Health](storage, Health{Current: 30, Max: 100})
		require.True(t, single.Exists())
		assert.Equal(t, float32(30), single.Get().Current)
	})

	t.Run("accessors share one instance", func(t *testing.T) {
		a := ecs.NewSingleton[Health](storage)
		b := ecs.NewSingleton[Health](storage)

		a.Get().Current = 77
		assert.Equal(t, float32(77), b.Get().Current)
	})
}

func TestStorageGetArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Nil(t, storage.GetArchetype(Position{}, Velocity{}))

	storage.Spawn(Position{}, Velocity{})
	archetype := storage.GetArchetype(Position{}, Velocity{})
	require.NotNil(t, archetype)
	assert.True(t, archetype.HasComponent(reflect.TypeFor[Position]()))
	assert.True(t, archetype.HasComponent(reflect.TypeFor[Velocity]()))
	assert.False(t, archetype.HasComponent(reflect.TypeFor[Health]()))
}
