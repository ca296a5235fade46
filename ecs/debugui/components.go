package debugui

import (
	"github.com/plus3/grasp/ecs"
)

// EntityBrowserComponent is the state of the entity browser window: a sorted,
// filterable, paginated table of every live entity.
type EntityBrowserComponent struct {
	cache           *entityBrowserCache
	selectedEntity  ecs.EntityId
	filterText      string
	filterArchetype *uint32
	pageSize        int
	page            int
}

// ComponentInspectorComponent is the state of the inspector window showing
// the selected entity's components with editable fields.
type ComponentInspectorComponent struct {
	selectedEntity ecs.EntityId
}

// ArchetypeViewerComponent is the state of the archetype table window.
type ArchetypeViewerComponent struct {
	cache *archetypeViewerCache
}

// PerformanceStatsComponent is the state of the performance window: frame
// time history, storage counts, and per-system timings.
type PerformanceStatsComponent struct {
	frameHistory []float32
	frameIndex   int
}

// QueryDebuggerComponent is the state of the query debugger window, which
// shows how an ad-hoc component combination matches archetypes.
type QueryDebuggerComponent struct {
	selectedTypes map[string]bool
	cache         *queryDebuggerCache
}

// RegisterDebugComponents registers all debug window component types plus the
// ImGui integration components.
func RegisterDebugComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[ArchetypeViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[QueryDebuggerComponent](registry)
}

// SpawnDebugWindows spawns one entity per debug window with default settings.
// Register a DebugWindowSystem to render them.
func SpawnDebugWindows(storage *ecs.Storage) {
	storage.Spawn(NewEntityBrowserComponent(100))
	storage.Spawn(NewComponentInspectorComponent())
	storage.Spawn(NewArchetypeViewerComponent())
	storage.Spawn(NewPerformanceStatsComponent(120))
	storage.Spawn(NewQueryDebuggerComponent())
}
