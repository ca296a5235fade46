package debugui

import (
	"github.com/plus3/grasp/ecs"
)

// DebugWindowSystem renders every spawned debug window. Rendering is deferred
// to the end of the frame so the windows observe the world after all other
// systems have run. Selection flows between windows: clicking an entity in
// the browser feeds the inspector, clicking an archetype in the viewer
// filters the browser.
type DebugWindowSystem struct {
	Browsers   ecs.Query[struct{ *EntityBrowserComponent }]
	Inspectors ecs.Query[struct{ *ComponentInspectorComponent }]
	Viewers    ecs.Query[struct{ *ArchetypeViewerComponent }]
	Perf       ecs.Query[struct{ *PerformanceStatsComponent }]
	Debuggers  ecs.Query[struct{ *QueryDebuggerComponent }]

	scheduler *ecs.Scheduler
}

// NewDebugWindowSystem creates the window system. The scheduler is optional;
// when present the performance window includes per-system timings.
func NewDebugWindowSystem(scheduler *ecs.Scheduler) *DebugWindowSystem {
	return &DebugWindowSystem{scheduler: scheduler}
}

func (d *DebugWindowSystem) Execute(frame *ecs.Frame) {
	var browsers []*EntityBrowserComponent
	for b := range d.Browsers.Values() {
		browsers = append(browsers, b.EntityBrowserComponent)
	}
	var inspectors []*ComponentInspectorComponent
	for i := range d.Inspectors.Values() {
		inspectors = append(inspectors, i.ComponentInspectorComponent)
	}
	var viewers []*ArchetypeViewerComponent
	for v := range d.Viewers.Values() {
		viewers = append(viewers, v.ArchetypeViewerComponent)
	}
	var perf []*PerformanceStatsComponent
	for p := range d.Perf.Values() {
		perf = append(perf, p.PerformanceStatsComponent)
	}
	var debuggers []*QueryDebuggerComponent
	for q := range d.Debuggers.Values() {
		debuggers = append(debuggers, q.QueryDebuggerComponent)
	}

	storage := frame.Storage
	dt := float32(frame.DeltaTime)
	scheduler := d.scheduler

	frame.Commands.Defer(func() {
		var selected ecs.EntityId
		for _, v := range viewers {
			if archId := v.Render(storage); archId != nil {
				for _, b := range browsers {
					b.SetArchetypeFilter(archId)
				}
			}
		}
		for _, b := range browsers {
			b.Render(storage)
			selected = b.SelectedEntity()
		}
		for _, i := range inspectors {
			i.Render(storage, selected)
		}
		for _, p := range perf {
			p.Render(storage, scheduler, dt)
		}
		for _, q := range debuggers {
			q.Render(storage)
		}
	})
}
