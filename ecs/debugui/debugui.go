// Package debugui provides Dear ImGui inspection windows for ECS worlds: an
// entity browser, a component inspector with live editing, an archetype
// viewer, per-pass performance stats, and a query debugger. Rendering is
// driven by ECS systems so the windows update in lockstep with the world.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/grasp/ecs"
)

// ImguiItem holds a Dear ImGui render function. Attach it to entities that
// should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState is a singleton tracking whether ImGui is consuming mouse or
// keyboard input. Input handling should skip events ImGui has claimed.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers the render function of every ImguiItem so they run at
// the end of the frame, after all other systems have mutated the world. It
// also refreshes the ImguiInputState singleton.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.Frame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}
