package interaction

import "github.com/plus3/grasp/ecs"

// InstructionSystem toggles helper entities with hand visibility: shown
// while at least one hand is tracked, hidden otherwise. Recomputed every
// frame, no persisted state.
type InstructionSystem struct {
	Instructions ecs.Query[struct {
		*ObjectBinding
		*InstructionText
	}]
	Input ecs.Singleton[PointerInput]
}

// NewInstructionSystem creates the instruction-visibility pass.
func NewInstructionSystem() *InstructionSystem {
	return &InstructionSystem{}
}

// Execute runs the pass for one frame.
func (s *InstructionSystem) Execute(frame *ecs.Frame) {
	visible := false
	for _, pointer := range s.Input.Get().Pointers {
		if pointer.Visible() {
			visible = true
			break
		}
	}

	for item := range s.Instructions.Values() {
		item.ObjectBinding.Node.SetVisible(visible)
	}
}
