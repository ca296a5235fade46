package interaction

import (
	"go.uber.org/zap"

	"github.com/plus3/grasp/ecs"
)

// ButtonSystem advances the three-state button machine (none → hovered →
// pressed) and fires each button's action exactly once per press edge.
// Detection lives in the raycast pass, which writes CurrState before this
// pass runs; this pass only reacts, so detection and response can evolve
// independently.
type ButtonSystem struct {
	Buttons ecs.Query[struct {
		*ObjectBinding
		*Button
	}]

	log *zap.Logger
}

// NewButtonSystem creates the button pass.
func NewButtonSystem(log *zap.Logger) *ButtonSystem {
	return &ButtonSystem{log: log}
}

// Execute runs the pass for one frame.
func (s *ButtonSystem) Execute(frame *ecs.Frame) {
	for id, item := range s.Buttons.Iter() {
		btn := item.Button
		node := item.ObjectBinding.Node

		// Visual feedback trails by one frame: it reads the state that was
		// current when the previous frame rendered.
		if btn.PrevState != ButtonNone {
			node.SetScale(hoverScale)
		} else {
			node.SetScale(normalScale)
		}

		// The action fires on the rising edge only. Holding the pinch keeps
		// CurrState pressed but PrevState catches up below, so repeat frames
		// never refire.
		if btn.PrevState != ButtonPressed && btn.CurrState == ButtonPressed {
			if btn.Action != nil {
				btn.Action()
			}
			s.log.Debug("button pressed",
				zap.Uint64("entity", uint64(id)),
				zap.String("node", node.Name()))
		}

		btn.PrevState = btn.CurrState
	}
}
