package interaction

import (
	"go.uber.org/zap"

	"github.com/plus3/grasp/ecs"
)

// DraggableSystem consumes the attach/detach requests staked by the raycast
// pass. On attach it reparents the bound object under the claiming pointer's
// grip node; on detach it restores the parent captured at first observation.
// Reparenting happens exactly once per request and within the same frame the
// request was staked, so an object is never rendered mid-transition.
type DraggableSystem struct {
	Draggables ecs.Query[struct {
		*ObjectBinding
		*Draggable
	}]

	log *zap.Logger
}

// NewDraggableSystem creates the draggable pass.
func NewDraggableSystem(log *zap.Logger) *DraggableSystem {
	return &DraggableSystem{log: log}
}

// Execute runs the pass for one frame.
func (s *DraggableSystem) Execute(frame *ecs.Frame) {
	for id, item := range s.Draggables.Iter() {
		d := item.Draggable
		node := item.ObjectBinding.Node

		// The original parent is captured before any reparenting and never
		// overwritten while set. While attached the current parent is the
		// grip node, which must not be captured.
		if d.OriginalParent == nil && d.State != DragAttached && d.State != DragToBeDetached {
			d.OriginalParent = node.Parent()
		}

		switch d.State {
		case DragToBeAttached:
			node.SetParent(d.AttachedPointer.GripNode())
			d.State = DragAttached
			s.log.Debug("draggable attached",
				zap.Uint64("entity", uint64(id)),
				zap.String("node", node.Name()))

		case DragToBeDetached:
			node.SetParent(d.OriginalParent)
			d.AttachedPointer = nil
			d.State = DragNone
			s.log.Debug("draggable detached",
				zap.Uint64("entity", uint64(id)),
				zap.String("node", node.Name()))

		case DragNone:
			node.SetScale(normalScale)
		}
	}
}
