package interaction

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/plus3/grasp/ecs"
)

// RaycastSystem is the intersection pass. For every hand pointer it finds
// the intersectable entity with the globally nearest hit, places the
// pointer's cursor, and translates the result plus the pinch gesture into
// button states and draggable attach/detach requests. It keeps no state
// across frames; each frame is a pure reduction over the current input.
//
// The button and draggable passes must run after this one; the world
// declares that dependency when it registers the systems.
type RaycastSystem struct {
	Intersectables ecs.Query[struct {
		*ObjectBinding
		*Intersectable
	}]
	Buttons ecs.Query[struct {
		*ObjectBinding
		*Button
	}]
	Draggables ecs.Query[struct {
		*ObjectBinding
		*Draggable
	}]
	Input ecs.Singleton[PointerInput]

	log *zap.Logger
}

// NewRaycastSystem creates the intersection pass.
func NewRaycastSystem(log *zap.Logger) *RaycastSystem {
	return &RaycastSystem{log: log}
}

// Execute runs the pass for one frame.
func (s *RaycastSystem) Execute(frame *ecs.Frame) {
	input := s.Input.Get()

	// Hover is recomputed from scratch every frame. Attachment state is
	// sticky and only changes through the requests staked below.
	for item := range s.Buttons.Values() {
		item.Button.CurrState = ButtonNone
	}
	for item := range s.Draggables.Values() {
		if item.Draggable.State == DragHovered {
			item.Draggable.State = DragNone
		}
	}

	for _, pointer := range input.Pointers {
		// Pinch release ends an attachment no matter where the ray points.
		if pointer.IsAttached() && !pointer.IsPinched() {
			s.requestDetach(pointer)
		}

		winner, distance, found := s.nearestTarget(pointer)
		if !found {
			pointer.SetCursor(NoTargetCursorDistance)
			continue
		}

		pointer.SetCursor(distance)
		s.applyToButton(frame, pointer, winner)
		s.applyToDraggable(frame, pointer, winner)
	}

	// Hovered and held objects render enlarged; the draggable pass resets
	// the scale once the object goes back to rest.
	for item := range s.Draggables.Values() {
		switch item.Draggable.State {
		case DragHovered, DragToBeAttached, DragAttached:
			item.ObjectBinding.Node.SetScale(hoverScale)
		}
	}
}

// nearestTarget reduces all intersectable entities to the one whose nearest
// hit is globally minimal. The comparison is strict, so ties keep the first
// entity in query iteration order.
func (s *RaycastSystem) nearestTarget(pointer HandPointer) (ecs.EntityId, float64, bool) {
	var (
		winner ecs.EntityId
		best   float64
		found  bool
	)

	for id, item := range s.Intersectables.Iter() {
		hits := pointer.Intersect(item.ObjectBinding.Node, item.ObjectBinding.Bounds)
		if len(hits) == 0 {
			continue
		}
		if !found || hits[0].Distance < best {
			winner = id
			best = hits[0].Distance
			found = true
		}
	}

	return winner, best, found
}

func (s *RaycastSystem) applyToButton(frame *ecs.Frame, pointer HandPointer, winner ecs.EntityId) {
	comp := frame.Storage.GetComponent(winner, reflect.TypeFor[Button]())
	if comp == nil {
		return
	}

	btn := comp.(*Button)
	if pointer.IsPinched() {
		btn.CurrState = ButtonPressed
	} else {
		btn.CurrState = ButtonHovered
	}
}

func (s *RaycastSystem) applyToDraggable(frame *ecs.Frame, pointer HandPointer, winner ecs.EntityId) {
	comp := frame.Storage.GetComponent(winner, reflect.TypeFor[Draggable]())
	if comp == nil {
		return
	}

	d := comp.(*Draggable)
	if d.State == DragNone {
		d.State = DragHovered
	}

	// A pinch on a free hand claims a hovered, unheld object. The claim is
	// staked here; the draggable pass performs the reparenting.
	if pointer.IsPinched() && !pointer.IsAttached() &&
		d.State == DragHovered && d.AttachedPointer == nil {
		d.State = DragToBeAttached
		d.AttachedPointer = pointer
		pointer.SetAttached(true)
		s.log.Debug("drag attach requested", zap.Uint64("entity", uint64(winner)))
	}
}

// requestDetach finds the draggable held by the pointer and marks it for
// detachment. The pointer's attach flag clears immediately so it can claim
// again next frame.
func (s *RaycastSystem) requestDetach(pointer HandPointer) {
	for id, item := range s.Draggables.Iter() {
		d := item.Draggable
		if d.AttachedPointer != pointer || d.State != DragAttached {
			continue
		}
		d.State = DragToBeDetached
		pointer.SetAttached(false)
		s.log.Debug("drag detach requested", zap.Uint64("entity", uint64(id)))
		return
	}
}
