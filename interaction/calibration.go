package interaction

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/plus3/grasp/ecs"
)

// CalibrationSystem performs one-shot placement of camera-relative entities.
// Entities tagged NeedsCalibration wait until a tracking session is active,
// are then positioned at the tracking camera plus their offset, and lose the
// tag so they are never placed again. An inactive session is a steady state,
// not an error; the entity simply retries next frame.
type CalibrationSystem struct {
	Pending ecs.Query[struct {
		*ObjectBinding
		*OffsetFromCamera
		*NeedsCalibration
	}]
	Tracking ecs.Singleton[TrackingState]

	log *zap.Logger
}

// NewCalibrationSystem creates the calibration pass.
func NewCalibrationSystem(log *zap.Logger) *CalibrationSystem {
	return &CalibrationSystem{log: log}
}

// Execute runs the pass for one frame.
func (s *CalibrationSystem) Execute(frame *ecs.Frame) {
	tracking := s.Tracking.Get()
	if tracking == nil || !tracking.SessionActive {
		return
	}

	for id, item := range s.Pending.Iter() {
		node := item.ObjectBinding.Node
		node.SetWorldPosition(tracking.CameraPosition.Add(item.OffsetFromCamera.Vec3()))

		// Tag removal is deferred to the end of the frame; other passes keep
		// a consistent entity layout while they run.
		frame.Commands.RemoveComponent(id, reflect.TypeFor[NeedsCalibration]())

		s.log.Debug("entity calibrated",
			zap.Uint64("entity", uint64(id)),
			zap.String("node", node.Name()))
	}
}
