package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/plus3/grasp/interaction"
	"github.com/plus3/grasp/scene"
)

func main() {
	frames := flag.Int("frames", 600, "Number of frames to simulate.")
	fps := flag.Float64("fps", 60, "Simulated frame rate.")
	buttonCount := flag.Int("buttons", 4, "Number of button entities in the scene.")
	draggableCount := flag.Int("draggables", 4, "Number of draggable entities in the scene.")
	verbose := flag.Bool("v", false, "Log interaction state transitions.")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("building logger: %v", err)
		}
	}

	report := &Report{
		Frames:     *frames,
		FPS:        *fps,
		Buttons:    *buttonCount,
		Draggables: *draggableCount,
	}

	world := interaction.NewWorld(interaction.WithLogger(logger))

	// A ring of buttons and a ring of draggables in front of the user, plus
	// a calibrated panel and an instruction label.
	root := scene.NewNode("root")
	var targets []*scene.Node

	for i := 0; i < *buttonCount; i++ {
		node := scene.NewNode(fmt.Sprintf("button-%d", i))
		node.SetParent(root)
		angle := 2 * math.Pi * float64(i) / float64(*buttonCount)
		node.SetPosition(mgl64.Vec3{0.5 * math.Cos(angle), 1.4 + 0.5*math.Sin(angle), -2})
		world.SpawnButton(node, scene.Bounds{Radius: 0.15}, func() { report.Presses++ })
		targets = append(targets, node)
	}

	for i := 0; i < *draggableCount; i++ {
		node := scene.NewNode(fmt.Sprintf("draggable-%d", i))
		node.SetParent(root)
		angle := 2 * math.Pi * float64(i) / float64(*draggableCount)
		node.SetPosition(mgl64.Vec3{0.3 * math.Cos(angle), 1.4 + 0.3*math.Sin(angle), -1.2})
		world.SpawnDraggable(node, scene.Bounds{Radius: 0.1})
		targets = append(targets, node)
	}

	panel := scene.NewNode("status-panel")
	panel.SetParent(root)
	world.SpawnCalibrated(panel, mgl64.Vec3{0, -0.4, -1})

	help := scene.NewNode("help-text")
	help.SetParent(root)
	world.SpawnInstruction(help)

	left := scene.NewPointer("left")
	right := scene.NewPointer("right")
	left.SetVisible(true)
	right.SetVisible(true)
	pointers := []interaction.HandPointer{left, right}

	world.SetTracking(true, mgl64.Vec3{0, 1.6, 0})

	// The pinch strength rises and falls on a smooth envelope; the hand
	// pinches while the envelope is above the threshold.
	const pinchPeriod = 1.5
	pinch := gween.New(0, 1, pinchPeriod, ease.InOutQuad)
	pinchRising := true

	dt := 1.0 / *fps
	prevAttached := make([]bool, len(pointers))
	start := time.Now()

	for frameIdx := 0; frameIdx < *frames; frameIdx++ {
		elapsed := float64(frameIdx) * dt

		// Each hand sweeps its aim through the scene targets over time.
		aimAt(left, mgl64.Vec3{-0.2, 1.3, 0}, targets, elapsed, 0)
		aimAt(right, mgl64.Vec3{0.2, 1.3, 0}, targets, elapsed, len(targets)/2)

		strength, finished := pinch.Update(float32(dt))
		if finished {
			if pinchRising {
				pinch = gween.New(1, 0, pinchPeriod, ease.InOutQuad)
			} else {
				pinch = gween.New(0, 1, pinchPeriod, ease.InOutQuad)
			}
			pinchRising = !pinchRising
		}
		left.SetPinched(strength > 0.6)
		right.SetPinched(strength > 0.8)

		frameStart := time.Now()
		world.Frame(dt, pointers)
		report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))

		for i, p := range pointers {
			attached := p.IsAttached()
			if attached && !prevAttached[i] {
				report.Attaches++
			}
			if !attached && prevAttached[i] {
				report.Detaches++
			}
			prevAttached[i] = attached
		}
	}

	report.TotalTime = time.Since(start)
	report.FrameTime.Finalize()
	report.SystemStats = world.Scheduler().GetStats()

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("generating report: %v", err)
	}
}

// aimAt points the hand's ray at one of the scene targets, advancing to the
// next target every few seconds.
func aimAt(p *scene.Pointer, origin mgl64.Vec3, targets []*scene.Node, elapsed float64, offset int) {
	if len(targets) == 0 {
		p.SetRay(origin, mgl64.Vec3{0, 0, -1})
		return
	}
	idx := (int(elapsed/3) + offset) % len(targets)
	direction := targets[idx].WorldPosition().Sub(origin)
	p.SetRay(origin, direction)
}
