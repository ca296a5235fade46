package main

import (
	"io"
	"text/template"
	"time"

	"github.com/plus3/grasp/ecs"
)

type Report struct {
	// Configuration
	Frames     int
	FPS        float64
	Buttons    int
	Draggables int

	// Results
	Presses     int
	Attaches    int
	Detaches    int
	TotalTime   time.Duration
	FrameTime   Stats
	SystemStats *ecs.SchedulerStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Interaction Simulation Report

## Scene
- **Frames:** {{.Frames}} @ {{.FPS}} fps
- **Buttons:** {{.Buttons}}
- **Draggables:** {{.Draggables}}

## Interactions
- **Button Presses:** {{.Presses}}
- **Drag Attaches:** {{.Attaches}}
- **Drag Detaches:** {{.Detaches}}

## Performance
- **Total Wall Time:** {{.TotalTime}}
- **Frame Time:**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}

## Per-Pass Timing
{{range .SystemStats.Systems}}- **{{.Name}}:** avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}} over {{.ExecutionCount}} runs
{{end}}`

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
