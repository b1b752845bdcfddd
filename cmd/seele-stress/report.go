package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/plus3/seele/ecs"
)

type Report struct {
	// Configuration
	Config Config

	// Results
	TotalUpdates  int64
	TotalTime     time.Duration
	UpdateTime    Stats
	Panics        int
	FPS           float64
	World         *ecs.WorldStats
	SlowSystems   []ecs.SystemStats
	Snapshot      *SnapshotResult
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// SnapshotResult describes the saved world and its reload check.
type SnapshotResult struct {
	Path        string
	Archetypes  int
	Saved       int
	Loaded      int
	LoadElapsed time.Duration
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

// collectWorld records the world's final shape and its n slowest systems.
func (r *Report) collectWorld(world *ecs.World, n int) {
	r.World = world.Stats()

	systems := append([]ecs.SystemStats(nil), r.World.Systems...)
	sort.Slice(systems, func(i, j int) bool {
		return systems[i].TotalDuration > systems[j].TotalDuration
	})
	r.SlowSystems = systems[:min(n, len(systems))]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Seele Stress Test Report

## Test Configuration
- **Run Duration:** {{.Config.Duration}}
- **Initial Entities:** {{.Config.Entities}}
- **Components:** {{.Config.Components}}
- **Counting Systems:** {{.Config.Systems}}
- **Churn Per Update:** {{.Config.Churn}}
- **Simulation Timestep:** {{printf "%.2f" .Config.Looper.SimulationTimestep}} ms
- **Panic Border:** {{.Config.Looper.PanicBorder}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Loop FPS:** {{printf "%.1f" .FPS}}
- **Panicked Frames:** {{.Panics}}
- **Update Time (Step):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{with .World}}
## World
- **Archetypes:** {{.ArchetypeCount}}
- **Entities:** {{.TotalEntityCount}}
- **Queries:** {{.QueryCount}}
- **System Executions:** {{.TotalExecutions}}
{{end}}
## Slowest Systems
| System | Runs | Avg | Max | Total |
|---|---|---|---|---|
{{range .SlowSystems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} | {{.TotalDuration}} |
{{end}}
{{with .Snapshot}}
## Snapshot
- **File:** {{.Path}}
- **Archetypes:** {{.Archetypes}}
- **Entities Saved:** {{.Saved}}
- **Entities Reloaded:** {{.Loaded}} in {{.LoadElapsed}}
{{end}}
## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .Config.GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
