package debugui

import (
	"fmt"
	"slices"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"

	"github.com/plus3/seele/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
		latency:       make(map[string][]float32),
	}
}

// Record appends every system's average duration to its latency history.
func (ps *PerformanceStatsComponent) Record(stats *ecs.WorldStats) {
	for _, system := range stats.Systems {
		history := ps.latency[system.Name]
		if history == nil {
			history = make([]float32, ps.historyFrames)
			ps.latency[system.Name] = history
		}
		history[ps.latencyIndex] = float32(system.AvgDuration.Microseconds()) / 1000.0
	}
	ps.latencyIndex = (ps.latencyIndex + 1) % ps.historyFrames
}

// Latency returns the recorded history of one system, oldest sample first.
func (ps *PerformanceStatsComponent) Latency(name string) []float32 {
	history, ok := ps.latency[name]
	if !ok {
		return nil
	}

	samples := make([]float32, ps.historyFrames)
	copy(samples, history[ps.latencyIndex:])
	copy(samples[ps.historyFrames-ps.latencyIndex:], history[:ps.latencyIndex])
	return samples
}

func (ps *PerformanceStatsComponent) renderLatency() {
	names := make([]string, 0, len(ps.latency))
	maxLatency := float32(1.0)
	for name, history := range ps.latency {
		names = append(names, name)
		maxLatency = max(maxLatency, slices.Max(history))
	}
	slices.Sort(names)

	if implot.BeginPlotV("System Latency", imgui.NewVec2(-1, 200), 0) {
		implot.SetupAxesV("Frame", "Time (ms)", 0, 0)
		implot.SetupAxisLimitsV(implot.AxisY1, 0, float64(maxLatency*1.1), implot.CondAlways)

		for _, name := range names {
			samples := ps.Latency(name)
			implot.PlotLineFloatPtrInt(name, &samples[0], int32(len(samples)))
		}
		implot.EndPlot()
	}
}

// Render draws world and system statistics. fps may be nil when no looper
// drives the world.
func (ps *PerformanceStatsComponent) Render(d *Debugger, deltaTime float32, fps func() float64) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := d.world.Stats()
	ps.Record(stats)

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Queries: %d", stats.QueryCount))
	imgui.Text(fmt.Sprintf("Systems: %d", stats.SystemCount))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)

	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms", avgFrameTime))
	if fps != nil {
		imgui.Text(fmt.Sprintf("Loop FPS: %.1f", fps()))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if len(ps.latency) > 0 && imgui.TreeNodeStr("System Latency") {
		ps.renderLatency()
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Kind")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, system := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(system.Name)
				imgui.TableNextColumn()
				imgui.Text(system.Kind.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", system.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(system.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(system.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Mask")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text("0x" + arch.ID)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", len(arch.Components)))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
