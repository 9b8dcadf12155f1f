package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/qmulcost/internal/format"
	"github.com/agbru/qmulcost/internal/metrics"
	"github.com/agbru/qmulcost/internal/sysmon"
)

const historySize = 60

// ResourcesModel shows Go runtime figures and host load history.
type ResourcesModel struct {
	runtime metrics.RuntimeSnapshot
	cpu     *RingBuffer
	mem     *RingBuffer
	width   int
	height  int
}

// NewResourcesModel creates an empty resources panel.
func NewResourcesModel() ResourcesModel {
	return ResourcesModel{
		cpu: NewRingBuffer(historySize),
		mem: NewRingBuffer(historySize),
	}
}

// SetSize updates the panel dimensions.
func (r *ResourcesModel) SetSize(w, h int) {
	r.width, r.height = w, h
}

// UpdateRuntime stores the latest runtime sample.
func (r *ResourcesModel) UpdateRuntime(s metrics.RuntimeSnapshot) {
	r.runtime = s
}

// UpdateLoad appends a host load sample to the history.
func (r *ResourcesModel) UpdateLoad(l sysmon.Load) {
	r.cpu.Push(l.CPUPercent)
	r.mem.Push(l.MemPercent)
}

// View renders the panel.
func (r ResourcesModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("RESOURCES"))
	b.WriteString("\n")
	fmt.Fprintf(&b, " %s %s  %s %s  %s %s\n",
		mutedStyle.Render("Heap:"), valueStyle.Render(formatBytes(r.runtime.HeapAlloc)+" / "+formatBytes(r.runtime.HeapSys)),
		mutedStyle.Render("GC:"), valueStyle.Render(fmt.Sprintf("%d (%s)", r.runtime.NumGC, format.FormatExecutionDuration(r.runtime.PauseTotal))),
		mutedStyle.Render("Goroutines:"), valueStyle.Render(fmt.Sprint(r.runtime.Goroutines)))

	spark := max(4, r.width-20)
	fmt.Fprintf(&b, " %s %5.1f%% %s\n", mutedStyle.Render("CPU"), r.cpu.Last(), cpuStyle.Render(RenderSparkline(tail(r.cpu.Slice(), spark))))
	fmt.Fprintf(&b, " %s %5.1f%% %s", mutedStyle.Render("MEM"), r.mem.Last(), memStyle.Render(RenderSparkline(tail(r.mem.Slice(), spark))))
	return panelStyle.Width(max(0, r.width-2)).Height(max(0, r.height-2)).Render(b.String())
}

func tail(v []float64, n int) []float64 {
	if len(v) > n {
		return v[len(v)-n:]
	}
	return v
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
