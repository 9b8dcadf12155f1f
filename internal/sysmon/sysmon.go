// Package sysmon samples host CPU and memory load for the sweep dashboard.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Load is one host-wide reading, both values in [0, 100].
type Load struct {
	CPUPercent float64
	MemPercent float64
}

// Sample reads the host load. CPU is measured since the previous call, so
// the first reading of a process may be zero. A failed reading stays zero.
func Sample() Load {
	var l Load
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		l.CPUPercent = clamp(pcts[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		l.MemPercent = clamp(vm.UsedPercent)
	}
	return l
}

func clamp(v float64) float64 {
	return max(0, min(100, v))
}
