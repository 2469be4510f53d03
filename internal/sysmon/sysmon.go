// Package sysmon provides system-wide CPU and memory usage sampling for the
// dashboard.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64   // 0.0 .. 100.0, all cores
	PerCore    []float64 // 0.0 .. 100.0 per logical core
	MemPercent float64   // 0.0 .. 100.0
}

// Sample collects a single system-wide snapshot. CPU percentages are deltas
// since the previous call (interval 0). Fields stay zero on error.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, true); err == nil && len(pcts) > 0 {
		s.PerCore = pcts
		var sum float64
		for _, p := range pcts {
			sum += p
		}
		s.CPUPercent = sum / float64(len(pcts))
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// BusyCores counts cores whose usage is at least threshold percent. During a
// sampling run it approximates how many workers are on CPU.
func (s Stats) BusyCores(threshold float64) int {
	n := 0
	for _, p := range s.PerCore {
		if p >= threshold {
			n++
		}
	}
	return n
}
