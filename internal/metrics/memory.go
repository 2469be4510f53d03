// Package metrics reads process-level runtime statistics shown after a run.
package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	TotalAlloc   uint64 // cumulative bytes allocated
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	Goroutines   int
}

// Sub returns the growth of the cumulative counters from before to s.
// Gauges (HeapAlloc, Sys, Goroutines) keep the value of s.
func (s MemorySnapshot) Sub(before MemorySnapshot) MemorySnapshot {
	d := s
	d.TotalAlloc = s.TotalAlloc - before.TotalAlloc
	d.NumGC = s.NumGC - before.NumGC
	d.PauseTotalNs = s.PauseTotalNs - before.PauseTotalNs
	return d
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
}
