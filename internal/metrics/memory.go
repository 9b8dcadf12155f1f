package metrics

import (
	"runtime"
	"time"
)

// RuntimeSnapshot is a point-in-time reading of the Go runtime, shown by the
// sweep dashboard next to the host load.
type RuntimeSnapshot struct {
	HeapAlloc  uint64 // bytes in use
	HeapSys    uint64 // bytes obtained from the OS for the heap
	NumGC      uint32
	PauseTotal time.Duration
	Goroutines int
}

// ReadRuntime samples memory statistics and the goroutine count.
func ReadRuntime() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSnapshot{
		HeapAlloc:  m.HeapAlloc,
		HeapSys:    m.HeapSys,
		NumGC:      m.NumGC,
		PauseTotal: time.Duration(m.PauseTotalNs),
		Goroutines: runtime.NumGoroutine(),
	}
}

// HeapUsage returns the share of the reserved heap in use, in [0, 100].
func (s RuntimeSnapshot) HeapUsage() float64 {
	if s.HeapSys == 0 {
		return 0
	}
	return min(100, 100*float64(s.HeapAlloc)/float64(s.HeapSys))
}
