package sim

import (
	"sync/atomic"
	"time"
)

// Stats counts loop iterations and integration steps. Written only by the
// physics goroutine, read by the stats endpoint, hence the atomics.
type Stats struct {
	ticks         atomic.Uint64
	steps         atomic.Uint64
	lastTickNs    atomic.Int64
	totalTickNs   atomic.Int64
	longestTickNs atomic.Int64
}

func (s *Stats) recordTick(d time.Duration, steps int) {
	s.ticks.Add(1)
	s.steps.Add(uint64(steps))
	ns := d.Nanoseconds()
	s.lastTickNs.Store(ns)
	s.totalTickNs.Add(ns)
	for {
		longest := s.longestTickNs.Load()
		if ns <= longest || s.longestTickNs.CompareAndSwap(longest, ns) {
			return
		}
	}
}

// TickCount returns the number of completed loop iterations.
func (s *Stats) TickCount() uint64 {
	return s.ticks.Load()
}

// StepCount returns the number of fixed integration steps performed.
func (s *Stats) StepCount() uint64 {
	return s.steps.Load()
}

// Snapshot returns the counters in a form ready for JSON encoding.
func (s *Stats) Snapshot() map[string]any {
	ticks := s.ticks.Load()
	avgNs := int64(0)
	if ticks > 0 {
		avgNs = s.totalTickNs.Load() / int64(ticks)
	}
	return map[string]any{
		"ticks":            ticks,
		"steps":            s.steps.Load(),
		"fixed_dt_seconds": FixedTimestep,
		"last_tick_ms":     float64(s.lastTickNs.Load()) / 1e6,
		"avg_tick_ms":      float64(avgNs) / 1e6,
		"longest_tick_ms":  float64(s.longestTickNs.Load()) / 1e6,
	}
}
