// Auto-play clock: drives ProcessDay on a wall-clock interval. The
// simulation itself only ever advances through explicit day calls.
package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Clock repeatedly processes days until stopped.
type Clock struct {
	Interval time.Duration // wall-clock time per sim-day
	Speed    float64       // multiplier: 1.0 = real-time, 0 = paused
	Running  bool

	// OnDay receives each day's result (rendering, persistence).
	OnDay func(DayResult)

	// Lock, when set, is held for each day's processing so concurrent
	// readers (the HTTP API) never observe a half-applied day.
	Lock sync.Locker
}

// NewClock creates a clock with a default one-second day.
func NewClock() *Clock {
	return &Clock{Interval: time.Second, Speed: 1.0}
}

// Run drives the simulation loop. Blocks until Stop is called.
func (c *Clock) Run(sim *Simulation) {
	c.Running = true
	slog.Info("clock started", "day", sim.Day, "speed", c.Speed)

	for c.Running {
		if c.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		if c.Lock != nil {
			c.Lock.Lock()
		}
		result := sim.ProcessDay()
		if c.OnDay != nil {
			c.OnDay(result)
		}
		if c.Lock != nil {
			c.Lock.Unlock()
		}

		elapsed := time.Since(start)
		target := time.Duration(float64(c.Interval) / c.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("clock stopped", "day", sim.Day)
}

// Stop halts the loop after the in-flight day completes. A day is
// never abandoned halfway.
func (c *Clock) Stop() {
	c.Running = false
}
