package smartcity

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/anggasct/smartcity/pkg/snapshot"
	"github.com/anggasct/smartcity/pkg/stats"
)

// MaxTimeScale is the fastest a simulation can be run relative to wall time.
const MaxTimeScale = 3.0

// Simulation owns an engine and serialises access to it, so a frame loop and
// any number of readers can share it.
type Simulation struct {
	engine    *engine.Engine
	timeScale float64
	paused    bool
	mutex     sync.RWMutex
}

// NewSimulation wraps e at time scale 1.
func NewSimulation(e *engine.Engine) *Simulation {
	return &Simulation{engine: e, timeScale: 1}
}

// Step advances the engine by dt seconds of wall time, scaled by the time
// scale. It reports whether a frame was run.
func (s *Simulation) Step(dt float64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.paused || s.timeScale == 0 || !(dt > 0) || math.IsInf(dt, 1) {
		return false
	}
	s.engine.Update(dt * s.timeScale)
	return true
}

// Run steps the simulation on every tick with the elapsed wall time until ctx
// is done.
func (s *Simulation) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Step(now.Sub(last).Seconds())
			last = now
		}
	}
}

// SetTimeScale sets the speed multiplier, clamped to [0, MaxTimeScale].
// NaN is ignored.
func (s *Simulation) SetTimeScale(scale float64) {
	if math.IsNaN(scale) {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.timeScale = geom.Clamp(scale, 0, MaxTimeScale)
}

// TimeScale returns the speed multiplier.
func (s *Simulation) TimeScale() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.timeScale
}

// Pause stops Step from advancing the engine.
func (s *Simulation) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.paused = true
}

// Resume undoes Pause.
func (s *Simulation) Resume() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.paused = false
}

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.paused
}

// AddObserver registers an observer with the engine.
func (s *Simulation) AddObserver(observer engine.Observer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.engine.AddObserver(observer)
}

// Snapshot captures the current frame.
func (s *Simulation) Snapshot() snapshot.Frame {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	frame := snapshot.Take(s.engine)
	frame.TimeScale = s.timeScale
	frame.Paused = s.paused
	return frame
}

// Metrics collects statistics for the current frame.
func (s *Simulation) Metrics() stats.Report {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return stats.Collect(s.engine)
}

// Frame returns the number of frames run.
func (s *Simulation) Frame() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.engine.Frame()
}

// Clock returns the simulated seconds elapsed.
func (s *Simulation) Clock() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.engine.Clock()
}

// ClockText returns the simulated time as mm:ss.
func (s *Simulation) ClockText() string {
	return snapshot.FormatClock(s.Clock())
}
