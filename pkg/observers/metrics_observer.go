package observers

import (
	"sync"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
)

type stateEntry struct {
	state core.CarState
	clock float64
}

// MetricsObserver collects counters about the parking lifecycle. Time is
// simulated time taken from the events, never wall clock.
type MetricsObserver struct {
	engine.BaseObserver

	stateVisits      map[core.CarState]int
	stateTimeSpent   map[core.CarState]float64
	transitionCounts map[string]int
	cancellations    map[core.Reason]int
	deferrals        map[core.Reason]int
	claims           int
	releases         int
	lightChanges     int
	errorCount       int
	frames           uint64
	lastEntry        map[int]stateEntry
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	o := &MetricsObserver{}
	o.Reset()
	return o
}

// OnTransition records transition metrics
func (o *MetricsObserver) OnTransition(event core.TransitionEvent) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.transitionCounts[event.Key()]++
	o.stateVisits[event.To]++

	if entry, ok := o.lastEntry[event.CarID]; ok && entry.state == event.From {
		o.stateTimeSpent[event.From] += event.Clock - entry.clock
	}
	o.lastEntry[event.CarID] = stateEntry{state: event.To, clock: event.Clock}
}

// OnSpotClaimed counts claims
func (o *MetricsObserver) OnSpotClaimed(carID, lot, spot int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.claims++
}

// OnSpotReleased counts releases
func (o *MetricsObserver) OnSpotReleased(carID, lot, spot int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.releases++
}

// OnLightChanged counts light phase changes
func (o *MetricsObserver) OnLightChanged(road int, from, to core.LightState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.lightChanges++
}

// OnIntentCancelled counts dropped intents by reason
func (o *MetricsObserver) OnIntentCancelled(carID, lot int, reason core.Reason) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.cancellations[reason]++
}

// OnExitDeferred counts blocked exits by reason
func (o *MetricsObserver) OnExitDeferred(carID, lot int, reason core.Reason) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.deferrals[reason]++
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.errorCount++
}

// OnFrame records the latest frame number
func (o *MetricsObserver) OnFrame(info engine.FrameInfo) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.frames = info.Frame
}

// GetStateVisitCounts returns how many times each state was entered
func (o *MetricsObserver) GetStateVisitCounts() map[core.CarState]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[core.CarState]int)
	for state, count := range o.stateVisits {
		result[state] = count
	}
	return result
}

// GetStateTimeSpent returns the simulated seconds spent in each state by
// cars that also left it
func (o *MetricsObserver) GetStateTimeSpent() map[core.CarState]float64 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[core.CarState]float64)
	for state, spent := range o.stateTimeSpent {
		result[state] = spent
	}
	return result
}

// GetTransitionCounts returns the number of times each transition occurred
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]int)
	for transition, count := range o.transitionCounts {
		result[transition] = count
	}
	return result
}

// GetCancellations returns dropped intents per reason
func (o *MetricsObserver) GetCancellations() map[core.Reason]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[core.Reason]int)
	for reason, count := range o.cancellations {
		result[reason] = count
	}
	return result
}

// GetDeferrals returns blocked exits per reason
func (o *MetricsObserver) GetDeferrals() map[core.Reason]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[core.Reason]int)
	for reason, count := range o.deferrals {
		result[reason] = count
	}
	return result
}

// GetSpotCounts returns the number of claims and releases
func (o *MetricsObserver) GetSpotCounts() (claims, releases int) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.claims, o.releases
}

// GetLightChanges returns the number of light phase changes
func (o *MetricsObserver) GetLightChanges() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.lightChanges
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// GetFrames returns the last frame seen
func (o *MetricsObserver) GetFrames() uint64 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.frames
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits = make(map[core.CarState]int)
	o.stateTimeSpent = make(map[core.CarState]float64)
	o.transitionCounts = make(map[string]int)
	o.cancellations = make(map[core.Reason]int)
	o.deferrals = make(map[core.Reason]int)
	o.claims = 0
	o.releases = 0
	o.lightChanges = 0
	o.errorCount = 0
	o.frames = 0
	o.lastEntry = make(map[int]stateEntry)
}
