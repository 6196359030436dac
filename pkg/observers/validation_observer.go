package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
)

type spotKey struct {
	lot  int
	spot int
}

// ValidationObserver checks the event stream for lifecycle and spot
// bookkeeping violations. It starts out with the car lifecycle loaded.
type ValidationObserver struct {
	engine.BaseObserver

	expectedStates     map[core.CarState]bool
	visitedStates      map[core.CarState]bool
	allowedTransitions map[core.CarState]map[core.CarState]bool
	holders            map[spotKey]int
	violations         []string
	mutex              sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	o := &ValidationObserver{
		expectedStates:     make(map[core.CarState]bool),
		visitedStates:      make(map[core.CarState]bool),
		allowedTransitions: make(map[core.CarState]map[core.CarState]bool),
		holders:            make(map[spotKey]int),
		violations:         make([]string, 0),
	}
	for _, t := range core.Lifecycle {
		o.AddAllowedTransition(t.From, t.To)
	}
	return o
}

// AddExpectedState adds a state the run is expected to reach
func (o *ValidationObserver) AddExpectedState(state core.CarState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedStates[state] = true
}

// AddAllowedTransition adds an allowed transition
func (o *ValidationObserver) AddAllowedTransition(from, to core.CarState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[core.CarState]bool)
	}

	o.allowedTransitions[from][to] = true
}

// Hold records a spot that is already held when observation starts
func (o *ValidationObserver) Hold(carID, lot, spot int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.holders[spotKey{lot, spot}] = carID
}

// OnTransition validates transitions
func (o *ValidationObserver) OnTransition(event core.TransitionEvent) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates[event.To] = true

	if !o.allowedTransitions[event.From][event.To] {
		o.violations = append(o.violations, fmt.Sprintf(
			"Invalid transition from '%s' to '%s' for car %d", event.From, event.To, event.CarID))
	}

	if event.To == core.ToParking {
		if holder, ok := o.holders[spotKey{event.Lot, event.Spot}]; !ok || holder != event.CarID {
			o.violations = append(o.violations, fmt.Sprintf(
				"Car %d entered lot %d without holding spot %d", event.CarID, event.Lot, event.Spot))
		}
	}
}

// OnSpotClaimed checks that a spot is never claimed twice
func (o *ValidationObserver) OnSpotClaimed(carID, lot, spot int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	key := spotKey{lot, spot}
	if holder, taken := o.holders[key]; taken {
		o.violations = append(o.violations, fmt.Sprintf(
			"Spot %d of lot %d claimed by car %d while held by car %d", spot, lot, carID, holder))
		return
	}
	o.holders[key] = carID
}

// OnSpotReleased checks that only the holder releases a spot
func (o *ValidationObserver) OnSpotReleased(carID, lot, spot int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	key := spotKey{lot, spot}
	if holder, taken := o.holders[key]; !taken || holder != carID {
		o.violations = append(o.violations, fmt.Sprintf(
			"Spot %d of lot %d released by car %d which does not hold it", spot, lot, carID))
		return
	}
	delete(o.holders, key)
}

// OnError validates error handling
func (o *ValidationObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, fmt.Sprintf("Error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedStates returns states that were expected but not visited
func (o *ValidationObserver) GetUnvisitedStates() []core.CarState {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []core.CarState
	for _, state := range core.CarStates {
		if o.expectedStates[state] && !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}

	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset clears visited states and violations. Spot holders are kept since
// they mirror the world, not the observation.
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[core.CarState]bool)
	o.violations = make([]string, 0)
}
