package engine

import (
	"fmt"

	"github.com/anggasct/smartcity/pkg/core"
)

// Observer represents an entity that observes car lifecycle changes
type Observer interface {
	// OnTransition is called after a car changed state
	OnTransition(event core.TransitionEvent)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnSpotClaimed is called when a car takes a parking spot
	OnSpotClaimed(carID, lot, spot int)

	// OnSpotReleased is called when a car frees its parking spot
	OnSpotReleased(carID, lot, spot int)

	// OnLightChanged is called when a road's light switches phase
	OnLightChanged(road int, from, to core.LightState)

	// OnIntentCancelled is called when a car drops a parking intent
	OnIntentCancelled(carID, lot int, reason core.Reason)

	// OnExitDeferred is called when a parked car has to wait before leaving
	OnExitDeferred(carID, lot int, reason core.Reason)

	// OnError is called when an invariant violation is detected
	OnError(err error)

	// OnFrame is called at the end of every update
	OnFrame(info FrameInfo)
}

// FrameInfo describes a completed update.
type FrameInfo struct {
	RunID string
	Frame uint64
	Clock float64
	DT    float64
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(event core.TransitionEvent) {}

// OnSpotClaimed implements the optional ExtendedObserver method
func (o *BaseObserver) OnSpotClaimed(carID, lot, spot int) {}

// OnSpotReleased implements the optional ExtendedObserver method
func (o *BaseObserver) OnSpotReleased(carID, lot, spot int) {}

// OnLightChanged implements the optional ExtendedObserver method
func (o *BaseObserver) OnLightChanged(road int, from, to core.LightState) {}

// OnIntentCancelled implements the optional ExtendedObserver method
func (o *BaseObserver) OnIntentCancelled(carID, lot int, reason core.Reason) {}

// OnExitDeferred implements the optional ExtendedObserver method
func (o *BaseObserver) OnExitDeferred(carID, lot int, reason core.Reason) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// OnFrame implements the optional ExtendedObserver method
func (o *BaseObserver) OnFrame(info FrameInfo) {}

// ObserverManager manages a collection of observers
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered observers
func (om *ObserverManager) Len() int {
	return len(om.observers)
}

// NotifyTransition notifies all observers of a car transition
func (om *ObserverManager) NotifyTransition(event core.TransitionEvent) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Observer panicked - report it to the observer if it can take it, never crash the frame
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { recover() }()
							extObs.OnError(fmt.Errorf("observer panic in OnTransition: %v", r))
						}()
					}
				}
			}()
			observer.OnTransition(event)
		}()
	}
}

// each calls fn for every extended observer, recovering from observer panics
func (om *ObserverManager) each(name string, fn func(ExtendedObserver)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		extObs, ok := observer.(ExtendedObserver)
		if !ok {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil && name != "OnError" {
					func() {
						defer func() { recover() }()
						extObs.OnError(fmt.Errorf("observer panic in %s: %v", name, r))
					}()
				}
			}()
			fn(extObs)
		}()
	}
}

// NotifySpotClaimed notifies all observers of a spot claim
func (om *ObserverManager) NotifySpotClaimed(carID, lot, spot int) {
	om.each("OnSpotClaimed", func(o ExtendedObserver) { o.OnSpotClaimed(carID, lot, spot) })
}

// NotifySpotReleased notifies all observers of a spot release
func (om *ObserverManager) NotifySpotReleased(carID, lot, spot int) {
	om.each("OnSpotReleased", func(o ExtendedObserver) { o.OnSpotReleased(carID, lot, spot) })
}

// NotifyLightChanged notifies all observers of a light phase change
func (om *ObserverManager) NotifyLightChanged(road int, from, to core.LightState) {
	om.each("OnLightChanged", func(o ExtendedObserver) { o.OnLightChanged(road, from, to) })
}

// NotifyIntentCancelled notifies all observers of a dropped parking intent
func (om *ObserverManager) NotifyIntentCancelled(carID, lot int, reason core.Reason) {
	om.each("OnIntentCancelled", func(o ExtendedObserver) { o.OnIntentCancelled(carID, lot, reason) })
}

// NotifyExitDeferred notifies all observers of a postponed exit
func (om *ObserverManager) NotifyExitDeferred(carID, lot int, reason core.Reason) {
	om.each("OnExitDeferred", func(o ExtendedObserver) { o.OnExitDeferred(carID, lot, reason) })
}

// NotifyError notifies all observers of errors
func (om *ObserverManager) NotifyError(err error) {
	om.each("OnError", func(o ExtendedObserver) { o.OnError(err) })
}

// NotifyFrame notifies all observers that a frame completed
func (om *ObserverManager) NotifyFrame(info FrameInfo) {
	om.each("OnFrame", func(o ExtendedObserver) { o.OnFrame(info) })
}
