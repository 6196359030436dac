// Package engine advances the city one frame at a time: traffic lights,
// car following, and the parking lifecycle of every car.
package engine

import (
	"cmp"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/google/uuid"
)

// Engine owns the world and mutates it on Update. It is not safe for
// concurrent use; callers serialise access.
type Engine struct {
	Roads []*core.Road
	Lots  []*core.ParkingLot
	Cars  []*core.Car

	config    Config
	rng       *rand.Rand
	observers *ObserverManager
	runID     string
	frame     uint64
	clock     float64
}

// New validates the world and creates an engine for it. An optional Config
// replaces DefaultConfig.
func New(roads []*core.Road, lots []*core.ParkingLot, cars []*core.Car, config ...Config) (*Engine, error) {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateWorld(roads, lots, cars); err != nil {
		return nil, err
	}

	return &Engine{
		Roads:     roads,
		Lots:      lots,
		Cars:      cars,
		config:    cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		observers: NewObserverManager(),
		runID:     uuid.New().String(),
	}, nil
}

func validateWorld(roads []*core.Road, lots []*core.ParkingLot, cars []*core.Car) error {
	if len(roads) == 0 {
		return core.NewConfigurationError("World", "at least one road is required")
	}
	for i, r := range roads {
		component := fmt.Sprintf("Road %d", i)
		if r == nil {
			return core.NewConfigurationError(component, "road is nil")
		}
		if r.Lanes < 1 {
			return core.NewConfigurationError(component, "a road needs at least one lane")
		}
		if r.Length() <= 0 {
			return core.NewConfigurationError(component, "start and end coincide")
		}
	}

	for i, lot := range lots {
		component := fmt.Sprintf("Lot %d", i)
		if lot == nil {
			return core.NewConfigurationError(component, "lot is nil")
		}
		if lot.Capacity() < 1 {
			return core.NewConfigurationError(component, "capacity must be positive")
		}
		if lot.Road < 0 || lot.Road >= len(roads) {
			return core.NewConfigurationError(component, fmt.Sprintf("road index %d out of range", lot.Road))
		}
		if !roads[lot.Road].ValidLane(lot.EntryLane) {
			return core.NewConfigurationError(component, fmt.Sprintf("entry lane %d does not exist on road %d", lot.EntryLane, lot.Road))
		}
		if lot.AdmissionCap < 0 {
			return core.NewConfigurationError(component, "admission cap must be non-negative")
		}
	}

	ids := make(map[int]struct{}, len(cars))
	held := make(map[[2]int]int)
	for _, c := range cars {
		if c == nil {
			return core.NewConfigurationError("World", "car is nil")
		}
		component := fmt.Sprintf("Car %d", c.ID)
		if _, dup := ids[c.ID]; dup {
			return core.NewConfigurationError(component, "duplicate car id")
		}
		ids[c.ID] = struct{}{}

		if !c.State.Valid() {
			return core.NewConfigurationError(component, fmt.Sprintf("unknown state %d", int(c.State)))
		}
		if c.RoadIndex < 0 || c.RoadIndex >= len(roads) {
			return core.NewConfigurationError(component, fmt.Sprintf("road index %d out of range", c.RoadIndex))
		}
		road := roads[c.RoadIndex]
		if !road.ValidLane(c.CurrentLane) || !road.ValidLane(c.TargetLane) {
			return core.NewConfigurationError(component, fmt.Sprintf("lane %d/%d does not exist on road %d", c.CurrentLane, c.TargetLane, c.RoadIndex))
		}
		if c.Speed < 0 {
			return core.NewConfigurationError(component, "speed must be non-negative")
		}
		if c.ParkingIdx != core.NoIndex && (c.ParkingIdx < 0 || c.ParkingIdx >= len(lots)) {
			return core.NewConfigurationError(component, fmt.Sprintf("lot index %d out of range", c.ParkingIdx))
		}
		if c.ParkingIdx != core.NoIndex && lots[c.ParkingIdx].Road != c.RoadIndex {
			return core.NewConfigurationError(component, "car is not on the road its lot is served from")
		}
		if c.SpotIdx != core.NoIndex {
			if c.ParkingIdx == core.NoIndex {
				return core.NewConfigurationError(component, "spot held without a lot")
			}
			if !c.InLot() {
				return core.NewConfigurationError(component, fmt.Sprintf("%s car cannot hold a spot", c.State))
			}
			lot := lots[c.ParkingIdx]
			if c.SpotIdx < 0 || c.SpotIdx >= lot.Capacity() {
				return core.NewConfigurationError(component, fmt.Sprintf("spot %d out of range for lot %s", c.SpotIdx, lot.Name))
			}
			if !lot.IsOccupied(c.SpotIdx) {
				return core.NewConfigurationError(component, fmt.Sprintf("spot %d of lot %s is not marked occupied", c.SpotIdx, lot.Name))
			}
			key := [2]int{c.ParkingIdx, c.SpotIdx}
			if other, taken := held[key]; taken {
				return core.NewConfigurationError(component, fmt.Sprintf("spot %d of lot %s already held by car %d", c.SpotIdx, lot.Name, other))
			}
			held[key] = c.ID
		}
		if c.InLot() && !c.HoldsSpot() {
			return core.NewConfigurationError(component, fmt.Sprintf("%s car must hold a spot", c.State))
		}
	}
	return nil
}

// Config returns the settings the engine was built with.
func (e *Engine) Config() Config {
	return e.config
}

// RunID identifies this engine instance in emitted events.
func (e *Engine) RunID() string {
	return e.runID
}

// Frame returns the number of updates applied so far.
func (e *Engine) Frame() uint64 {
	return e.frame
}

// Clock returns the simulated seconds elapsed.
func (e *Engine) Clock() float64 {
	return e.clock
}

// AddObserver registers an observer for lifecycle events.
func (e *Engine) AddObserver(observer Observer) {
	e.observers.AddObserver(observer)
}

// RemoveObserver unregisters an observer.
func (e *Engine) RemoveObserver(observer Observer) {
	e.observers.RemoveObserver(observer)
}

// CarByID returns the car with the given id, or nil.
func (e *Engine) CarByID(id int) *core.Car {
	for _, c := range e.Cars {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Update advances the world by dt seconds. A dt that is not a positive
// finite number is a no-op.
//
// Lights tick first. Cars are then ordered by road and by distance, leaders
// first, and updated one by one; a car sees every change already made to
// the cars before it in the same frame.
func (e *Engine) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	e.frame++
	e.clock += dt

	for i, road := range e.Roads {
		if changed, prev := road.Light.Update(dt); changed {
			e.observers.NotifyLightChanged(i, prev, road.Light.State)
		}
	}

	e.sortCars()

	for _, c := range e.Cars {
		e.step(c, dt)
	}

	e.observers.NotifyFrame(FrameInfo{RunID: e.runID, Frame: e.frame, Clock: e.clock, DT: dt})
}

// sortCars orders cars by road index ascending then distance descending.
// The sort is stable so equal keys keep their previous order.
func (e *Engine) sortCars() {
	slices.SortStableFunc(e.Cars, func(a, b *core.Car) int {
		if a.RoadIndex != b.RoadIndex {
			return cmp.Compare(a.RoadIndex, b.RoadIndex)
		}
		return cmp.Compare(b.Distance, a.Distance)
	})
}

func (e *Engine) step(c *core.Car, dt float64) {
	switch c.State {
	case core.Driving:
		e.updateDriving(c, dt)
	case core.ToParking:
		e.updateToParking(c, dt)
	case core.Parked:
		e.updateParked(c, dt)
	case core.LeavingParking:
		e.updateLeaving(c, dt)
	default:
		err := core.NewInvalidStateError(c.ID, c.State)
		e.observers.NotifyError(err)
		panic(err)
	}
}

// transition moves c to the next lifecycle state. Anything off the
// lifecycle is a bug and panics after observers have seen the error.
func (e *Engine) transition(c *core.Car, to core.CarState, reason core.Reason) {
	from := c.State
	if !core.CanTransition(from, to) {
		err := core.NewTransitionNotAllowedError(c.ID, from, to)
		e.observers.NotifyError(err)
		panic(err)
	}
	c.State = to

	if e.observers.Len() > 0 {
		e.observers.NotifyTransition(core.NewTransitionEvent(e.runID, e.frame, e.clock, c, from, to, reason))
	}
}

// claimSpot gives c the first free spot of its intended lot. It reports
// false when the lot is full.
func (e *Engine) claimSpot(c *core.Car) bool {
	lot := e.Lots[c.ParkingIdx]
	spot := lot.FirstFreeSpot()
	if spot == core.NoIndex {
		return false
	}
	if err := lot.Claim(spot); err != nil {
		e.observers.NotifyError(err)
		panic(err)
	}
	c.SpotIdx = spot
	e.observers.NotifySpotClaimed(c.ID, c.ParkingIdx, spot)
	return true
}

func (e *Engine) releaseSpot(c *core.Car) {
	lot := e.Lots[c.ParkingIdx]
	if err := lot.Release(c.SpotIdx); err != nil {
		e.observers.NotifyError(err)
		panic(err)
	}
	e.observers.NotifySpotReleased(c.ID, c.ParkingIdx, c.SpotIdx)
}

func (e *Engine) cancelIntent(c *core.Car, reason core.Reason) {
	lot := c.ParkingIdx
	c.ClearParking()
	e.observers.NotifyIntentCancelled(c.ID, lot, reason)
}

// dwell draws how long a car stays parked.
func (e *Engine) dwell() float64 {
	return e.config.DwellMin + e.rng.Float64()*(e.config.DwellMax-e.config.DwellMin)
}
