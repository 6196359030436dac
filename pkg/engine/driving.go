package engine

import (
	"math"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/geom"
)

func (e *Engine) updateDriving(c *core.Car, dt float64) {
	if c.WaitTimer > 0 {
		c.WaitTimer -= dt
	}
	road := e.Roads[c.RoadIndex]
	c.WorldPos = road.PointAt(c.Distance, c.LaneOffset)
	c.Rotation = road.Heading()

	if !c.HasParkingIntent() && c.WaitTimer <= 0 && c.Distance > IntentMinDistance {
		if e.rng.Float64() < e.config.IntentProbability(dt) {
			e.chooseLot(c)
		}
	}

	if c.HasParkingIntent() && e.approachLot(c) {
		return
	}

	e.follow(c, e.roadGap(c, road), dt)
	c.Distance += c.Speed * dt

	if c.Distance > road.Length()+WrapMargin {
		e.wrap(c)
	}
}

// chooseLot gives c an intent for the nearest reachable lot with a free
// spot, unless that lot has reached its admission cap.
func (e *Engine) chooseLot(c *core.Car) {
	best := core.NoIndex
	bestDist := math.Inf(1)
	for _, idx := range e.ReachableLots(c.RoadIndex, c.CurrentLane) {
		lot := e.Lots[idx]
		if !lot.HasFreeSpot() {
			continue
		}
		if d := geom.Distance(c.WorldPos, lot.Position); d < bestDist {
			best, bestDist = idx, d
		}
	}
	if best == core.NoIndex {
		return
	}

	if limit := e.Lots[best].AdmissionCap; limit > 0 && e.Admitted(best) >= limit {
		e.observers.NotifyIntentCancelled(c.ID, best, core.ReasonAdmissionFull)
		return
	}
	c.ParkingIdx = best
}

// approachLot runs while a driving car holds an intent. It reports true
// once the car has a spot and left the road.
func (e *Engine) approachLot(c *core.Car) bool {
	lot := e.Lots[c.ParkingIdx]
	if c.CurrentLane != lot.EntryLane {
		e.cancelIntent(c, core.ReasonWrongLane)
		return false
	}
	if math.Abs(c.WorldPos[0]-lot.EntranceX()) >= EntranceTolerance {
		return false
	}
	if !e.claimSpot(c) {
		e.cancelIntent(c, core.ReasonLotFull)
		return false
	}

	c.TargetPos = lot.SpotPosition(c.SpotIdx)
	e.transition(c, core.ToParking, core.ReasonSpotClaimed)
	return true
}

// follow adjusts speed to the gap ahead.
func (e *Engine) follow(c *core.Car, gap, dt float64) {
	switch {
	case gap < EmergencyGap:
		c.Speed = 0
	case gap < core.SafeDistance:
		c.Speed = blend(c.Speed, 0, BrakeRate*dt)
	case gap < SlowZoneFactor*core.SafeDistance:
		c.Speed = blend(c.Speed, core.MaxSpeed*SlowSpeedFactor, CruiseRate*dt)
	default:
		c.Speed = blend(c.Speed, core.MaxSpeed, CruiseRate*dt)
	}

	if c.HasParkingIntent() {
		c.Speed = math.Min(c.Speed, ApproachSpeed)
	}
}

// wrap moves a car that ran off the end of its road to the start of the
// next one.
func (e *Engine) wrap(c *core.Car) {
	if c.HasParkingIntent() {
		e.cancelIntent(c, core.ReasonRoadWrapped)
	}

	c.RoadIndex = (c.RoadIndex + 1) % len(e.Roads)
	road := e.Roads[c.RoadIndex]
	if !road.ValidLane(c.CurrentLane) {
		c.CurrentLane = road.Lanes - 1
	}
	c.TargetLane = c.CurrentLane
	c.LaneOffset = road.LaneOffset(c.CurrentLane)
	c.Distance = -core.CarLength
	c.Speed = core.MaxSpeed
}
