package engine

import (
	"math"

	"github.com/anggasct/smartcity/pkg/core"
)

func (e *Engine) updateToParking(c *core.Car, dt float64) {
	gap := e.lotGap(c)

	target := ApproachSpeed
	switch {
	case gap < EmergencyGap:
		target = 0
	case gap < ParkingBrakeStart:
		target = ApproachSpeed * (gap - EmergencyGap) / (ParkingBrakeStart - EmergencyGap)
	}
	c.Speed = blend(c.Speed, target, BrakeRate*dt)

	if c.Speed <= MinMoveSpeed {
		return
	}
	step := c.Speed * dt

	// x first, then y
	if dx := c.TargetPos[0] - c.WorldPos[0]; math.Abs(dx) > ArrivalTolerance {
		c.WorldPos[0] += math.Copysign(math.Min(step, math.Abs(dx)), dx)
		if dx > 0 {
			c.Rotation = 0
		} else {
			c.Rotation = 180
		}
		return
	}
	c.WorldPos[0] = c.TargetPos[0]
	if dy := c.TargetPos[1] - c.WorldPos[1]; math.Abs(dy) > ArrivalTolerance {
		c.WorldPos[1] += math.Copysign(math.Min(step, math.Abs(dy)), dy)
		if dy > 0 {
			c.Rotation = 90
		} else {
			c.Rotation = 270
		}
		return
	}

	c.WorldPos = c.TargetPos
	c.Speed = 0
	c.WaitTimer = e.dwell()
	e.transition(c, core.Parked, core.ReasonArrived)
}

func (e *Engine) updateParked(c *core.Car, dt float64) {
	c.WaitTimer -= dt
	if c.WaitTimer > 0 {
		return
	}

	lot := e.Lots[c.ParkingIdx]
	road := e.Roads[c.RoadIndex]
	c.TargetPos = lot.ExitPos

	if e.exitInUse(c) {
		e.deferExit(c, core.ReasonExitInUse)
		return
	}
	if !e.mergeClear(c, road.Project(lot.ExitPos)) {
		e.deferExit(c, core.ReasonRoadNotClear)
		return
	}

	c.CurrentLane = lot.EntryLane
	c.TargetLane = lot.EntryLane
	c.LaneOffset = road.LaneOffset(lot.EntryLane)
	e.transition(c, core.LeavingParking, core.ReasonExitClear)
}

func (e *Engine) deferExit(c *core.Car, reason core.Reason) {
	c.WaitTimer = e.config.ExitRetryDelay
	e.observers.NotifyExitDeferred(c.ID, c.ParkingIdx, reason)
}
