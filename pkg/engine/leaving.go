package engine

import (
	"math"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/geom"
)

// updateLeaving drives a car out of its lot in three phases: straight to
// the lane line, turn to the road heading, then merge.
func (e *Engine) updateLeaving(c *core.Car, dt float64) {
	road := e.Roads[c.RoadIndex]
	lane := road.PointAt(road.Project(c.WorldPos), c.LaneOffset)

	if dy := lane[1] - c.WorldPos[1]; math.Abs(dy) > ArrivalTolerance {
		c.WorldPos[1] += math.Copysign(math.Min(MergeSpeed*dt, math.Abs(dy)), dy)
		if dy > 0 {
			c.Rotation = 90
		} else {
			c.Rotation = 270
		}
		return
	}
	c.WorldPos[1] = lane[1]

	heading := road.Heading()
	if diff := geom.AngleDiffDeg(c.Rotation, heading); math.Abs(diff) > ArrivalTolerance {
		turn := TurnRate * dt
		if math.Abs(diff) <= turn {
			c.Rotation = heading
		} else {
			c.Rotation = geom.NormalizeDeg(c.Rotation + math.Copysign(turn, diff))
		}
		return
	}

	c.Rotation = heading
	c.Distance = road.Project(c.WorldPos)

	e.releaseSpot(c)
	e.transition(c, core.Driving, core.ReasonMerged)
	c.ClearParking()
	c.Speed = ReentrySpeed
	c.WaitTimer = e.config.ReentryCooldown
}
