package engine

import (
	"math"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/samber/lo"
)

// IsLaneFree reports whether no other driving car on road, currently in or
// heading for lane, is within LaneCheckFactor safe distances of distance.
// The car with id self is ignored.
func IsLaneFree(cars []*core.Car, road, lane int, distance float64, self int) bool {
	for _, o := range cars {
		if o.ID == self || o.RoadIndex != road || o.State != core.Driving {
			continue
		}
		if o.CurrentLane != lane && o.TargetLane != lane {
			continue
		}
		if math.Abs(o.Distance-distance) < LaneCheckFactor*core.SafeDistance {
			return false
		}
	}
	return true
}

// IsLaneFree is the engine-bound form of the package function.
func (e *Engine) IsLaneFree(road, lane int, distance float64, self int) bool {
	return IsLaneFree(e.Cars, road, lane, distance, self)
}

// ReachableLots returns the indices of lots a car in lane of road may turn
// into.
func (e *Engine) ReachableLots(road, lane int) []int {
	var out []int
	for i, lot := range e.Lots {
		if lot.Road == road && lot.EntryLane == lane {
			out = append(out, i)
		}
	}
	return out
}

// Admitted counts the cars that hold lot, by intent or by spot.
func (e *Engine) Admitted(lot int) int {
	return lo.CountBy(e.Cars, func(c *core.Car) bool {
		return c.ParkingIdx == lot
	})
}

// roadGap returns the free space ahead of a driving car: the nearest
// obstacle in its lane, or the stop line when the light is not green.
// Parked cars never count. Leaving cars count at the point they will merge.
func (e *Engine) roadGap(c *core.Car, road *core.Road) float64 {
	gap := math.Inf(1)

	for _, o := range e.Cars {
		if o.ID == c.ID || o.RoadIndex != c.RoadIndex || o.CurrentLane != c.CurrentLane {
			continue
		}
		var at float64
		switch o.State {
		case core.Driving, core.ToParking:
			at = o.Distance
		case core.LeavingParking:
			at = e.Roads[o.RoadIndex].Project(o.TargetPos)
		default:
			continue
		}
		if ahead := at - c.Distance; ahead > 0 && ahead < gap {
			gap = ahead
		}
	}

	if !road.Light.IsGreen() {
		if stop := road.Length() - LightStopOffset - c.Distance; stop > 0 && stop < gap {
			gap = stop
		}
	}
	return gap
}

// lotGap returns the free space ahead of a car manoeuvring to its spot.
// Cars of the same lot count inside a forward vision cone; driving cars
// queued just ahead on the road count by road distance.
func (e *Engine) lotGap(c *core.Car) float64 {
	gap := math.Inf(1)
	heading := geom.Normalize(geom.Sub(c.TargetPos, c.WorldPos))

	for _, o := range e.Cars {
		if o.ID == c.ID {
			continue
		}
		switch o.State {
		case core.ToParking, core.LeavingParking:
			if o.ParkingIdx != c.ParkingIdx {
				continue
			}
			toOther := geom.Normalize(geom.Sub(o.WorldPos, c.WorldPos))
			if geom.Dot(heading, toOther) > VisionCone {
				gap = math.Min(gap, geom.Distance(c.WorldPos, o.WorldPos))
			}
		case core.Driving:
			if o.RoadIndex != c.RoadIndex || o.CurrentLane != c.CurrentLane {
				continue
			}
			if d := o.Distance - c.Distance; d > 0 && d < RoadQueueRange {
				gap = math.Min(gap, d)
			}
		}
	}
	return gap
}

// mergeClear reports whether a car may pull out of a lot onto road at merge
// distance. Driving and entering cars on any lane block it if they are up
// to UpstreamWindow behind the merge point or DownstreamWindow past it.
func (e *Engine) mergeClear(c *core.Car, merge float64) bool {
	for _, o := range e.Cars {
		if o.ID == c.ID || o.RoadIndex != c.RoadIndex {
			continue
		}
		if o.State != core.Driving && o.State != core.ToParking {
			continue
		}
		diff := merge - o.Distance
		if diff >= 0 && diff < UpstreamWindow {
			return false
		}
		if diff < 0 && diff > -DownstreamWindow {
			return false
		}
	}
	return true
}

// exitInUse reports whether another car is already leaving c's lot.
func (e *Engine) exitInUse(c *core.Car) bool {
	return lo.ContainsBy(e.Cars, func(o *core.Car) bool {
		return o.ID != c.ID && o.ParkingIdx == c.ParkingIdx && o.State == core.LeavingParking
	})
}

// blend moves current toward target by factor rate*dt, never overshooting.
func blend(current, target, factor float64) float64 {
	return geom.Lerp(current, target, geom.Clamp(factor, 0, 1))
}
