// Package stats summarises the state of a running city for dashboards.
package stats

import (
	"fmt"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Band is the colour a lot's occupancy bar is drawn in.
type Band string

const (
	BandGreen  Band = "green"
	BandOrange Band = "orange"
	BandRed    Band = "red"
)

// Occupancy ratios where the dashboard band changes.
const (
	OrangeThreshold = 0.7
	RedThreshold    = 0.9
)

// BandFor returns the dashboard band of an occupancy ratio.
func BandFor(ratio float64) Band {
	switch {
	case ratio < OrangeThreshold:
		return BandGreen
	case ratio < RedThreshold:
		return BandOrange
	default:
		return BandRed
	}
}

// LotStats is the occupancy of one lot.
type LotStats struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Occupied int     `json:"occupied"`
	Capacity int     `json:"capacity"`
	Ratio    float64 `json:"ratio"`
	Band     Band    `json:"band"`
	// Admitted counts cars heading for or inside the lot.
	Admitted int `json:"admitted"`
}

// Label renders the lot as "Name : occupied/capacity".
func (l LotStats) Label() string {
	return fmt.Sprintf("%s : %d/%d", l.Name, l.Occupied, l.Capacity)
}

// RoadStats is the traffic on one road.
type RoadStats struct {
	Index int             `json:"index"`
	Cars  int             `json:"cars"`
	Light core.LightState `json:"light"`
	// Density is driving cars per 1000 units of road.
	Density float64 `json:"density"`
}

// Report is a point-in-time summary of the city.
type Report struct {
	Frame       uint64                `json:"frame"`
	Clock       float64               `json:"clock"`
	States      map[core.CarState]int `json:"states"`
	MeanSpeed   float64               `json:"mean_speed"`
	SpeedStdDev float64               `json:"speed_std_dev"`
	Roads       []RoadStats           `json:"roads"`
	Lots        []LotStats            `json:"lots"`
	Violations  []string              `json:"violations,omitempty"`
}

// Healthy reports whether no invariant violation was found.
func (r Report) Healthy() bool {
	return len(r.Violations) == 0
}

// Collect builds a report for the current engine state.
func Collect(e *engine.Engine) Report {
	states := make(map[core.CarState]int, len(core.CarStates))
	for _, s := range core.CarStates {
		states[s] = 0
	}
	for s, group := range lo.GroupBy(e.Cars, func(c *core.Car) core.CarState { return c.State }) {
		states[s] = len(group)
	}

	drivingCars := lo.Filter(e.Cars, func(c *core.Car, _ int) bool { return c.State == core.Driving })
	speeds := lo.Map(drivingCars, func(c *core.Car, _ int) float64 { return c.Speed })
	var mean, std float64
	if len(speeds) > 0 {
		mean = stat.Mean(speeds, nil)
	}
	if len(speeds) > 1 {
		std = stat.StdDev(speeds, nil)
	}

	roads := lo.Map(e.Roads, func(r *core.Road, i int) RoadStats {
		n := lo.CountBy(drivingCars, func(c *core.Car) bool { return c.RoadIndex == i })
		return RoadStats{
			Index:   i,
			Cars:    n,
			Light:   r.Light.State,
			Density: float64(n) / r.Length() * 1000,
		}
	})

	lots := lo.Map(e.Lots, func(p *core.ParkingLot, i int) LotStats {
		ratio := p.OccupancyRatio()
		return LotStats{
			Index:    i,
			Name:     p.Name,
			Occupied: p.OccupiedCount(),
			Capacity: p.Capacity(),
			Ratio:    ratio,
			Band:     BandFor(ratio),
			Admitted: e.Admitted(i),
		}
	})

	return Report{
		Frame:       e.Frame(),
		Clock:       e.Clock(),
		States:      states,
		MeanSpeed:   mean,
		SpeedStdDev: std,
		Roads:       roads,
		Lots:        lots,
		Violations:  CheckInvariants(e),
	}
}

// CheckInvariants returns a description of every broken world invariant:
// occupancy out of step with spot holders, a car in a lot without a spot, a
// spot held twice, or more than one car leaving the same lot.
func CheckInvariants(e *engine.Engine) []string {
	var out []string

	type spot struct{ lot, idx int }
	holders := make(map[spot]int)
	perLot := make(map[int]int)
	leaving := make(map[int]int)

	for _, c := range e.Cars {
		if c.InLot() && !c.HoldsSpot() {
			out = append(out, fmt.Sprintf("car %d is %s without a spot", c.ID, c.State))
		}
		if c.State == core.LeavingParking {
			leaving[c.ParkingIdx]++
		}
		if !c.HoldsSpot() {
			continue
		}
		key := spot{c.ParkingIdx, c.SpotIdx}
		if other, ok := holders[key]; ok {
			out = append(out, fmt.Sprintf("spot %d of lot %d held by cars %d and %d", c.SpotIdx, c.ParkingIdx, other, c.ID))
		}
		holders[key] = c.ID
		perLot[c.ParkingIdx]++
	}

	for i, lot := range e.Lots {
		if occ := lot.OccupiedCount(); occ != perLot[i] {
			out = append(out, fmt.Sprintf("lot %s has %d occupied spots but %d holders", lot.Name, occ, perLot[i]))
		}
		if leaving[i] > 1 {
			out = append(out, fmt.Sprintf("lot %s has %d cars leaving at once", lot.Name, leaving[i]))
		}
	}
	return out
}
