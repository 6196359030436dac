// Package snapshot turns the engine state into a plain value an external
// renderer can draw from.
package snapshot

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/samber/lo"
)

// Frame is everything a renderer needs to draw one frame.
type Frame struct {
	RunID     string  `json:"run_id"`
	Frame     uint64  `json:"frame"`
	Clock     float64 `json:"clock"`
	ClockText string  `json:"clock_text"`
	TimeScale float64 `json:"time_scale"`
	Paused    bool    `json:"paused"`
	Roads     []Road  `json:"roads"`
	Lots      []Lot   `json:"lots"`
	Cars      []Car   `json:"cars"`
}

// Light is the state of a road's traffic light.
type Light struct {
	State    core.LightState `json:"state"`
	Timer    float64         `json:"timer"`
	Position geom.Vec2       `json:"position"`
}

// Road describes one road.
type Road struct {
	Index   int       `json:"index"`
	Start   geom.Vec2 `json:"start"`
	End     geom.Vec2 `json:"end"`
	Lanes   int       `json:"lanes"`
	Width   float64   `json:"width"`
	Heading float64   `json:"heading"`
	Light   Light     `json:"light"`
}

// Lot describes one parking lot and its spots.
type Lot struct {
	Index         int         `json:"index"`
	Name          string      `json:"name"`
	Side          string      `json:"side,omitempty"`
	Position      geom.Vec2   `json:"position"`
	Size          geom.Vec2   `json:"size"`
	Exit          geom.Vec2   `json:"exit"`
	Price         float64     `json:"price"`
	Color         core.Color  `json:"color"`
	Road          int         `json:"road"`
	EntryLane     int         `json:"entry_lane"`
	AdmissionCap  int         `json:"admission_cap,omitempty"`
	Capacity      int         `json:"capacity"`
	Occupied      int         `json:"occupied"`
	Spots         []bool      `json:"spots"`
	SpotPositions []geom.Vec2 `json:"spot_positions"`
}

// Car describes one car. Position and Rotation are valid in every state.
type Car struct {
	ID       int           `json:"id"`
	State    core.CarState `json:"state"`
	Road     int           `json:"road"`
	Lane     int           `json:"lane"`
	Distance float64       `json:"distance"`
	Position geom.Vec2     `json:"position"`
	Rotation float64       `json:"rotation"`
	Speed    float64       `json:"speed"`
	Color    core.Color    `json:"color"`
	Lot      int           `json:"lot"`
	Spot     int           `json:"spot"`
}

// Take captures the current engine state. Cars are listed by id.
func Take(e *engine.Engine) Frame {
	roads := lo.Map(e.Roads, func(r *core.Road, i int) Road {
		return Road{
			Index:   i,
			Start:   r.Start,
			End:     r.End,
			Lanes:   r.Lanes,
			Width:   r.Width,
			Heading: r.Heading(),
			Light:   Light{State: r.Light.State, Timer: r.Light.Timer, Position: r.Light.Position},
		}
	})

	lots := lo.Map(e.Lots, func(p *core.ParkingLot, i int) Lot {
		return Lot{
			Index:         i,
			Name:          p.Name,
			Side:          p.Side,
			Position:      p.Position,
			Size:          p.Size,
			Exit:          p.ExitPos,
			Price:         p.Price,
			Color:         p.Color,
			Road:          p.Road,
			EntryLane:     p.EntryLane,
			AdmissionCap:  p.AdmissionCap,
			Capacity:      p.Capacity(),
			Occupied:      p.OccupiedCount(),
			Spots:         p.Spots(),
			SpotPositions: lo.Times(p.Capacity(), p.SpotPosition),
		}
	})

	cars := lo.Map(e.Cars, func(c *core.Car, _ int) Car {
		return Car{
			ID:       c.ID,
			State:    c.State,
			Road:     c.RoadIndex,
			Lane:     c.CurrentLane,
			Distance: c.Distance,
			Position: c.WorldPos,
			Rotation: c.Rotation,
			Speed:    c.Speed,
			Color:    c.Color,
			Lot:      c.ParkingIdx,
			Spot:     c.SpotIdx,
		}
	})
	slices.SortFunc(cars, func(a, b Car) int { return cmp.Compare(a.ID, b.ID) })

	return Frame{
		RunID:     e.RunID(),
		Frame:     e.Frame(),
		Clock:     e.Clock(),
		ClockText: FormatClock(e.Clock()),
		TimeScale: 1,
		Roads:     roads,
		Lots:      lots,
		Cars:      cars,
	}
}

// FormatClock renders simulated seconds as mm:ss.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
