package engine_test

import (
	"testing"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/stretchr/testify/require"
)

const frameDT = 1.0 / 60

// recorder collects every notification it receives
type recorder struct {
	engine.BaseObserver
	transitions []core.TransitionEvent
	cancelled   []core.Reason
	deferred    []core.Reason
	claimed     int
	released    int
	lights      [][2]core.LightState
	errors      []error
	frames      int
}

func (r *recorder) OnTransition(event core.TransitionEvent) {
	r.transitions = append(r.transitions, event)
}

func (r *recorder) OnSpotClaimed(carID, lot, spot int) { r.claimed++ }
func (r *recorder) OnSpotReleased(carID, lot, spot int) { r.released++ }

func (r *recorder) OnLightChanged(road int, from, to core.LightState) {
	r.lights = append(r.lights, [2]core.LightState{from, to})
}

func (r *recorder) OnIntentCancelled(carID, lot int, reason core.Reason) {
	r.cancelled = append(r.cancelled, reason)
}

func (r *recorder) OnExitDeferred(carID, lot int, reason core.Reason) {
	r.deferred = append(r.deferred, reason)
}

func (r *recorder) OnError(err error) { r.errors = append(r.errors, err) }
func (r *recorder) OnFrame(info engine.FrameInfo) { r.frames++ }

func (r *recorder) keys() []string {
	out := make([]string, len(r.transitions))
	for i, ev := range r.transitions {
		out[i] = ev.Key()
	}
	return out
}

// testRoad runs along the x axis from 0 to 1000. Lane 0 is at y=-20 and
// lane 1 at y=20.
func testRoad(light core.LightState) *core.Road {
	return core.NewRoad(geom.V(0, 0), geom.V(1000, 0), 2, 80, light, 100)
}

// returnRoad runs back from x=1000 to 0 at y=300.
func returnRoad() *core.Road {
	return core.NewRoad(geom.V(1000, 300), geom.V(0, 300), 2, 80, core.LightGreen, 100)
}

// lotBelow sits under testRoad and is entered from lane 1. Its entrance is
// at x=175 and its exit projects to distance 175.
func lotBelow(capacity int) *core.ParkingLot {
	lot := core.NewParkingLot("Below", geom.V(100, 100), geom.V(150, 80), capacity, 5, core.ColorGray, geom.V(175, 0))
	lot.EntryLane = 1
	return lot
}

func quietConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.ParkingRate = 0
	return cfg
}

func driving(road *core.Road, id, lane int, distance, speed float64) *core.Car {
	c := core.NewCar(id, 0, lane, distance, speed)
	c.LaneOffset = road.LaneOffset(lane)
	return c
}

// parked puts a car into spot of lot (index lotIdx) with its dwell expired.
func parked(t *testing.T, road *core.Road, lot *core.ParkingLot, lotIdx, id, spot int) *core.Car {
	t.Helper()
	require.NoError(t, lot.Claim(spot))

	c := core.NewCar(id, lot.Road, lot.EntryLane, 0, 0)
	c.LaneOffset = road.LaneOffset(lot.EntryLane)
	c.State = core.Parked
	c.ParkingIdx = lotIdx
	c.SpotIdx = spot
	c.WorldPos = lot.SpotPosition(spot)
	c.TargetPos = c.WorldPos
	c.Rotation = 90
	return c
}

func newEngine(t *testing.T, roads []*core.Road, lots []*core.ParkingLot, cars []*core.Car, cfg engine.Config) (*engine.Engine, *recorder) {
	t.Helper()
	e, err := engine.New(roads, lots, cars, cfg)
	require.NoError(t, err)
	rec := &recorder{}
	e.AddObserver(rec)
	return e, rec
}

func countState(e *engine.Engine, state core.CarState) int {
	n := 0
	for _, c := range e.Cars {
		if c.State == state {
			n++
		}
	}
	return n
}
