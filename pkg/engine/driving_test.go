package engine_test

import (
	"testing"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriving_StopsAtRedLight(t *testing.T) {
	for _, light := range []core.LightState{core.LightRed, core.LightYellow} {
		t.Run(light.String(), func(t *testing.T) {
			road := testRoad(light)
			// stop line is at 800
			c := driving(road, 1, 0, 680, core.MaxSpeed)
			e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{c}, quietConfig())

			for i := 0; i < 120; i++ {
				e.Update(frameDT)
				require.Less(t, c.Distance, 800.0)
			}
			assert.Less(t, c.Speed, 1.0)
		})
	}
}

func TestDriving_PassesGreenLight(t *testing.T) {
	road := testRoad(core.LightGreen)
	c := driving(road, 1, 0, 680, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{c}, quietConfig())

	for i := 0; i < 60; i++ {
		e.Update(frameDT)
	}
	assert.Greater(t, c.Distance, 800.0)
	assert.InDelta(t, core.MaxSpeed, c.Speed, 1e-9)
}

func TestDriving_KeepsDistanceToLeader(t *testing.T) {
	road := testRoad(core.LightRed)
	// leader is 10 short of the stop line and never moves
	leader := driving(road, 1, 0, 790, 0)
	follower := driving(road, 2, 0, 500, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{follower, leader}, quietConfig())

	for i := 0; i < 600; i++ {
		e.Update(frameDT)
		require.Greater(t, leader.Distance-follower.Distance, core.CarLength)
	}
	assert.InDelta(t, 790.0, leader.Distance, 1e-9)
	assert.Less(t, follower.Speed, 1.0)
}

func TestDriving_OtherLaneDoesNotBlock(t *testing.T) {
	road := testRoad(core.LightGreen)
	slow := driving(road, 1, 1, 300, 0)
	fast := driving(road, 2, 0, 250, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{slow, fast}, quietConfig())

	e.Update(frameDT)
	assert.InDelta(t, core.MaxSpeed, fast.Speed, 1e-9)
}

func TestDriving_SlowZone(t *testing.T) {
	road := testRoad(core.LightGreen)
	leader := driving(road, 1, 0, 600, core.MaxSpeed)
	follower := driving(road, 2, 0, 300, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{leader, follower}, quietConfig())

	e.Update(0.1)
	// gap of 300 is inside 2.5 safe distances: blend half way to 60
	assert.InDelta(t, 130.0, follower.Speed, 1e-9)
	assert.InDelta(t, core.MaxSpeed, leader.Speed, 1e-9)
}

func TestDriving_LargeStepNeverReversesSpeed(t *testing.T) {
	road := testRoad(core.LightRed)
	c := driving(road, 1, 0, 700, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{c}, quietConfig())

	e.Update(0.5)
	assert.GreaterOrEqual(t, c.Speed, 0.0)
}

func TestDriving_WrapsToNextRoad(t *testing.T) {
	road := testRoad(core.LightGreen)
	back := returnRoad()
	lot := core.NewParkingLot("Far", geom.V(100, -200), geom.V(50, 50), 1, 1, core.ColorGray, geom.V(125, 0))

	c := driving(road, 1, 0, 1049, core.MaxSpeed)
	c.ParkingIdx = 0
	e, rec := newEngine(t, []*core.Road{road, back}, []*core.ParkingLot{lot}, []*core.Car{c}, quietConfig())

	e.Update(0.1)

	assert.Equal(t, 1, c.RoadIndex)
	assert.InDelta(t, -core.CarLength, c.Distance, 1e-9)
	assert.InDelta(t, core.MaxSpeed, c.Speed, 1e-9)
	assert.False(t, c.HasParkingIntent())
	assert.Equal(t, []core.Reason{core.ReasonRoadWrapped}, rec.cancelled)

	// last road wraps to the first
	c.Distance = 1049
	e.Update(0.1)
	assert.Equal(t, 0, c.RoadIndex)
}

func TestDriving_WorldPosFollowsLane(t *testing.T) {
	road := testRoad(core.LightGreen)
	c := driving(road, 1, 1, 100, 0)
	e, _ := newEngine(t, []*core.Road{road}, nil, []*core.Car{c}, quietConfig())

	e.Update(frameDT)
	assert.InDelta(t, 100.0, c.WorldPos[0], 1e-9)
	assert.InDelta(t, 20.0, c.WorldPos[1], 1e-9)
	assert.InDelta(t, 0.0, c.Rotation, 1e-9)
}

func TestDriving_BrakesForLeavingCar(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := core.NewParkingLot("Mid", geom.V(425, 100), geom.V(150, 80), 2, 1, core.ColorGray, geom.V(500, 0))
	lot.EntryLane = 1

	leaving := parked(t, road, lot, 0, 1, 0)
	leaving.State = core.LeavingParking
	leaving.TargetPos = lot.ExitPos

	c := driving(road, 2, 1, 400, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{leaving, c}, quietConfig())

	e.Update(frameDT)
	assert.Less(t, c.Speed, core.MaxSpeed)
}

func TestDriving_IgnoresParkedCars(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := core.NewParkingLot("Mid", geom.V(425, 100), geom.V(150, 80), 2, 1, core.ColorGray, geom.V(500, 0))
	lot.EntryLane = 1

	p := parked(t, road, lot, 0, 1, 0)
	p.WaitTimer = 100
	p.Distance = 450

	c := driving(road, 2, 1, 400, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{p, c}, quietConfig())

	e.Update(frameDT)
	assert.InDelta(t, core.MaxSpeed, c.Speed, 1e-9)
}

func TestDriving_BrakesForEnteringCar(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := core.NewParkingLot("Above", geom.V(280, -200), geom.V(50, 50), 1, 1, core.ColorGray, geom.V(305, 0))

	entering := driving(road, 1, 0, 300, 40)
	require.NoError(t, lot.Claim(0))
	entering.State = core.ToParking
	entering.ParkingIdx = 0
	entering.SpotIdx = 0
	entering.WorldPos = road.PointAt(300, entering.LaneOffset)
	entering.TargetPos = lot.SpotPosition(0)

	follower := driving(road, 2, 0, 240, core.MaxSpeed)
	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{follower, entering}, quietConfig())

	e.Update(frameDT)
	assert.Less(t, follower.Speed, core.MaxSpeed)
}

func TestIsLaneFree(t *testing.T) {
	road := testRoad(core.LightGreen)
	a := driving(road, 1, 0, 500, 0)
	b := driving(road, 2, 1, 100, 0)
	b.TargetLane = 0
	cars := []*core.Car{a, b}

	assert.False(t, engine.IsLaneFree(cars, 0, 0, 400, 99))
	assert.True(t, engine.IsLaneFree(cars, 0, 0, 400, 1), "the asking car is ignored")
	// b is changing into lane 0
	assert.False(t, engine.IsLaneFree(cars, 0, 0, 150, 1))
	assert.True(t, engine.IsLaneFree(cars, 0, 1, 400, 99))
	assert.True(t, engine.IsLaneFree(cars, 1, 0, 500, 99), "other roads never block")

	a.State = core.Parked
	assert.True(t, engine.IsLaneFree(cars, 0, 0, 600, 99))
}
