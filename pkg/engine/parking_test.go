package engine_test

import (
	"testing"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spotChecker verifies that a spot is already held when a car is reported
// to have turned into its lot.
type spotChecker struct {
	engine.BaseObserver
	t    *testing.T
	lots []*core.ParkingLot
	seen int
}

func (s *spotChecker) OnTransition(event core.TransitionEvent) {
	if event.To != core.ToParking {
		return
	}
	s.seen++
	assert.True(s.t, s.lots[event.Lot].IsOccupied(event.Spot))
}

func TestParking_AdmissionWithinFewFrames(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := core.NewParkingLot("Small", geom.V(100, 100), geom.V(50, 50), 1, 1, core.ColorGray, geom.V(125, 0))

	c := driving(road, 1, 0, 120, 80)
	c.ParkingIdx = 0
	lots := []*core.ParkingLot{lot}
	e, rec := newEngine(t, []*core.Road{road}, lots, []*core.Car{c}, quietConfig())
	checker := &spotChecker{t: t, lots: lots}
	e.AddObserver(checker)

	for i := 0; i < 5 && c.State == core.Driving; i++ {
		e.Update(frameDT)
	}

	require.Equal(t, core.ToParking, c.State)
	assert.Equal(t, 0, c.SpotIdx)
	assert.True(t, lot.IsOccupied(0))
	assert.Equal(t, lot.SpotPosition(0), c.TargetPos)
	assert.Equal(t, 1, rec.claimed)
	assert.Equal(t, 1, checker.seen)
	assert.Equal(t, core.ReasonSpotClaimed, rec.transitions[0].Reason)
}

func TestParking_LotFullCancelsIntent(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := core.NewParkingLot("Small", geom.V(100, 100), geom.V(50, 50), 1, 1, core.ColorGray, geom.V(125, 0))
	require.NoError(t, lot.Claim(0))

	c := driving(road, 1, 0, 120, 80)
	c.ParkingIdx = 0
	e, rec := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c}, quietConfig())

	e.Update(frameDT)

	assert.Equal(t, core.Driving, c.State)
	assert.False(t, c.HasParkingIntent())
	assert.Equal(t, []core.Reason{core.ReasonLotFull}, rec.cancelled)
	assert.Empty(t, rec.transitions)
}

func TestParking_WrongLaneCancelsIntent(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := lotBelow(2)

	c := driving(road, 1, 0, 500, core.MaxSpeed)
	c.ParkingIdx = 0
	e, rec := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c}, quietConfig())

	e.Update(frameDT)

	assert.False(t, c.HasParkingIntent())
	assert.Equal(t, []core.Reason{core.ReasonWrongLane}, rec.cancelled)
	// without an intent the approach cap no longer applies
	assert.InDelta(t, core.MaxSpeed, c.Speed, 1e-9)
}

func TestParking_IntentCapsSpeed(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := lotBelow(2)

	c := driving(road, 1, 1, 500, core.MaxSpeed)
	c.ParkingIdx = 0
	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c}, quietConfig())

	e.Update(frameDT)
	assert.InDelta(t, engine.ApproachSpeed, c.Speed, 1e-9)
}

func TestParking_ChoosesNearestReachableLot(t *testing.T) {
	road := testRoad(core.LightGreen)
	farLot := core.NewParkingLot("Far", geom.V(100, -200), geom.V(50, 50), 2, 1, core.ColorGray, geom.V(125, 0))
	nearLot := core.NewParkingLot("Near", geom.V(480, -200), geom.V(50, 50), 2, 1, core.ColorGray, geom.V(505, 0))
	fullLot := core.NewParkingLot("Full", geom.V(500, -100), geom.V(50, 50), 1, 1, core.ColorGray, geom.V(525, 0))
	require.NoError(t, fullLot.Claim(0))
	otherLane := lotBelow(2)
	otherLane.Position = geom.V(500, 40)

	cfg := quietConfig()
	cfg.ParkingRate = 1e9

	c := driving(road, 1, 0, 500, 0)
	lots := []*core.ParkingLot{farLot, nearLot, fullLot, otherLane}
	e, _ := newEngine(t, []*core.Road{road}, lots, []*core.Car{c}, cfg)

	assert.Equal(t, []int{0, 1, 2}, e.ReachableLots(0, 0))
	assert.Equal(t, []int{3}, e.ReachableLots(0, 1))

	e.Update(frameDT)
	assert.Equal(t, 1, c.ParkingIdx)
}

func TestParking_NoIntentNearRoadStart(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := core.NewParkingLot("Start", geom.V(0, -200), geom.V(50, 50), 2, 1, core.ColorGray, geom.V(25, 0))

	cfg := quietConfig()
	cfg.ParkingRate = 1e9

	c := driving(road, 1, 0, 10, 0)
	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c}, cfg)

	e.Update(frameDT)
	assert.False(t, c.HasParkingIntent())

	c.Distance = 100
	c.WaitTimer = 5
	e.Update(frameDT)
	assert.False(t, c.HasParkingIntent(), "cooldown blocks a new intent")
}

func TestParking_AdmissionCap(t *testing.T) {
	cfg := quietConfig()
	cfg.ParkingRate = 1e9

	for _, tc := range []struct {
		name   string
		cap    int
		intent bool
	}{
		{"capped", 1, false},
		{"uncapped", 0, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			road := testRoad(core.LightGreen)
			vip := core.NewParkingLot("VIP", geom.V(100, -200), geom.V(150, 80), 4, 15, core.ColorBlue, geom.V(175, 0))
			vip.AdmissionCap = tc.cap

			holder := driving(road, 1, 0, 700, 0)
			holder.ParkingIdx = 0
			c := driving(road, 2, 0, 400, 0)
			e, rec := newEngine(t, []*core.Road{road}, []*core.ParkingLot{vip}, []*core.Car{holder, c}, cfg)

			e.Update(frameDT)

			assert.Equal(t, tc.intent, c.HasParkingIntent())
			if !tc.intent {
				assert.Equal(t, []core.Reason{core.ReasonAdmissionFull}, rec.cancelled)
				assert.Equal(t, 1, e.Admitted(0))
			}
		})
	}
}

func TestParking_ArrivalSetsDwell(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		road := testRoad(core.LightGreen)
		lot := lotBelow(1)
		c := parked(t, road, lot, 0, 1, 0)
		c.State = core.ToParking

		cfg := quietConfig()
		cfg.Seed = seed
		e, rec := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c}, cfg)

		e.Update(frameDT)

		require.Equal(t, core.Parked, c.State)
		assert.Equal(t, lot.SpotPosition(0), c.WorldPos)
		assert.Zero(t, c.Speed)
		assert.GreaterOrEqual(t, c.WaitTimer, 15.0)
		assert.LessOrEqual(t, c.WaitTimer, 25.0)
		assert.Equal(t, core.ReasonArrived, rec.transitions[0].Reason)
	}
}

func TestParking_ManhattanPath(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := lotBelow(1)
	c := parked(t, road, lot, 0, 1, 0)
	c.State = core.ToParking
	c.WorldPos = geom.V(175, 20)
	c.Speed = engine.ApproachSpeed

	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c}, quietConfig())

	e.Update(frameDT)
	assert.InDelta(t, 20.0, c.WorldPos[1], 1e-9, "x is covered before y")
	assert.Less(t, c.WorldPos[0], 175.0)
	assert.InDelta(t, 180.0, c.Rotation, 1e-9)

	for i := 0; i < 600 && c.State == core.ToParking; i++ {
		e.Update(frameDT)
		if c.WorldPos[1] > 20 {
			assert.InDelta(t, lot.SpotPosition(0)[0], c.WorldPos[0], 1e-9)
		}
	}
	assert.Equal(t, core.Parked, c.State)
}

func TestParking_StopsBehindCarOfSameLot(t *testing.T) {
	road := testRoad(core.LightGreen)
	lot := lotBelow(2)

	ahead := parked(t, road, lot, 0, 1, 0)
	ahead.State = core.ToParking
	ahead.WorldPos = geom.V(150, 20)
	ahead.Speed = 0
	ahead.TargetPos = geom.V(100, 20)

	c := parked(t, road, lot, 0, 2, 1)
	c.State = core.ToParking
	c.WorldPos = geom.V(180, 20)
	c.TargetPos = geom.V(100, 20)
	c.Speed = engine.ApproachSpeed

	e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{ahead, c}, quietConfig())

	e.Update(frameDT)
	// 30 apart is inside the emergency gap
	assert.Less(t, c.Speed, engine.ApproachSpeed)
	assert.InDelta(t, 180.0-c.Speed*frameDT, c.WorldPos[0], 1e-9)
}

func TestParking_YieldsToQueueOnRoad(t *testing.T) {
	tests := []struct {
		name   string
		lane   int
		ahead  float64
		slowed bool
	}{
		{"close ahead in same lane", 1, 30, true},
		{"beyond queue range", 1, 80, false},
		{"close ahead in other lane", 0, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			road := testRoad(core.LightGreen)
			lot := lotBelow(1)

			c := parked(t, road, lot, 0, 1, 0)
			c.State = core.ToParking
			c.Distance = 150
			c.WorldPos = geom.V(150, 20)
			c.Speed = engine.ApproachSpeed

			queued := driving(road, 2, tt.lane, c.Distance+tt.ahead, 0)

			e, _ := newEngine(t, []*core.Road{road}, []*core.ParkingLot{lot}, []*core.Car{c, queued}, quietConfig())
			e.Update(frameDT)

			if tt.slowed {
				assert.Less(t, c.Speed, engine.ApproachSpeed)
			} else {
				assert.InDelta(t, engine.ApproachSpeed, c.Speed, 1e-9)
			}
		})
	}
}
