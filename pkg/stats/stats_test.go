package stats_test

import (
	"encoding/json"
	"testing"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/anggasct/smartcity/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  stats.Band
	}{
		{0, stats.BandGreen},
		{0.69, stats.BandGreen},
		{0.7, stats.BandOrange},
		{0.89, stats.BandOrange},
		{0.9, stats.BandRed},
		{1, stats.BandRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stats.BandFor(tt.ratio), "ratio %v", tt.ratio)
	}
}

func world(t *testing.T) (*engine.Engine, *core.ParkingLot) {
	t.Helper()
	road := core.NewRoad(geom.V(0, 0), geom.V(2000, 0), 2, 80, core.LightGreen, 5)
	lot := core.NewParkingLot("Central", geom.V(100, 100), geom.V(150, 80), 4, 8, core.ColorPurple, geom.V(175, 0))
	lot.EntryLane = 1

	var cars []*core.Car
	for i, speed := range []float64{100, 200, 150} {
		cars = append(cars, core.NewCar(i, 0, 0, float64(i)*300, speed))
	}
	for spot := 0; spot < 3; spot++ {
		require.NoError(t, lot.Claim(spot))
		c := core.NewCar(10+spot, 0, 1, 0, 0)
		c.State = core.Parked
		c.ParkingIdx = 0
		c.SpotIdx = spot
		c.WaitTimer = 100
		cars = append(cars, c)
	}

	e, err := engine.New([]*core.Road{road}, []*core.ParkingLot{lot}, cars)
	require.NoError(t, err)
	return e, lot
}

func TestCollect(t *testing.T) {
	e, _ := world(t)
	report := stats.Collect(e)

	assert.Equal(t, 3, report.States[core.Driving])
	assert.Equal(t, 3, report.States[core.Parked])
	assert.Equal(t, 0, report.States[core.LeavingParking])

	assert.InDelta(t, 150.0, report.MeanSpeed, 1e-9)
	assert.InDelta(t, 50.0, report.SpeedStdDev, 1e-9)

	require.Len(t, report.Roads, 1)
	assert.Equal(t, 3, report.Roads[0].Cars)
	assert.InDelta(t, 1.5, report.Roads[0].Density, 1e-9)

	require.Len(t, report.Lots, 1)
	lot := report.Lots[0]
	assert.InDelta(t, 0.75, lot.Ratio, 1e-9)
	assert.Equal(t, stats.BandOrange, lot.Band)
	assert.Equal(t, 3, lot.Admitted)
	assert.Equal(t, "Central : 3/4", lot.Label())

	assert.True(t, report.Healthy(), report.Violations)
}

func TestCollect_SingleCarHasNoSpread(t *testing.T) {
	road := core.NewRoad(geom.V(0, 0), geom.V(1000, 0), 1, 40, core.LightGreen, 5)
	e, err := engine.New([]*core.Road{road}, nil, []*core.Car{core.NewCar(1, 0, 0, 0, 80)})
	require.NoError(t, err)

	report := stats.Collect(e)
	assert.InDelta(t, 80.0, report.MeanSpeed, 1e-9)
	assert.Zero(t, report.SpeedStdDev)

	_, err = json.Marshal(report)
	assert.NoError(t, err)
}

func TestCheckInvariants(t *testing.T) {
	e, lot := world(t)
	assert.Empty(t, stats.CheckInvariants(e))

	// a spot freed behind the engine's back
	require.NoError(t, lot.Release(2))
	violations := stats.CheckInvariants(e)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "3 holders")

	require.NoError(t, lot.Claim(2))
	e.Cars[3].State = core.LeavingParking
	e.Cars[4].State = core.LeavingParking
	violations = stats.CheckInvariants(e)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "2 cars leaving")
}

func TestReport_JSON(t *testing.T) {
	e, _ := world(t)
	data, err := json.Marshal(stats.Collect(e))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	states := decoded["states"].(map[string]interface{})
	assert.Equal(t, 3.0, states["PARKED"])
	assert.Equal(t, 0.0, states["TO_PARKING"])
}
