package engine

import (
	"testing"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorSink struct {
	BaseObserver
	errs []error
}

func (s *errorSink) OnError(err error) {
	s.errs = append(s.errs, err)
}

func newBareEngine(t *testing.T, cars ...*core.Car) (*Engine, *errorSink) {
	t.Helper()
	road := core.NewRoad(geom.V(0, 0), geom.V(1000, 0), 2, 80, core.LightGreen, 100)
	e, err := New([]*core.Road{road}, nil, cars)
	require.NoError(t, err)
	sink := &errorSink{}
	e.AddObserver(sink)
	return e, sink
}

func TestTransition_IllegalPanics(t *testing.T) {
	c := core.NewCar(1, 0, 0, 0, 0)
	e, sink := newBareEngine(t, c)

	assert.PanicsWithError(t, core.NewTransitionNotAllowedError(1, core.Driving, core.Parked).Error(), func() {
		e.transition(c, core.Parked, core.ReasonArrived)
	})
	require.Len(t, sink.errs, 1)
	assert.True(t, core.IsTransitionError(sink.errs[0]))
	assert.Equal(t, core.Driving, c.State)
}

func TestStep_UnknownStatePanics(t *testing.T) {
	c := core.NewCar(1, 0, 0, 0, 0)
	e, sink := newBareEngine(t, c)
	c.State = core.CarState(9)

	assert.Panics(t, func() { e.Update(0.1) })
	require.Len(t, sink.errs, 1)
	assert.True(t, core.IsStateError(sink.errs[0]))
}

func TestBlend(t *testing.T) {
	assert.InDelta(t, 150.0, blend(200, 100, 0.5), 1e-9)
	assert.InDelta(t, 100.0, blend(200, 100, 3), 1e-9)
	assert.InDelta(t, 200.0, blend(200, 100, -1), 1e-9)
}
