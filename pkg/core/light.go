package core

import "github.com/anggasct/smartcity/pkg/geom"

// LightState is the phase of a traffic light.
type LightState int

const (
	LightGreen LightState = iota
	LightYellow
	LightRed
)

// String returns the phase name.
func (s LightState) String() string {
	switch s {
	case LightGreen:
		return "GREEN"
	case LightYellow:
		return "YELLOW"
	case LightRed:
		return "RED"
	default:
		return "UNKNOWN"
	}
}

// Next returns the phase that follows s in the fixed cycle.
func (s LightState) Next() LightState {
	switch s {
	case LightGreen:
		return LightYellow
	case LightYellow:
		return LightRed
	default:
		return LightGreen
	}
}

// Duration returns how long a phase lasts once entered.
func (s LightState) Duration() float64 {
	switch s {
	case LightYellow:
		return YellowDuration
	case LightRed:
		return RedDuration
	default:
		return GreenDuration
	}
}

// MarshalText encodes the phase by name.
func (s LightState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TrafficLight is a timed GREEN -> YELLOW -> RED -> GREEN cycle owned by a
// road. Position is only a display anchor.
type TrafficLight struct {
	Position geom.Vec2
	State    LightState
	Timer    float64
}

// NewTrafficLight creates a light in the given phase with timer seconds left.
func NewTrafficLight(pos geom.Vec2, state LightState, timer float64) TrafficLight {
	return TrafficLight{Position: pos, State: state, Timer: timer}
}

// timerEpsilon absorbs the rounding left after summing many frame steps.
const timerEpsilon = 1e-9

// Update advances the light by dt seconds. It reports whether the phase
// changed and, if so, the phase that was left.
//
// The overshoot of an expired phase is carried into the next one, so the
// cycle stays strictly periodic whatever the frame rate. At most one phase
// change happens per call.
func (l *TrafficLight) Update(dt float64) (changed bool, prev LightState) {
	prev = l.State
	l.Timer -= dt
	if l.Timer <= timerEpsilon {
		l.State = l.State.Next()
		l.Timer = geom.Clamp(l.Timer+l.State.Duration(), 0, l.State.Duration())
		return true, prev
	}
	return false, prev
}

// IsGreen reports whether cars may pass the stop line.
func (l *TrafficLight) IsGreen() bool {
	return l.State == LightGreen
}
