package engine

import "github.com/anggasct/smartcity/pkg/core"

// Gap thresholds and speed blending for cars on the road.
const (
	EmergencyGap    = 45.0
	SlowZoneFactor  = 2.5
	SlowSpeedFactor = 0.3
	BrakeRate       = 10.0
	CruiseRate      = 5.0
	LaneCheckFactor = 1.5
)

// Parking approach.
const (
	IntentMinDistance = 50.0
	ApproachSpeed     = 80.0
	EntranceTolerance = 10.0
	ParkingBrakeStart = 100.0
	VisionCone        = 0.7
	RoadQueueRange    = 60.0
	ArrivalTolerance  = 2.0
	MinMoveSpeed      = 0.1
)

// Leaving a lot and merging.
const (
	MergeSpeed       = 80.0
	TurnRate         = 400.0
	ReentrySpeed     = 50.0
	UpstreamWindow   = 6 * core.SafeDistance
	DownstreamWindow = 3 * core.SafeDistance
)

// Road layout.
const (
	LightStopOffset = 200.0
	WrapMargin      = 50.0
)
