package core

import "github.com/anggasct/smartcity/pkg/geom"

// Car is the mutable state of one vehicle. Roads and lots are referenced by
// index, never owned.
//
// Distance is the authoritative coordinate while Driving; WorldPos is
// authoritative in every other state.
type Car struct {
	ID    int
	Color Color

	RoadIndex   int
	CurrentLane int
	TargetLane  int
	Distance    float64
	LaneOffset  float64
	Speed       float64

	State     CarState
	WorldPos  geom.Vec2
	TargetPos geom.Vec2
	Rotation  float64

	// WaitTimer is the re-parking cooldown while Driving, the dwell time
	// while Parked and the exit retry delay while blocked.
	WaitTimer float64

	ParkingIdx int
	SpotIdx    int
}

// NewCar creates a driving car on road at the given lane and distance.
func NewCar(id, road, lane int, distance, speed float64) *Car {
	return &Car{
		ID:          id,
		Color:       ColorRed,
		RoadIndex:   road,
		CurrentLane: lane,
		TargetLane:  lane,
		Distance:    distance,
		Speed:       speed,
		State:       Driving,
		ParkingIdx:  NoIndex,
		SpotIdx:     NoIndex,
	}
}

// HasParkingIntent reports whether the car is heading for a lot.
func (c *Car) HasParkingIntent() bool {
	return c.ParkingIdx != NoIndex
}

// HoldsSpot reports whether the car has a confirmed spot claim.
func (c *Car) HoldsSpot() bool {
	return c.ParkingIdx != NoIndex && c.SpotIdx != NoIndex
}

// InLot reports whether the car is off the road inside a parking lot.
func (c *Car) InLot() bool {
	return c.State == ToParking || c.State == Parked || c.State == LeavingParking
}

// ClearParking drops any lot and spot reference.
func (c *Car) ClearParking() {
	c.ParkingIdx = NoIndex
	c.SpotIdx = NoIndex
}
