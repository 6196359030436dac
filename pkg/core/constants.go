// Package core provides the data model of the simulation: traffic lights,
// roads, parking lots and cars, together with the car lifecycle table and the
// typed errors shared by the other packages.
package core

// Vehicle footprint and driving limits.
const (
	CarLength    = 40.0
	CarWidth     = 20.0
	SafeDistance = 160.0
	MaxSpeed     = 200.0
)

// Light phase durations in seconds.
const (
	GreenDuration  = 5.0
	YellowDuration = 2.0
	RedDuration    = 5.0
)

// Parking spot grid, in world units.
const (
	SpotWidth     = 24.0
	SpotHeight    = 40.0
	SpotPadding   = 8.0
	SpotTopMargin = 10.0
)

// NoIndex marks an unset lot or spot reference on a car.
const NoIndex = -1
