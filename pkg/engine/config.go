package engine

import (
	"fmt"
	"math"

	"github.com/anggasct/smartcity/pkg/core"
)

// DefaultParkingRate matches a 2-in-501 chance per frame at 60 frames per second.
const DefaultParkingRate = 0.24

// Config holds the runtime knobs of the engine. Everything else is a build
// time constant.
type Config struct {
	// Seed feeds the random source used for parking intents and dwell times
	Seed int64
	// ParkingRate is the expected number of parking intents per second for a
	// car that is eligible to look for a lot
	ParkingRate float64
	// ExitRetryDelay is how long a parked car waits before retrying a blocked exit
	ExitRetryDelay float64
	// DwellMin and DwellMax bound the time a car stays parked
	DwellMin float64
	DwellMax float64
	// ReentryCooldown keeps a car that just merged from parking again at once
	ReentryCooldown float64
}

// DefaultConfig returns the settings of the reference simulation.
func DefaultConfig() Config {
	return Config{
		Seed:            1,
		ParkingRate:     DefaultParkingRate,
		ExitRetryDelay:  1,
		DwellMin:        15,
		DwellMax:        25,
		ReentryCooldown: 10,
	}
}

// IntentProbability converts ParkingRate into a per-frame probability for a
// frame of dt seconds.
func (c Config) IntentProbability(dt float64) float64 {
	if c.ParkingRate <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-c.ParkingRate*dt)
}

// Validate checks the config for values the engine cannot work with.
func (c Config) Validate() error {
	if c.ParkingRate < 0 || math.IsNaN(c.ParkingRate) {
		return core.NewConfigurationError("Config", fmt.Sprintf("parking rate %v must be non-negative", c.ParkingRate))
	}
	if c.ExitRetryDelay <= 0 {
		return core.NewConfigurationError("Config", "exit retry delay must be positive")
	}
	if c.DwellMin < 0 || c.DwellMax < c.DwellMin {
		return core.NewConfigurationError("Config", fmt.Sprintf("invalid dwell range [%v, %v]", c.DwellMin, c.DwellMax))
	}
	if c.ReentryCooldown < 0 {
		return core.NewConfigurationError("Config", "re-entry cooldown must be non-negative")
	}
	return nil
}
