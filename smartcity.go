// Package smartcity simulates a small city of roads, traffic lights, parking
// lots and autonomous cars. Each car runs its own lifecycle
// (DRIVING -> TO_PARKING -> PARKED -> LEAVING_PARKING -> DRIVING) and the
// engine advances every car once per frame.
package smartcity

import (
	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/observers"
	"github.com/anggasct/smartcity/pkg/scenario"
	"github.com/anggasct/smartcity/pkg/snapshot"
	"github.com/anggasct/smartcity/pkg/stats"
)

// Core types
type (
	// Car is an autonomous vehicle
	Car = core.Car

	// CarState is the lifecycle state of a car
	CarState = core.CarState

	// Road is a straight directed road with lanes and a traffic light
	Road = core.Road

	// ParkingLot is a fixed-capacity grid of parking spots
	ParkingLot = core.ParkingLot

	// TrafficLight is a timed green/yellow/red light
	TrafficLight = core.TrafficLight

	// LightState is the phase of a traffic light
	LightState = core.LightState

	// TransitionEvent describes one car state change
	TransitionEvent = core.TransitionEvent

	// Reason explains a transition, cancellation or deferral
	Reason = core.Reason
)

// Engine types
type (
	// Engine advances the city one frame at a time
	Engine = engine.Engine

	// Config holds the runtime knobs of the engine
	Config = engine.Config

	// Observer receives car transitions
	Observer = engine.Observer

	// ExtendedObserver receives every engine notification
	ExtendedObserver = engine.ExtendedObserver

	// BaseObserver provides no-op observer methods to embed
	BaseObserver = engine.BaseObserver

	// FrameInfo describes a completed frame
	FrameInfo = engine.FrameInfo
)

// Re-export observer, scenario and reporting types
type (
	// LoggingObserver logs engine notifications
	LoggingObserver = observers.LoggingObserver

	// LogLevel represents the logging level
	LogLevel = observers.LogLevel

	// MetricsObserver collects counters about a run
	MetricsObserver = observers.MetricsObserver

	// ValidationObserver checks transitions and spot bookkeeping
	ValidationObserver = observers.ValidationObserver

	// CityBuilder describes a city fluently
	CityBuilder = scenario.CityBuilder

	// Frame is a renderer-facing snapshot
	Frame = snapshot.Frame

	// Report is a statistics summary
	Report = stats.Report
)

// Re-export constants
const (
	Driving        = core.Driving
	ToParking      = core.ToParking
	Parked         = core.Parked
	LeavingParking = core.LeavingParking

	LightGreen  = core.LightGreen
	LightYellow = core.LightYellow
	LightRed    = core.LightRed

	// LogError logs only errors
	LogError = observers.LogError

	// LogWarning logs errors and warnings
	LogWarning = observers.LogWarning

	// LogInfo logs errors, warnings, and info
	LogInfo = observers.LogInfo

	// LogDebug logs everything
	LogDebug = observers.LogDebug
)

// Re-export constructors
var (
	// NewEngine validates a world and creates an engine for it
	NewEngine = engine.New

	// DefaultConfig returns the default engine config
	DefaultConfig = engine.DefaultConfig

	// NewBuilder creates a city builder
	NewBuilder = scenario.NewBuilder

	// Reference describes the reference city
	Reference = scenario.Reference

	// NewLoggingObserver creates a new logging observer with default settings
	NewLoggingObserver = observers.NewDefaultLoggingObserver

	// NewCustomLoggingObserver creates a new logging observer with custom settings
	NewCustomLoggingObserver = observers.NewLoggingObserver

	// NewMetricsObserver creates a new metrics observer
	NewMetricsObserver = observers.NewMetricsObserver

	// NewValidationObserver creates a new validation observer
	NewValidationObserver = observers.NewValidationObserver

	// IsConfigurationError reports whether err is a world or config error
	IsConfigurationError = core.IsConfigurationError
)
