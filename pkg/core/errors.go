package core

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the simulation
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// World configuration is invalid
	ErrCodeInvalidConfiguration
	// Transition is not part of the car lifecycle
	ErrCodeTransitionNotAllowed
	// Car is in an unknown state
	ErrCodeInvalidState
	// Spot index is outside the lot
	ErrCodeSpotOutOfRange
	// Spot is already held by another car
	ErrCodeSpotOccupied
	// Spot was released while free
	ErrCodeSpotFree
)

// ConfigurationError represents an invalid world setup
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// TransitionError represents an illegal lifecycle change
type TransitionError struct {
	Code  ErrorCode
	CarID int
	From  CarState
	To    CarState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error [car %d %s->%s]: transition not allowed", e.CarID, e.From, e.To)
}

// NewTransitionNotAllowedError creates a new transition not allowed error
func NewTransitionNotAllowedError(carID int, from, to CarState) *TransitionError {
	return &TransitionError{
		Code:  ErrCodeTransitionNotAllowed,
		CarID: carID,
		From:  from,
		To:    to,
	}
}

// StateError represents a car found in a state the engine cannot handle
type StateError struct {
	Code  ErrorCode
	CarID int
	State CarState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error [car %d]: invalid state %d", e.CarID, int(e.State))
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(carID int, state CarState) *StateError {
	return &StateError{
		Code:  ErrCodeInvalidState,
		CarID: carID,
		State: state,
	}
}

// SpotError represents a rejected claim or release
type SpotError struct {
	Code    ErrorCode
	Lot     string
	Spot    int
	Message string
}

func (e *SpotError) Error() string {
	return fmt.Sprintf("spot error [%s #%d]: %s", e.Lot, e.Spot, e.Message)
}

// NewSpotError creates a new spot error
func NewSpotError(code ErrorCode, lot string, spot int, message string) *SpotError {
	return &SpotError{
		Code:    code,
		Lot:     lot,
		Spot:    spot,
		Message: message,
	}
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsTransitionError checks if an error is a TransitionError
func IsTransitionError(err error) bool {
	var target *TransitionError
	return errors.As(err, &target)
}

// IsStateError checks if an error is a StateError
func IsStateError(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}

// IsSpotError checks if an error is a SpotError
func IsSpotError(err error) bool {
	var target *SpotError
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		cfgErr   *ConfigurationError
		transErr *TransitionError
		stateErr *StateError
		spotErr  *SpotError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ErrCodeInvalidConfiguration
	case errors.As(err, &transErr):
		return transErr.Code
	case errors.As(err, &stateErr):
		return stateErr.Code
	case errors.As(err, &spotErr):
		return spotErr.Code
	default:
		return ErrCodeNone
	}
}
