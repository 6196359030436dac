package core

import "github.com/google/uuid"

// TransitionEvent describes one lifecycle change of a car.
type TransitionEvent struct {
	ID     string   `json:"id"`
	RunID  string   `json:"run_id"`
	Frame  uint64   `json:"frame"`
	Clock  float64  `json:"clock"`
	CarID  int      `json:"car_id"`
	From   CarState `json:"from"`
	To     CarState `json:"to"`
	Reason Reason   `json:"reason"`
	Lot    int      `json:"lot"`
	Spot   int      `json:"spot"`
}

// NewTransitionEvent creates an event for car c moving from -> to.
func NewTransitionEvent(runID string, frame uint64, clock float64, c *Car, from, to CarState, reason Reason) TransitionEvent {
	return TransitionEvent{
		ID:     uuid.New().String(),
		RunID:  runID,
		Frame:  frame,
		Clock:  clock,
		CarID:  c.ID,
		From:   from,
		To:     to,
		Reason: reason,
		Lot:    c.ParkingIdx,
		Spot:   c.SpotIdx,
	}
}

// Key returns "FROM->TO".
func (e TransitionEvent) Key() string {
	return e.From.String() + "->" + e.To.String()
}
