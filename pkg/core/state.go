package core

// CarState is the lifecycle phase of a car.
type CarState int

const (
	// Driving cars move along their road by scalar distance
	Driving CarState = iota
	// ToParking cars hold a claimed spot and are manoeuvring into it
	ToParking
	// Parked cars sit on their spot until the dwell timer runs out
	Parked
	// LeavingParking cars are merging back onto the road
	LeavingParking
)

// CarStates lists every lifecycle state in cycle order.
var CarStates = []CarState{Driving, ToParking, Parked, LeavingParking}

// String returns the state name.
func (s CarState) String() string {
	switch s {
	case Driving:
		return "DRIVING"
	case ToParking:
		return "TO_PARKING"
	case Parked:
		return "PARKED"
	case LeavingParking:
		return "LEAVING_PARKING"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the state by name.
func (s CarState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Valid reports whether s is one of the four lifecycle states.
func (s CarState) Valid() bool {
	return s >= Driving && s <= LeavingParking
}

// Transition is one edge of the car lifecycle.
type Transition struct {
	From   CarState
	To     CarState
	Reason Reason
}

// Reason names why a transition, cancellation or deferral happened.
type Reason string

const (
	ReasonSpotClaimed   Reason = "spot_claimed"
	ReasonArrived       Reason = "arrived"
	ReasonExitClear     Reason = "exit_clear"
	ReasonMerged        Reason = "merged"
	ReasonWrongLane     Reason = "wrong_lane"
	ReasonLotFull       Reason = "lot_full"
	ReasonRoadWrapped   Reason = "road_wrapped"
	ReasonExitInUse     Reason = "exit_in_use"
	ReasonRoadNotClear  Reason = "road_not_clear"
	ReasonAdmissionFull Reason = "admission_full"
)

// Lifecycle is the complete set of allowed car transitions. A car cycles
// through it indefinitely; there are no initial or final states beyond the
// car starting in Driving.
var Lifecycle = []Transition{
	{From: Driving, To: ToParking, Reason: ReasonSpotClaimed},
	{From: ToParking, To: Parked, Reason: ReasonArrived},
	{From: Parked, To: LeavingParking, Reason: ReasonExitClear},
	{From: LeavingParking, To: Driving, Reason: ReasonMerged},
}

// CanTransition reports whether from -> to is a lifecycle edge.
func CanTransition(from, to CarState) bool {
	for _, t := range Lifecycle {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
