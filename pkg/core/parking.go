package core

import (
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/paulmach/orb"
)

// ParkingLot is a fixed-capacity grid of spots. Occupancy changes only
// through Claim and Release.
type ParkingLot struct {
	Name     string
	Position geom.Vec2 // top-left corner
	Size     geom.Vec2
	Price    float64
	Color    Color
	ExitPos  geom.Vec2

	// Road is the index of the road the lot is served from and EntryLane the
	// lane a car must be in to turn into it. Together they form the fixed
	// lane-to-lot reachability mapping.
	Road      int
	EntryLane int

	// AdmissionCap limits how many cars may hold this lot at once, intents
	// included, independently of free spots. Zero disables the cap.
	AdmissionCap int

	// Side is the cardinal side of the map the lot is on. Display only.
	Side string

	capacity int
	spots    []bool
}

// NewParkingLot creates an empty lot.
func NewParkingLot(name string, pos, size geom.Vec2, capacity int, price float64, color Color, exit geom.Vec2) *ParkingLot {
	if capacity < 0 {
		capacity = 0
	}
	return &ParkingLot{
		Name:     name,
		Position: pos,
		Size:     size,
		Price:    price,
		Color:    color,
		ExitPos:  exit,
		capacity: capacity,
		spots:    make([]bool, capacity),
	}
}

// Capacity returns the number of spots.
func (p *ParkingLot) Capacity() int {
	return p.capacity
}

// FirstFreeSpot returns the lowest free spot index, or NoIndex when full.
func (p *ParkingLot) FirstFreeSpot() int {
	for i, occupied := range p.spots {
		if !occupied {
			return i
		}
	}
	return NoIndex
}

// HasFreeSpot reports whether at least one spot is free.
func (p *ParkingLot) HasFreeSpot() bool {
	return p.FirstFreeSpot() != NoIndex
}

// IsOccupied reports whether spot idx is taken. Out of range indices report false.
func (p *ParkingLot) IsOccupied(idx int) bool {
	if idx < 0 || idx >= p.capacity {
		return false
	}
	return p.spots[idx]
}

// Claim marks spot idx as taken.
func (p *ParkingLot) Claim(idx int) error {
	if idx < 0 || idx >= p.capacity {
		return NewSpotError(ErrCodeSpotOutOfRange, p.Name, idx, "spot index out of range")
	}
	if p.spots[idx] {
		return NewSpotError(ErrCodeSpotOccupied, p.Name, idx, "spot already occupied")
	}
	p.spots[idx] = true
	return nil
}

// Release frees spot idx.
func (p *ParkingLot) Release(idx int) error {
	if idx < 0 || idx >= p.capacity {
		return NewSpotError(ErrCodeSpotOutOfRange, p.Name, idx, "spot index out of range")
	}
	if !p.spots[idx] {
		return NewSpotError(ErrCodeSpotFree, p.Name, idx, "spot is not occupied")
	}
	p.spots[idx] = false
	return nil
}

// OccupiedCount returns the number of taken spots.
func (p *ParkingLot) OccupiedCount() int {
	n := 0
	for _, occupied := range p.spots {
		if occupied {
			n++
		}
	}
	return n
}

// OccupancyRatio returns OccupiedCount/Capacity, zero for an empty lot.
func (p *ParkingLot) OccupancyRatio() float64 {
	if p.capacity == 0 {
		return 0
	}
	return float64(p.OccupiedCount()) / float64(p.capacity)
}

// Spots returns a copy of the occupancy bits.
func (p *ParkingLot) Spots() []bool {
	out := make([]bool, len(p.spots))
	copy(out, p.spots)
	return out
}

// EntranceX returns the x coordinate cars turn in at.
func (p *ParkingLot) EntranceX() float64 {
	return p.Position[0] + p.Size[0]/2
}

// Bounds returns the lot rectangle.
func (p *ParkingLot) Bounds() orb.Bound {
	return geom.Rect(p.Position, p.Size)
}

// SpotPosition returns the centre of spot idx. Spots fill the lot row by
// row, left to right.
func (p *ParkingLot) SpotPosition(idx int) geom.Vec2 {
	cols := int((p.Size[0] - SpotPadding) / (SpotWidth + SpotPadding))
	if cols <= 0 {
		cols = 1
	}
	row := idx / cols
	col := idx % cols

	x := p.Position[0] + SpotPadding + float64(col)*(SpotWidth+SpotPadding)
	y := p.Position[1] + SpotTopMargin + float64(row)*(SpotHeight+SpotPadding)
	return geom.V(x+SpotWidth/2, y+SpotHeight/2)
}
