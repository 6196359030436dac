package core

import "github.com/anggasct/smartcity/pkg/geom"

// Road is a straight directed segment with a number of lanes and its own
// traffic light. Roads never move, so direction and length are fixed.
type Road struct {
	Start geom.Vec2
	End   geom.Vec2
	Lanes int
	Width float64
	Light TrafficLight
}

// NewRoad builds a road whose light sits at its far end.
func NewRoad(start, end geom.Vec2, lanes int, width float64, light LightState, timer float64) *Road {
	return &Road{
		Start: start,
		End:   end,
		Lanes: lanes,
		Width: width,
		Light: NewTrafficLight(end, light, timer),
	}
}

// Length returns the distance from start to end.
func (r *Road) Length() float64 {
	return geom.Distance(r.Start, r.End)
}

// Direction returns the unit vector from start to end.
func (r *Road) Direction() geom.Vec2 {
	return geom.Normalize(geom.Sub(r.End, r.Start))
}

// Normal returns the unit normal used for lane offsets.
func (r *Road) Normal() geom.Vec2 {
	return geom.Perp(r.Direction())
}

// Heading returns the travel direction in degrees, in [0, 360).
func (r *Road) Heading() float64 {
	return geom.HeadingDeg(r.Direction())
}

// LaneOffset returns the lateral offset of a lane centre from the road axis.
// With two lanes of a road of width w this gives -w/4 and +w/4.
func (r *Road) LaneOffset(lane int) float64 {
	lanes := r.Lanes
	if lanes <= 0 {
		lanes = 1
	}
	laneWidth := r.Width / float64(lanes)
	return -r.Width/2 + laneWidth*(float64(lane)+0.5)
}

// PointAt projects a road distance and a lateral offset into world space.
func (r *Road) PointAt(distance, offset float64) geom.Vec2 {
	dir := r.Direction()
	center := geom.Add(r.Start, geom.Scale(dir, distance))
	return geom.Add(center, geom.Scale(geom.Perp(dir), offset))
}

// Project returns the road distance of the orthogonal projection of p.
func (r *Road) Project(p geom.Vec2) float64 {
	return geom.Dot(geom.Sub(p, r.Start), r.Direction())
}

// ValidLane reports whether lane exists on this road.
func (r *Road) ValidLane(lane int) bool {
	return lane >= 0 && lane < r.Lanes
}
