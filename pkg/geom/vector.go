// Package geom provides the small set of 2D vector operations the simulation
// needs on top of orb points.
package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/exp/constraints"
)

// Vec2 is a point or a displacement in world units.
type Vec2 = orb.Point

// V builds a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns a+b.
func Add(a, b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

// Sub returns a-b.
func Sub(a, b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

// Scale returns v*s.
func Scale(v Vec2, s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Length returns the Euclidean norm of v.
func Length(v Vec2) float64 {
	return math.Hypot(v[0], v[1])
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return planar.Distance(a, b)
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func Normalize(v Vec2) Vec2 {
	l := Length(v)
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v[0] / l, v[1] / l}
}

// Perp returns the left-hand normal (-y, x) of v.
func Perp(v Vec2) Vec2 {
	return Vec2{-v[1], v[0]}
}

// Lerp interpolates linearly between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec interpolates component-wise between two points.
func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t)}
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HeadingDeg returns the heading of v in degrees, normalised to [0, 360).
func HeadingDeg(v Vec2) float64 {
	return NormalizeDeg(math.Atan2(v[1], v[0]) * 180 / math.Pi)
}

// NormalizeDeg wraps an angle in degrees into [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// AngleDiffDeg returns the signed shortest rotation from a to b in degrees,
// in the range (-180, 180].
func AngleDiffDeg(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d <= -180 {
		d += 360
	}
	if d > 180 {
		d -= 360
	}
	return d
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
func Rect(pos, size Vec2) orb.Bound {
	return orb.Bound{Min: pos, Max: Add(pos, size)}
}
