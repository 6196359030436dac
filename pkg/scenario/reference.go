package scenario

import (
	"math/rand"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/geom"
)

// Reference city dimensions.
const (
	ReferenceCars   = 20
	CarSpacing      = 100.0
	SlowCarSpeed    = 60.0
	ReferenceWidth  = 1200
	ReferenceHeight = 900
)

var referencePalette = []core.Color{core.ColorRed, core.ColorBlue, core.ColorDarkGreen}

// ReferencePlacement spreads n cars evenly over two roads, half on each,
// CarSpacing apart on a random lane. Cars 2 and 8 are slow and orange.
func ReferencePlacement(n int) Placement {
	perRoad := n / 2
	if perRoad < 1 {
		perRoad = 1
	}
	return func(i int, rng *rand.Rand) CarSpec {
		spec := CarSpec{
			Road:     0,
			Lane:     rng.Intn(2),
			Distance: float64(i%perRoad) * CarSpacing,
			Speed:    core.MaxSpeed,
			Color:    referencePalette[i%len(referencePalette)],
		}
		if i >= perRoad {
			spec.Road = 1
		}
		if i == 2 || i == 8 {
			spec.Color = core.ColorOrange
			spec.Speed = SlowCarSpeed
		}
		return spec
	}
}

// Reference describes the reference city: an eastbound road at y=250 and a
// westbound road at y=600, four lots and twenty cars.
func Reference(seed int64) CityBuilder {
	return NewBuilder().
		Seed(seed).
		Center(geom.V(ReferenceWidth/2, ReferenceHeight/2)).
		Road(geom.V(-100, 250), geom.V(1300, 250)).Lanes(2).Width(80).Light(core.LightGreen, 5).
		Road(geom.V(1300, 600), geom.V(-100, 600)).Lanes(2).Width(80).Light(core.LightRed, 5).
		Lot("VIP").At(geom.V(100, 70)).Size(geom.V(150, 80)).Capacity(4).Price(15).Color(core.ColorBlue).
		Exit(geom.V(175, 250)).OnRoad(0).EntryLane(0).AdmissionCap(1).
		Lot("Central").At(geom.V(450, 425)).Size(geom.V(200, 80)).Capacity(6).Price(8).Color(core.ColorPurple).
		Exit(geom.V(650, 290)).OnRoad(0).EntryLane(1).
		Lot("Eco").At(geom.V(100, 700)).Size(geom.V(180, 80)).Capacity(5).Price(2).Color(core.ColorGreen).
		Exit(geom.V(200, 600)).OnRoad(1).EntryLane(0).
		Lot("City").At(geom.V(750, 700)).Size(geom.V(250, 80)).Capacity(7).Price(5).Color(core.ColorOrange).
		Exit(geom.V(870, 600)).OnRoad(1).EntryLane(0).
		Cars(ReferenceCars, ReferencePlacement(ReferenceCars))
}
