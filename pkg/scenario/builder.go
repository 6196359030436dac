// Package scenario builds engines from a fluent description of roads, lots
// and cars.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/anggasct/smartcity/pkg/core"
	"github.com/anggasct/smartcity/pkg/engine"
	"github.com/anggasct/smartcity/pkg/geom"
	"github.com/paulmach/orb"
)

// CityBuilder is the main entry point for describing a city
type CityBuilder interface {
	Road(start, end geom.Vec2) RoadBuilder
	Lot(name string) LotBuilder
	Car(spec CarSpec) CityBuilder
	Cars(n int, place Placement) CityBuilder
	Seed(seed int64) CityBuilder
	Config(cfg engine.Config) CityBuilder
	Center(center geom.Vec2) CityBuilder

	Build() (*engine.Engine, error)
}

// RoadBuilder configures the road most recently added
type RoadBuilder interface {
	CityBuilder

	Lanes(n int) RoadBuilder
	Width(w float64) RoadBuilder
	Light(state core.LightState, timer float64) RoadBuilder
}

// LotBuilder configures the lot most recently added
type LotBuilder interface {
	CityBuilder

	At(pos geom.Vec2) LotBuilder
	Size(size geom.Vec2) LotBuilder
	Capacity(n int) LotBuilder
	Price(p float64) LotBuilder
	Color(c core.Color) LotBuilder
	Exit(pt geom.Vec2) LotBuilder
	OnRoad(road int) LotBuilder
	EntryLane(lane int) LotBuilder
	AdmissionCap(n int) LotBuilder
}

// CarSpec describes where a car starts. Cars get their index as id.
type CarSpec struct {
	Road     int
	Lane     int
	Distance float64
	Speed    float64
	Color    core.Color
}

// Placement returns the spec of car i. rng is seeded from the scenario seed.
type Placement func(i int, rng *rand.Rand) CarSpec

// Default road and lot settings.
const (
	DefaultLanes     = 2
	DefaultRoadWidth = 80.0
)

type roadSpec struct {
	start, end geom.Vec2
	lanes      int
	width      float64
	light      core.LightState
	timer      float64
}

type lotSpec struct {
	name         string
	pos, size    geom.Vec2
	capacity     int
	price        float64
	color        core.Color
	exit         geom.Vec2
	road         int
	entryLane    int
	admissionCap int
}

type carEntry struct {
	spec  *CarSpec
	count int
	place Placement
}

type cityBuilderImpl struct {
	roads  []*roadSpec
	lots   []*lotSpec
	cars   []carEntry
	config engine.Config
	seed   *int64
	center *geom.Vec2
}

// NewBuilder creates a city builder with the default engine config
func NewBuilder() CityBuilder {
	return &cityBuilderImpl{config: engine.DefaultConfig()}
}

func (b *cityBuilderImpl) Road(start, end geom.Vec2) RoadBuilder {
	spec := &roadSpec{
		start: start,
		end:   end,
		lanes: DefaultLanes,
		width: DefaultRoadWidth,
		light: core.LightGreen,
		timer: core.GreenDuration,
	}
	b.roads = append(b.roads, spec)
	return &roadBuilderImpl{cityBuilderImpl: b, spec: spec}
}

func (b *cityBuilderImpl) Lot(name string) LotBuilder {
	spec := &lotSpec{name: name, capacity: 1, color: core.ColorGray}
	b.lots = append(b.lots, spec)
	return &lotBuilderImpl{cityBuilderImpl: b, spec: spec}
}

func (b *cityBuilderImpl) Car(spec CarSpec) CityBuilder {
	b.cars = append(b.cars, carEntry{spec: &spec, count: 1})
	return b
}

func (b *cityBuilderImpl) Cars(n int, place Placement) CityBuilder {
	b.cars = append(b.cars, carEntry{count: n, place: place})
	return b
}

func (b *cityBuilderImpl) Seed(seed int64) CityBuilder {
	b.seed = &seed
	return b
}

func (b *cityBuilderImpl) Config(cfg engine.Config) CityBuilder {
	b.config = cfg
	return b
}

func (b *cityBuilderImpl) Center(center geom.Vec2) CityBuilder {
	b.center = &center
	return b
}

// Build creates the world and hands it to engine.New, which validates it
func (b *cityBuilderImpl) Build() (*engine.Engine, error) {
	cfg := b.config
	if b.seed != nil {
		cfg.Seed = *b.seed
	}

	roads := make([]*core.Road, len(b.roads))
	for i, r := range b.roads {
		roads[i] = core.NewRoad(r.start, r.end, r.lanes, r.width, r.light, r.timer)
	}

	center := b.mapCenter()
	lots := make([]*core.ParkingLot, len(b.lots))
	for i, l := range b.lots {
		if l.capacity < 1 {
			return nil, core.NewConfigurationError(fmt.Sprintf("Lot %s", l.name), "capacity must be positive")
		}
		lot := core.NewParkingLot(l.name, l.pos, l.size, l.capacity, l.price, l.color, l.exit)
		lot.Road = l.road
		lot.EntryLane = l.entryLane
		lot.AdmissionCap = l.admissionCap
		lot.Side = CardinalSide(l.pos, center)
		lots[i] = lot
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var cars []*core.Car
	for _, entry := range b.cars {
		for j := 0; j < entry.count; j++ {
			id := len(cars)
			var spec CarSpec
			switch {
			case entry.spec != nil:
				spec = *entry.spec
			case entry.place == nil:
				return nil, core.NewConfigurationError(fmt.Sprintf("Car %d", id), "no placement given")
			default:
				spec = entry.place(id, rng)
			}
			if spec.Road < 0 || spec.Road >= len(roads) {
				return nil, core.NewConfigurationError(fmt.Sprintf("Car %d", id), fmt.Sprintf("road index %d out of range", spec.Road))
			}
			c := core.NewCar(id, spec.Road, spec.Lane, spec.Distance, spec.Speed)
			c.Color = spec.Color
			c.LaneOffset = roads[spec.Road].LaneOffset(spec.Lane)
			c.WorldPos = roads[spec.Road].PointAt(spec.Distance, c.LaneOffset)
			c.Rotation = roads[spec.Road].Heading()
			cars = append(cars, c)
		}
	}

	return engine.New(roads, lots, cars, cfg)
}

// mapCenter returns the explicit center or the middle of all road ends.
func (b *cityBuilderImpl) mapCenter() geom.Vec2 {
	if b.center != nil {
		return *b.center
	}
	var pts orb.MultiPoint
	for _, r := range b.roads {
		pts = append(pts, r.start, r.end)
	}
	if len(pts) == 0 {
		return geom.V(0, 0)
	}
	return pts.Bound().Center()
}

type roadBuilderImpl struct {
	*cityBuilderImpl
	spec *roadSpec
}

func (rb *roadBuilderImpl) Lanes(n int) RoadBuilder {
	rb.spec.lanes = n
	return rb
}

func (rb *roadBuilderImpl) Width(w float64) RoadBuilder {
	rb.spec.width = w
	return rb
}

func (rb *roadBuilderImpl) Light(state core.LightState, timer float64) RoadBuilder {
	rb.spec.light = state
	rb.spec.timer = timer
	return rb
}

type lotBuilderImpl struct {
	*cityBuilderImpl
	spec *lotSpec
}

func (lb *lotBuilderImpl) At(pos geom.Vec2) LotBuilder {
	lb.spec.pos = pos
	return lb
}

func (lb *lotBuilderImpl) Size(size geom.Vec2) LotBuilder {
	lb.spec.size = size
	return lb
}

func (lb *lotBuilderImpl) Capacity(n int) LotBuilder {
	lb.spec.capacity = n
	return lb
}

func (lb *lotBuilderImpl) Price(p float64) LotBuilder {
	lb.spec.price = p
	return lb
}

func (lb *lotBuilderImpl) Color(c core.Color) LotBuilder {
	lb.spec.color = c
	return lb
}

func (lb *lotBuilderImpl) Exit(pt geom.Vec2) LotBuilder {
	lb.spec.exit = pt
	return lb
}

func (lb *lotBuilderImpl) OnRoad(road int) LotBuilder {
	lb.spec.road = road
	return lb
}

func (lb *lotBuilderImpl) EntryLane(lane int) LotBuilder {
	lb.spec.entryLane = lane
	return lb
}

func (lb *lotBuilderImpl) AdmissionCap(n int) LotBuilder {
	lb.spec.admissionCap = n
	return lb
}

// CardinalSide names the side of center that pos lies on. The dominant axis
// wins; y grows southwards.
func CardinalSide(pos, center geom.Vec2) string {
	dx := pos[0] - center[0]
	dy := pos[1] - center[1]
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return "East"
		}
		return "West"
	}
	if dy > 0 {
		return "South"
	}
	return "North"
}
