package plan

import (
	"sort"
	"time"

	"github.com/cityforge/urbanplan/pkg/geo"
)

// Building is a single structure with a polygonal footprint.
type Building struct {
	ID       string
	Name     string
	Polygon  []geo.Coordinate
	Height   float64 // meters
	Floors   int
	ZoneType ZoneType
	// Attributes holds open-ended extra fields such as year built or
	// energy rating.
	Attributes map[string]any
}

// NewBuilding creates a building. Height and Floors are accepted
// unchecked; only coordinates carry validation.
func NewBuilding(id, name string, polygon []geo.Coordinate, height float64, floors int, zt ZoneType) *Building {
	return &Building{
		ID:         id,
		Name:       name,
		Polygon:    polygon,
		Height:     height,
		Floors:     floors,
		ZoneType:   zt,
		Attributes: map[string]any{},
	}
}

// FloorArea returns the shoelace area of the footprint in degree space.
// Computed on demand so it always reflects the current polygon.
func (b *Building) FloorArea() float64 {
	return geo.RingArea(b.Polygon)
}

// TotalArea returns the footprint area summed across all floors.
func (b *Building) TotalArea() float64 {
	return b.FloorArea() * float64(b.Floors)
}

// Road is a polyline road segment chain.
type Road struct {
	ID         string
	Name       string
	Path       []geo.Coordinate
	Width      float64 // meters
	Direction  TrafficDirection
	Attributes map[string]any
}

// NewRoad creates a road. Width is accepted unchecked.
func NewRoad(id, name string, path []geo.Coordinate, width float64, dir TrafficDirection) *Road {
	return &Road{
		ID:         id,
		Name:       name,
		Path:       path,
		Width:      width,
		Direction:  dir,
		Attributes: map[string]any{},
	}
}

// Length returns the summed planar length of the path. Computed on demand.
func (r *Road) Length() float64 {
	return geo.PathLength(r.Path)
}

// Zone is a polygonal land-use region. It references member buildings by
// identifier only; the ids are not checked against any plan, and dangling
// references are tolerated.
type Zone struct {
	ID         string
	Name       string
	Polygon    []geo.Coordinate
	ZoneType   ZoneType
	Buildings  map[string]struct{} // building ids
	Attributes map[string]any
}

// NewZone creates a zone with an empty building set.
func NewZone(id, name string, polygon []geo.Coordinate, zt ZoneType) *Zone {
	return &Zone{
		ID:         id,
		Name:       name,
		Polygon:    polygon,
		ZoneType:   zt,
		Buildings:  map[string]struct{}{},
		Attributes: map[string]any{},
	}
}

// AddBuilding records a building id in the zone. Adding an id twice is a
// no-op.
func (z *Zone) AddBuilding(id string) {
	z.Buildings[id] = struct{}{}
}

// RemoveBuilding drops a building id from the zone. Absent ids are a no-op.
func (z *Zone) RemoveBuilding(id string) {
	delete(z.Buildings, id)
}

// HasBuilding reports whether the zone references the building id.
func (z *Zone) HasBuilding(id string) bool {
	_, ok := z.Buildings[id]
	return ok
}

// BuildingIDs returns the member ids sorted for stable output.
func (z *Zone) BuildingIDs() []string {
	ids := make([]string, 0, len(z.Buildings))
	for id := range z.Buildings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Contains reports whether the coordinate lies inside the zone polygon.
func (z *Zone) Contains(c geo.Coordinate) bool {
	return geo.Contains(z.Polygon, c)
}

// Sensor is an IoT sensor placed at a single location.
type Sensor struct {
	ID              string
	Type            SensorType
	Location        geo.Coordinate
	LastReading     any
	LastReadingTime *time.Time
	Status          string

	clock Clock
}

// NewSensor creates a sensor with no reading and status "online".
func NewSensor(id string, st SensorType, location geo.Coordinate) *Sensor {
	return &Sensor{
		ID:       id,
		Type:     st,
		Location: location,
		Status:   "online",
	}
}

// WithClock sets the time source used by UpdateReading and returns the
// sensor for chaining.
func (s *Sensor) WithClock(c Clock) *Sensor {
	s.clock = c
	return s
}

// UpdateReading overwrites the last reading, stamped with the sensor
// clock. No history is kept.
func (s *Sensor) UpdateReading(value any) {
	s.UpdateReadingAt(value, s.now())
}

// UpdateReadingAt overwrites the last reading with an explicit timestamp.
func (s *Sensor) UpdateReadingAt(value any, at time.Time) {
	s.LastReading = value
	s.LastReadingTime = &at
}

func (s *Sensor) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}
