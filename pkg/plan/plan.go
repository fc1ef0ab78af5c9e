package plan

import (
	"time"

	"github.com/cityforge/urbanplan/pkg/geo"
)

// Plan is the top-level aggregate for one urban-design project. A plan is
// expected to be owned by a single caller context; it carries no internal
// locking.
type Plan struct {
	ID          string
	Name        string
	Description string

	Buildings map[string]*Building
	Roads     map[string]*Road
	Zones     map[string]*Zone
	Sensors   map[string]*Sensor

	CreatedAt    time.Time
	LastModified time.Time

	clock Clock
}

// New creates an empty plan stamped with the current time.
func New(id, name, description string) *Plan {
	return NewWithClock(id, name, description, nil)
}

// NewWithClock creates an empty plan using the given time source for
// CreatedAt, LastModified and every later mutation.
func NewWithClock(id, name, description string, clock Clock) *Plan {
	p := &Plan{
		ID:          id,
		Name:        name,
		Description: description,
		Buildings:   map[string]*Building{},
		Roads:       map[string]*Road{},
		Zones:       map[string]*Zone{},
		Sensors:     map[string]*Sensor{},
		clock:       clock,
	}
	now := p.now()
	p.CreatedAt = now
	p.LastModified = now
	return p
}

func (p *Plan) now() time.Time {
	if p.clock != nil {
		return p.clock()
	}
	return time.Now()
}

func (p *Plan) touch() {
	p.LastModified = p.now()
}

// AddBuilding inserts a building by id, silently overwriting any previous
// building with the same id.
func (p *Plan) AddBuilding(b *Building) {
	p.Buildings[b.ID] = b
	p.touch()
}

// AddRoad inserts a road by id, silently overwriting.
func (p *Plan) AddRoad(r *Road) {
	p.Roads[r.ID] = r
	p.touch()
}

// AddZone inserts a zone by id, silently overwriting.
func (p *Plan) AddZone(z *Zone) {
	p.Zones[z.ID] = z
	p.touch()
}

// AddSensor inserts a sensor by id, silently overwriting.
func (p *Plan) AddSensor(s *Sensor) {
	p.Sensors[s.ID] = s
	p.touch()
}

// RemoveBuilding deletes a building and strips its id from every zone's
// building set, so no orphan references remain. Absent ids are a no-op and
// leave LastModified untouched.
func (p *Plan) RemoveBuilding(id string) {
	if _, ok := p.Buildings[id]; !ok {
		return
	}
	delete(p.Buildings, id)
	for _, z := range p.Zones {
		z.RemoveBuilding(id)
	}
	p.touch()
}

// BuildingsByZoneType returns the buildings with the given zone type, in
// map iteration order.
func (p *Plan) BuildingsByZoneType(zt ZoneType) []*Building {
	var out []*Building
	for _, b := range p.Buildings {
		if b.ZoneType == zt {
			out = append(out, b)
		}
	}
	return out
}

// SensorsByType returns the sensors of the given type, in map iteration
// order.
func (p *Plan) SensorsByType(st SensorType) []*Sensor {
	var out []*Sensor
	for _, s := range p.Sensors {
		if s.Type == st {
			out = append(out, s)
		}
	}
	return out
}

// ZonesContaining returns the zones whose polygon contains the coordinate.
func (p *Plan) ZonesContaining(c geo.Coordinate) []*Zone {
	var out []*Zone
	for _, z := range p.Zones {
		if z.Contains(c) {
			out = append(out, z)
		}
	}
	return out
}

// Bounds returns the bounding box over all plan geometry: building and
// zone polygons, road paths and sensor locations. ok is false when the
// plan holds no geometry at all.
func (p *Plan) Bounds() (minC, maxC geo.Coordinate, ok bool) {
	var pts []geo.Coordinate
	for _, b := range p.Buildings {
		pts = append(pts, b.Polygon...)
	}
	for _, z := range p.Zones {
		pts = append(pts, z.Polygon...)
	}
	for _, r := range p.Roads {
		pts = append(pts, r.Path...)
	}
	for _, s := range p.Sensors {
		pts = append(pts, s.Location)
	}
	return geo.BoundingBox(pts)
}
