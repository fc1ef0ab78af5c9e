package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cityforge/urbanplan/pkg/geo"
)

// The wire format uses two vertex spellings: polygons and paths carry the
// compact {lat,lng} pair, sensor locations the long-form
// {latitude,longitude}. Both are fixed and must not be unified.

// LatLng is the compact vertex encoding for polygons and paths.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is the long-form encoding for sensor locations.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BuildingDoc is the wire form of a building. floor_area and total_area
// are derived values written for consumers; Decode ignores them and
// recomputes from the polygon.
type BuildingDoc struct {
	BuildingID string         `json:"building_id"`
	Name       string         `json:"name"`
	Polygon    []LatLng       `json:"polygon"`
	Height     float64        `json:"height"`
	Floors     int            `json:"floors"`
	ZoneType   string         `json:"zone_type"`
	FloorArea  float64        `json:"floor_area"`
	TotalArea  float64        `json:"total_area"`
	Attributes map[string]any `json:"attributes"`
}

// RoadDoc is the wire form of a road. length is derived and recomputed on
// decode.
type RoadDoc struct {
	RoadID           string         `json:"road_id"`
	Name             string         `json:"name"`
	Path             []LatLng       `json:"path"`
	Width            float64        `json:"width"`
	TrafficDirection string         `json:"traffic_direction"`
	Length           float64        `json:"length"`
	Attributes       map[string]any `json:"attributes"`
}

// ZoneDoc is the wire form of a zone.
type ZoneDoc struct {
	ZoneID     string         `json:"zone_id"`
	Name       string         `json:"name"`
	Polygon    []LatLng       `json:"polygon"`
	ZoneType   string         `json:"zone_type"`
	Buildings  []string       `json:"buildings"`
	Attributes map[string]any `json:"attributes"`
}

// SensorDoc is the wire form of a sensor.
type SensorDoc struct {
	SensorID        string    `json:"sensor_id"`
	Type            string    `json:"type"`
	Location        *Location `json:"location"`
	LastReading     any       `json:"last_reading"`
	LastReadingTime *string   `json:"last_reading_time"`
	Status          string    `json:"status"`
}

// Document is the complete wire form of a plan.
type Document struct {
	PlanID       string                 `json:"plan_id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	CreatedAt    string                 `json:"created_at"`
	LastModified string                 `json:"last_modified"`
	Buildings    map[string]BuildingDoc `json:"buildings"`
	Roads        map[string]RoadDoc     `json:"roads"`
	Zones        map[string]ZoneDoc     `json:"zones"`
	Sensors      map[string]SensorDoc   `json:"sensors"`
}

// Export produces the full wire document. It is pure and deterministic
// given the plan state; derived fields are computed here, never cached.
func (p *Plan) Export() *Document {
	doc := &Document{
		PlanID:       p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339Nano),
		LastModified: p.LastModified.Format(time.RFC3339Nano),
		Buildings:    map[string]BuildingDoc{},
		Roads:        map[string]RoadDoc{},
		Zones:        map[string]ZoneDoc{},
		Sensors:      map[string]SensorDoc{},
	}
	for id, b := range p.Buildings {
		doc.Buildings[id] = BuildingDoc{
			BuildingID: b.ID,
			Name:       b.Name,
			Polygon:    vertices(b.Polygon),
			Height:     b.Height,
			Floors:     b.Floors,
			ZoneType:   string(b.ZoneType),
			FloorArea:  b.FloorArea(),
			TotalArea:  b.TotalArea(),
			Attributes: attrs(b.Attributes),
		}
	}
	for id, r := range p.Roads {
		doc.Roads[id] = RoadDoc{
			RoadID:           r.ID,
			Name:             r.Name,
			Path:             vertices(r.Path),
			Width:            r.Width,
			TrafficDirection: string(r.Direction),
			Length:           r.Length(),
			Attributes:       attrs(r.Attributes),
		}
	}
	for id, z := range p.Zones {
		doc.Zones[id] = ZoneDoc{
			ZoneID:     z.ID,
			Name:       z.Name,
			Polygon:    vertices(z.Polygon),
			ZoneType:   string(z.ZoneType),
			Buildings:  z.BuildingIDs(),
			Attributes: attrs(z.Attributes),
		}
	}
	for id, s := range p.Sensors {
		sd := SensorDoc{
			SensorID: s.ID,
			Type:     string(s.Type),
			Location: &Location{Latitude: s.Location.Lat, Longitude: s.Location.Lng},
			Status:   s.Status,
		}
		sd.LastReading = s.LastReading
		if s.LastReadingTime != nil {
			ts := s.LastReadingTime.Format(time.RFC3339Nano)
			sd.LastReadingTime = &ts
		}
		doc.Sensors[id] = sd
	}
	return doc
}

// EncodeTo writes the plan document as pretty-printed JSON with 2-space
// indentation.
func (p *Plan) EncodeTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Export()); err != nil {
		return fmt.Errorf("encoding plan %s: %w", p.ID, err)
	}
	return nil
}

// Decode reads a plan document and reconstructs the plan. Entities are
// rebuilt independently; a zone's building-id set is taken as-is without
// checking that the ids resolve. Derived fields in the document are
// ignored and recomputed from geometry.
func Decode(r io.Reader) (*Plan, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing plan JSON: %v: %w", err, ErrBadDocument)
	}
	return FromDocument(&doc)
}

// FromDocument reconstructs a plan from an already-parsed document.
func FromDocument(doc *Document) (*Plan, error) {
	if doc.PlanID == "" {
		return nil, fmt.Errorf("missing plan_id: %w", ErrBadDocument)
	}
	createdAt, err := parseTimestamp(doc.CreatedAt, "created_at")
	if err != nil {
		return nil, err
	}
	lastModified, err := parseTimestamp(doc.LastModified, "last_modified")
	if err != nil {
		return nil, err
	}
	// All four entity sections are required; an empty plan still carries
	// them as {}. A nil map here means the key was absent.
	if doc.Buildings == nil || doc.Roads == nil || doc.Zones == nil || doc.Sensors == nil {
		return nil, fmt.Errorf("missing entity sections: %w", ErrBadDocument)
	}

	p := New(doc.PlanID, doc.Name, doc.Description)
	p.CreatedAt = createdAt
	p.LastModified = lastModified

	for id, bd := range doc.Buildings {
		polygon, err := coordinates(bd.Polygon)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", id, err)
		}
		zt, err := ParseZoneType(bd.ZoneType)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", id, err)
		}
		b := NewBuilding(id, bd.Name, polygon, bd.Height, bd.Floors, zt)
		if bd.Attributes != nil {
			b.Attributes = bd.Attributes
		}
		p.Buildings[id] = b
	}

	for id, rd := range doc.Roads {
		path, err := coordinates(rd.Path)
		if err != nil {
			return nil, fmt.Errorf("road %s: %w", id, err)
		}
		dir, err := ParseTrafficDirection(rd.TrafficDirection)
		if err != nil {
			return nil, fmt.Errorf("road %s: %w", id, err)
		}
		r := NewRoad(id, rd.Name, path, rd.Width, dir)
		if rd.Attributes != nil {
			r.Attributes = rd.Attributes
		}
		p.Roads[id] = r
	}

	for id, zd := range doc.Zones {
		polygon, err := coordinates(zd.Polygon)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", id, err)
		}
		zt, err := ParseZoneType(zd.ZoneType)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", id, err)
		}
		z := NewZone(id, zd.Name, polygon, zt)
		for _, bid := range zd.Buildings {
			z.AddBuilding(bid)
		}
		if zd.Attributes != nil {
			z.Attributes = zd.Attributes
		}
		p.Zones[id] = z
	}

	for id, sd := range doc.Sensors {
		if sd.Location == nil {
			return nil, fmt.Errorf("sensor %s: missing location: %w", id, ErrBadDocument)
		}
		loc, err := geo.New(sd.Location.Latitude, sd.Location.Longitude)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", id, err)
		}
		st, err := ParseSensorType(sd.Type)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", id, err)
		}
		s := NewSensor(id, st, loc)
		s.LastReading = sd.LastReading
		if sd.LastReadingTime != nil {
			t, err := parseTimestamp(*sd.LastReadingTime, "last_reading_time")
			if err != nil {
				return nil, fmt.Errorf("sensor %s: %w", id, err)
			}
			s.LastReadingTime = &t
		}
		s.Status = sd.Status
		p.Sensors[id] = s
	}

	return p, nil
}

// timestampLayouts covers RFC 3339 output plus the zone-less ISO-8601
// form older tooling wrote.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(s, field string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad %s timestamp %q: %w", field, s, ErrBadDocument)
}

func vertices(pts []geo.Coordinate) []LatLng {
	out := make([]LatLng, len(pts))
	for i, p := range pts {
		out[i] = LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return out
}

func coordinates(pts []LatLng) ([]geo.Coordinate, error) {
	out := make([]geo.Coordinate, len(pts))
	for i, p := range pts {
		c, err := geo.New(p.Lat, p.Lng)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func attrs(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
