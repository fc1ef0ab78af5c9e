package plan

import (
	"testing"
	"time"

	"github.com/cityforge/urbanplan/pkg/geo"
)

// stepClock returns a Clock that advances one second per call.
func stepClock(start time.Time) Clock {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func squareAt(lat, lng, size float64) []geo.Coordinate {
	return []geo.Coordinate{
		geo.MustNew(lat, lng),
		geo.MustNew(lat, lng+size),
		geo.MustNew(lat+size, lng+size),
		geo.MustNew(lat+size, lng),
	}
}

func TestAddBuildingOverwrites(t *testing.T) {
	p := New("p1", "Test", "")
	first := NewBuilding("b1", "First", squareAt(0, 0, 1), 10, 2, ZoneResidential)
	second := NewBuilding("b1", "Second", squareAt(0, 0, 1), 20, 4, ZoneCommercial)

	p.AddBuilding(first)
	p.AddBuilding(second)

	if len(p.Buildings) != 1 {
		t.Fatalf("expected 1 building, got %d", len(p.Buildings))
	}
	if p.Buildings["b1"].Name != "Second" {
		t.Errorf("expected last write to win, got %q", p.Buildings["b1"].Name)
	}
}

func TestRemoveBuildingCascades(t *testing.T) {
	p := New("p1", "Test", "")
	b := NewBuilding("b1", "Tower", squareAt(0, 0, 1), 30, 10, ZoneResidential)
	z1 := NewZone("z1", "North", squareAt(0, 0, 5), ZoneResidential)
	z2 := NewZone("z2", "South", squareAt(-5, 0, 5), ZoneMixedUse)
	z1.AddBuilding("b1")
	z2.AddBuilding("b1")
	z2.AddBuilding("b2") // dangling reference, tolerated

	p.AddBuilding(b)
	p.AddZone(z1)
	p.AddZone(z2)

	p.RemoveBuilding("b1")

	if _, ok := p.Buildings["b1"]; ok {
		t.Error("building still present after removal")
	}
	for _, z := range p.Zones {
		if z.HasBuilding("b1") {
			t.Errorf("zone %s still references removed building", z.ID)
		}
	}
	if !z2.HasBuilding("b2") {
		t.Error("unrelated reference was dropped")
	}

	// Second removal is a no-op and must not panic or touch LastModified.
	before := p.LastModified
	p.RemoveBuilding("b1")
	if !p.LastModified.Equal(before) {
		t.Error("no-op removal updated LastModified")
	}
}

func TestLastModifiedAdvances(t *testing.T) {
	p := NewWithClock("p1", "Test", "", stepClock(epoch))
	created := p.CreatedAt

	p.AddRoad(NewRoad("r1", "Main", squareAt(0, 0, 1)[:2], 12, TwoWay))
	if !p.LastModified.After(created) {
		t.Error("AddRoad did not advance LastModified")
	}
	if !p.CreatedAt.Equal(created) {
		t.Error("CreatedAt changed after mutation")
	}

	prev := p.LastModified
	p.AddSensor(NewSensor("s1", SensorNoise, geo.MustNew(0.5, 0.5)))
	if !p.LastModified.After(prev) {
		t.Error("AddSensor did not advance LastModified")
	}
}

func TestBuildingsByZoneType(t *testing.T) {
	p := New("p1", "Test", "")
	p.AddBuilding(NewBuilding("b1", "A", squareAt(0, 0, 1), 10, 1, ZoneResidential))
	p.AddBuilding(NewBuilding("b2", "B", squareAt(2, 2, 1), 10, 1, ZoneCommercial))
	p.AddBuilding(NewBuilding("b3", "C", squareAt(4, 4, 1), 10, 1, ZoneResidential))

	got := p.BuildingsByZoneType(ZoneResidential)
	if len(got) != 2 {
		t.Fatalf("expected 2 residential buildings, got %d", len(got))
	}
	if len(p.BuildingsByZoneType(ZoneIndustrial)) != 0 {
		t.Error("expected no industrial buildings")
	}
}

func TestSensorsByType(t *testing.T) {
	p := New("p1", "Test", "")
	p.AddSensor(NewSensor("s1", SensorTraffic, geo.MustNew(1, 1)))
	p.AddSensor(NewSensor("s2", SensorAirQuality, geo.MustNew(2, 2)))
	p.AddSensor(NewSensor("s3", SensorTraffic, geo.MustNew(3, 3)))

	if got := p.SensorsByType(SensorTraffic); len(got) != 2 {
		t.Errorf("expected 2 traffic sensors, got %d", len(got))
	}
	if got := p.SensorsByType(SensorWeather); len(got) != 0 {
		t.Errorf("expected no weather sensors, got %d", len(got))
	}
}

func TestZoneBuildingSetIdempotent(t *testing.T) {
	z := NewZone("z1", "Core", squareAt(0, 0, 1), ZoneMixedUse)
	z.AddBuilding("b1")
	z.AddBuilding("b1")
	if len(z.Buildings) != 1 {
		t.Errorf("expected 1 member after duplicate add, got %d", len(z.Buildings))
	}
	z.RemoveBuilding("missing") // no-op
	if !z.HasBuilding("b1") {
		t.Error("unrelated removal dropped member")
	}
}

func TestSensorUpdateReading(t *testing.T) {
	s := NewSensor("s1", SensorTraffic, geo.MustNew(1, 1)).WithClock(stepClock(epoch))
	if s.LastReading != nil || s.LastReadingTime != nil {
		t.Fatal("expected no reading on a fresh sensor")
	}
	if s.Status != "online" {
		t.Errorf("expected default status online, got %q", s.Status)
	}

	s.UpdateReading(map[string]any{"vehicle_count": 150})
	if s.LastReading == nil || s.LastReadingTime == nil {
		t.Fatal("reading not recorded")
	}
	first := *s.LastReadingTime

	at := epoch.Add(time.Hour)
	s.UpdateReadingAt(42.0, at)
	if s.LastReading != 42.0 {
		t.Errorf("expected reading overwritten, got %v", s.LastReading)
	}
	if !s.LastReadingTime.Equal(at) {
		t.Errorf("expected explicit timestamp %v, got %v", at, s.LastReadingTime)
	}
	if s.LastReadingTime.Equal(first) {
		t.Error("timestamp not overwritten")
	}
}

func TestZonesContaining(t *testing.T) {
	p := New("p1", "Test", "")
	p.AddZone(NewZone("z1", "Inner", squareAt(0, 0, 10), ZoneResidential))
	p.AddZone(NewZone("z2", "Far", squareAt(40, 40, 10), ZoneIndustrial))

	got := p.ZonesContaining(geo.MustNew(5, 5))
	if len(got) != 1 || got[0].ID != "z1" {
		t.Fatalf("expected only z1 to contain (5,5), got %v", got)
	}
	if len(p.ZonesContaining(geo.MustNew(-20, -20))) != 0 {
		t.Error("expected no zone to contain (-20,-20)")
	}
}

func TestPlanBounds(t *testing.T) {
	p := New("p1", "Test", "")
	if _, _, ok := p.Bounds(); ok {
		t.Error("expected no bounds for empty plan")
	}
	p.AddZone(NewZone("z1", "Core", squareAt(0, 0, 10), ZoneMixedUse))
	p.AddSensor(NewSensor("s1", SensorNoise, geo.MustNew(-2, 15)))

	mn, mx, ok := p.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if mn.Lat != -2 || mn.Lng != 0 {
		t.Errorf("unexpected min %v", mn)
	}
	if mx.Lat != 10 || mx.Lng != 15 {
		t.Errorf("unexpected max %v", mx)
	}
}

func TestBuildingAreas(t *testing.T) {
	b := NewBuilding("b1", "Block", squareAt(0, 0, 2), 30, 10, ZoneCommercial)
	if b.FloorArea() != 4 {
		t.Errorf("expected floor area 4, got %f", b.FloorArea())
	}
	if b.TotalArea() != 40 {
		t.Errorf("expected total area 40, got %f", b.TotalArea())
	}
	// Areas follow the current polygon, never a cached value.
	b.Polygon = squareAt(0, 0, 3)
	if b.FloorArea() != 9 {
		t.Errorf("expected recomputed floor area 9, got %f", b.FloorArea())
	}
}

func TestRoadLength(t *testing.T) {
	r := NewRoad("r1", "Main", []geo.Coordinate{
		geo.MustNew(0, 0), geo.MustNew(3, 4), geo.MustNew(3, 4),
	}, 15, OneWay)
	if r.Length() != 5 {
		t.Errorf("expected length 5, got %f", r.Length())
	}
	r.Path = r.Path[:1]
	if r.Length() != 0 {
		t.Errorf("expected zero length for single-point path, got %f", r.Length())
	}
}
