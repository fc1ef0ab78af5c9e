package planfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cityforge/urbanplan/pkg/plan"
)

func TestLoadProject(t *testing.T) {
	p, err := LoadProject("../../examples/riverside")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if p.ID != "riverside-001" {
		t.Errorf("id = %q, want riverside-001", p.ID)
	}
	if p.Name != "Riverside Smart District" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Zones) != 2 || len(p.Buildings) != 2 || len(p.Roads) != 1 || len(p.Sensors) != 2 {
		t.Fatalf("entity counts = %d zones, %d buildings, %d roads, %d sensors",
			len(p.Zones), len(p.Buildings), len(p.Roads), len(p.Sensors))
	}

	z, ok := p.Zones["z-residential"]
	if !ok {
		t.Fatal("missing residential zone")
	}
	if z.ZoneType != plan.ZoneResidential {
		t.Errorf("zone type = %q", z.ZoneType)
	}
	if !z.HasBuilding("b-apartments") {
		t.Error("building not attached to its zone")
	}
	if z.Attributes["max_density"] != 120 {
		t.Errorf("zone attributes = %v", z.Attributes)
	}

	b := p.Buildings["b-apartments"]
	if b.Floors != 15 || b.Height != 45 {
		t.Errorf("building floors/height = %d/%g", b.Floors, b.Height)
	}
	if b.Attributes["energy_rating"] != "A" {
		t.Errorf("building attributes = %v", b.Attributes)
	}

	r := p.Roads["r-main"]
	if r.Direction != plan.TwoWay || r.Width != 15 {
		t.Errorf("road = %+v", r)
	}

	s := p.Sensors["s-air"]
	if s.Type != plan.SensorAirQuality {
		t.Errorf("sensor type = %q", s.Type)
	}
	if s.Status != "online" {
		t.Errorf("sensor status = %q", s.Status)
	}
}

func TestLoadProjectMissing(t *testing.T) {
	if _, err := LoadProject("/nonexistent/path"); err == nil {
		t.Error("expected error for missing project directory")
	}
}

func TestBuildFillsMissingIDs(t *testing.T) {
	f := &File{
		Name: "Anonymous",
		Sensors: []SensorDef{
			{Type: "noise", Location: PointDef{Lat: 1, Lng: 2}},
		},
	}
	p, err := f.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.ID == "" {
		t.Error("plan id not generated")
	}
	for id := range p.Sensors {
		if id == "" {
			t.Error("sensor id not generated")
		}
	}
}

func TestBuildRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name string
		file File
	}{
		{"unknown zone type", File{Zones: []ZoneDef{{Name: "Z", ZoneType: "agrarian"}}}},
		{"unknown traffic direction", File{Roads: []RoadDef{{Name: "R", TrafficDirection: "contraflow"}}}},
		{"out-of-range coordinate", File{Sensors: []SensorDef{{ID: "s", Type: "noise", Location: PointDef{Lat: 95}}}}},
		{"unknown zone reference", File{Buildings: []BuildingDef{{Name: "B", ZoneType: "residential", Zone: "nope"}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.file.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("zones: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
