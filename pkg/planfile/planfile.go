// Package planfile loads urban plans authored as YAML project files.
package planfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cityforge/urbanplan/pkg/geo"
	"github.com/cityforge/urbanplan/pkg/plan"
)

// File is the YAML authoring format for a plan.
type File struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Zones       []ZoneDef     `yaml:"zones"`
	Buildings   []BuildingDef `yaml:"buildings"`
	Roads       []RoadDef     `yaml:"roads"`
	Sensors     []SensorDef   `yaml:"sensors"`
}

// PointDef is a coordinate vertex in the authoring format.
type PointDef struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type ZoneDef struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	ZoneType   string         `yaml:"zone_type"`
	Polygon    []PointDef     `yaml:"polygon"`
	Attributes map[string]any `yaml:"attributes"`
}

type BuildingDef struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Polygon    []PointDef     `yaml:"polygon"`
	Height     float64        `yaml:"height"`
	Floors     int            `yaml:"floors"`
	ZoneType   string         `yaml:"zone_type"`
	Zone       string         `yaml:"zone"` // optional zone id to attach to
	Attributes map[string]any `yaml:"attributes"`
}

type RoadDef struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Path             []PointDef     `yaml:"path"`
	Width            float64        `yaml:"width"`
	TrafficDirection string         `yaml:"traffic_direction"`
	Attributes       map[string]any `yaml:"attributes"`
}

type SensorDef struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Location PointDef `yaml:"location"`
	Status   string   `yaml:"status"`
}

// Load reads a plan file from a YAML file and builds the plan.
func Load(path string) (*plan.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing plan YAML: %w", err)
	}

	return f.Build()
}

// LoadProject loads a plan from a project directory. It looks for
// plan.yaml in the given directory.
func LoadProject(projectDir string) (*plan.Plan, error) {
	return Load(filepath.Join(projectDir, "plan.yaml"))
}

// Build constructs a live plan from the file. Entity ids left blank are
// filled with fresh uuids; a building's optional zone reference is
// resolved against authored zone ids.
func (f *File) Build() (*plan.Plan, error) {
	id := f.ID
	if id == "" {
		id = uuid.NewString()
	}
	p := plan.New(id, f.Name, f.Description)

	for _, zd := range f.Zones {
		zt, err := plan.ParseZoneType(zd.ZoneType)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", zd.Name, err)
		}
		polygon, err := points(zd.Polygon)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", zd.Name, err)
		}
		z := plan.NewZone(orFresh(zd.ID), zd.Name, polygon, zt)
		if zd.Attributes != nil {
			z.Attributes = zd.Attributes
		}
		p.AddZone(z)
	}

	for _, bd := range f.Buildings {
		zt, err := plan.ParseZoneType(bd.ZoneType)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", bd.Name, err)
		}
		polygon, err := points(bd.Polygon)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", bd.Name, err)
		}
		b := plan.NewBuilding(orFresh(bd.ID), bd.Name, polygon, bd.Height, bd.Floors, zt)
		if bd.Attributes != nil {
			b.Attributes = bd.Attributes
		}
		p.AddBuilding(b)
		if bd.Zone != "" {
			z, ok := p.Zones[bd.Zone]
			if !ok {
				return nil, fmt.Errorf("building %q references unknown zone %q", bd.Name, bd.Zone)
			}
			z.AddBuilding(b.ID)
		}
	}

	for _, rd := range f.Roads {
		dir, err := plan.ParseTrafficDirection(rd.TrafficDirection)
		if err != nil {
			return nil, fmt.Errorf("road %q: %w", rd.Name, err)
		}
		path, err := points(rd.Path)
		if err != nil {
			return nil, fmt.Errorf("road %q: %w", rd.Name, err)
		}
		r := plan.NewRoad(orFresh(rd.ID), rd.Name, path, rd.Width, dir)
		if rd.Attributes != nil {
			r.Attributes = rd.Attributes
		}
		p.AddRoad(r)
	}

	for _, sd := range f.Sensors {
		st, err := plan.ParseSensorType(sd.Type)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sd.ID, err)
		}
		loc, err := geo.New(sd.Location.Lat, sd.Location.Lng)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sd.ID, err)
		}
		s := plan.NewSensor(orFresh(sd.ID), st, loc)
		if sd.Status != "" {
			s.Status = sd.Status
		}
		p.AddSensor(s)
	}

	return p, nil
}

func orFresh(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func points(defs []PointDef) ([]geo.Coordinate, error) {
	out := make([]geo.Coordinate, len(defs))
	for i, d := range defs {
		c, err := geo.New(d.Lat, d.Lng)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
