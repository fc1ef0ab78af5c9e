// Package plan models an urban-planning dataset: zones, buildings, roads
// and IoT sensors aggregated into a plan that serializes to and from a
// JSON document.
package plan

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadDocument reports a malformed or incomplete plan document.
var ErrBadDocument = errors.New("malformed plan document")

// Clock supplies timestamps for mutations. A nil Clock means time.Now.
type Clock func() time.Time

// ZoneType classifies the intended land use of a zone or building.
type ZoneType string

const (
	ZoneResidential    ZoneType = "residential"
	ZoneCommercial     ZoneType = "commercial"
	ZoneIndustrial     ZoneType = "industrial"
	ZoneRecreational   ZoneType = "recreational"
	ZoneMixedUse       ZoneType = "mixed_use"
	ZoneSpecialPurpose ZoneType = "special_purpose"
)

var zoneTypeTags = map[string]ZoneType{
	"residential":     ZoneResidential,
	"commercial":      ZoneCommercial,
	"industrial":      ZoneIndustrial,
	"recreational":    ZoneRecreational,
	"mixed_use":       ZoneMixedUse,
	"special_purpose": ZoneSpecialPurpose,
}

// ParseZoneType maps a wire tag back to its ZoneType. Unknown tags fail
// with ErrBadDocument.
func ParseZoneType(tag string) (ZoneType, error) {
	if zt, ok := zoneTypeTags[tag]; ok {
		return zt, nil
	}
	return "", fmt.Errorf("unknown zone type %q: %w", tag, ErrBadDocument)
}

// TrafficDirection is the flow direction of a road.
type TrafficDirection string

const (
	OneWay TrafficDirection = "one_way"
	TwoWay TrafficDirection = "two_way"
)

var trafficDirectionTags = map[string]TrafficDirection{
	"one_way": OneWay,
	"two_way": TwoWay,
}

// ParseTrafficDirection maps a wire tag back to its TrafficDirection.
// Unknown tags fail with ErrBadDocument.
func ParseTrafficDirection(tag string) (TrafficDirection, error) {
	if td, ok := trafficDirectionTags[tag]; ok {
		return td, nil
	}
	return "", fmt.Errorf("unknown traffic direction %q: %w", tag, ErrBadDocument)
}

// SensorType identifies the kind of IoT sensor.
type SensorType string

const (
	SensorTraffic     SensorType = "traffic"
	SensorAirQuality  SensorType = "air_quality"
	SensorNoise       SensorType = "noise"
	SensorWeather     SensorType = "weather"
	SensorPedestrian  SensorType = "pedestrian"
	SensorWaterLevel  SensorType = "water_level"
	SensorEnergyUsage SensorType = "energy_usage"
)

var sensorTypeTags = map[string]SensorType{
	"traffic":      SensorTraffic,
	"air_quality":  SensorAirQuality,
	"noise":        SensorNoise,
	"weather":      SensorWeather,
	"pedestrian":   SensorPedestrian,
	"water_level":  SensorWaterLevel,
	"energy_usage": SensorEnergyUsage,
}

// ParseSensorType maps a wire tag back to its SensorType. Unknown tags
// fail with ErrBadDocument.
func ParseSensorType(tag string) (SensorType, error) {
	if st, ok := sensorTypeTags[tag]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown sensor type %q: %w", tag, ErrBadDocument)
}
