// Package geo provides the coordinate primitives used by the plan model.
// All distances and areas are flat-plane approximations computed directly
// in degree space, not geodesic measurements.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange reports a latitude or longitude outside its valid range.
var ErrOutOfRange = errors.New("coordinate out of range")

// Coordinate is a validated latitude/longitude pair. Treat it as immutable
// once constructed.
type Coordinate struct {
	Lat float64
	Lng float64
}

// New returns a coordinate, or an error wrapping ErrOutOfRange when
// latitude is outside [-90, 90] or longitude outside [-180, 180].
func New(lat, lng float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("invalid latitude %v, must be between -90 and 90: %w", lat, ErrOutOfRange)
	}
	if lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("invalid longitude %v, must be between -180 and 180: %w", lng, ErrOutOfRange)
	}
	return Coordinate{Lat: lat, Lng: lng}, nil
}

// MustNew is New for coordinates known to be in range; it panics otherwise.
// Intended for fixed seed data and tests.
func MustNew(lat, lng float64) Coordinate {
	c, err := New(lat, lng)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lat, c.Lng)
}

// DistanceTo returns the planar Euclidean distance to other in degree
// space. Ground-truth distance would need the Haversine formula; the plan
// model keeps the flat approximation on purpose.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return math.Hypot(c.Lat-other.Lat, c.Lng-other.Lng)
}
