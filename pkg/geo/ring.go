package geo

import "math"

// RingArea returns the unsigned shoelace area of the polygon described by
// pts, taking longitude as x and latitude as y. The ring is closed
// implicitly; the first vertex does not need to be repeated at the end.
// Fewer than three vertices yield zero.
func RingArea(pts []Coordinate) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	area := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		area += (pts[j].Lng + pts[i].Lng) * (pts[j].Lat - pts[i].Lat)
		j = i
	}
	return math.Abs(area / 2)
}

// PathLength returns the sum of planar distances between consecutive
// points. Zero or one point yields zero length.
func PathLength(pts []Coordinate) float64 {
	total := 0.0
	for i := 0; i+1 < len(pts); i++ {
		total += pts[i].DistanceTo(pts[i+1])
	}
	return total
}

// Centroid returns the area centroid of the ring. Degenerate rings (fewer
// than three vertices or near-zero area) fall back to the vertex average.
func Centroid(pts []Coordinate) Coordinate {
	n := len(pts)
	if n == 0 {
		return Coordinate{}
	}
	signed := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		signed += pts[j].Lng*pts[i].Lat - pts[i].Lng*pts[j].Lat
		j = i
	}
	signed /= 2
	if n < 3 || math.Abs(signed) < 1e-12 {
		var latSum, lngSum float64
		for _, p := range pts {
			latSum += p.Lat
			lngSum += p.Lng
		}
		return Coordinate{Lat: latSum / float64(n), Lng: lngSum / float64(n)}
	}
	var cLat, cLng float64
	j = n - 1
	for i := 0; i < n; i++ {
		cross := pts[j].Lng*pts[i].Lat - pts[i].Lng*pts[j].Lat
		cLng += (pts[j].Lng + pts[i].Lng) * cross
		cLat += (pts[j].Lat + pts[i].Lat) * cross
		j = i
	}
	f := 1.0 / (6.0 * signed)
	return Coordinate{Lat: cLat * f, Lng: cLng * f}
}

// Contains reports whether c lies inside the ring, using ray casting.
// Rings with fewer than three vertices contain nothing.
func Contains(pts []Coordinate, c Coordinate) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := pts[i], pts[j]
		if (vi.Lat > c.Lat) != (vj.Lat > c.Lat) &&
			c.Lng < (vj.Lng-vi.Lng)*(c.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng {
			inside = !inside
		}
		j = i
	}
	return inside
}

// BoundingBox returns the axis-aligned bounding box of pts as (min, max).
// ok is false when pts is empty.
func BoundingBox(pts []Coordinate) (minC, maxC Coordinate, ok bool) {
	if len(pts) == 0 {
		return Coordinate{}, Coordinate{}, false
	}
	minC, maxC = pts[0], pts[0]
	for _, p := range pts[1:] {
		if p.Lat < minC.Lat {
			minC.Lat = p.Lat
		}
		if p.Lng < minC.Lng {
			minC.Lng = p.Lng
		}
		if p.Lat > maxC.Lat {
			maxC.Lat = p.Lat
		}
		if p.Lng > maxC.Lng {
			maxC.Lng = p.Lng
		}
	}
	return minC, maxC, true
}
