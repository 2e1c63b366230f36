// Package geo implements the geocell grid location rows are indexed under,
// and proximity search over it.
package geo

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// EarthRadius in meters.
const EarthRadius = 6378135.0

var ErrBadPoint = errors.New("geo: coordinates out of range")

type Point struct {
	Lat float64
	Lon float64
}

func NewPoint(lat, lon float64) (Point, error) {
	p := Point{Lat: lat, Lon: lon}
	return p, p.Validate()
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return errors.Wrapf(ErrBadPoint, "%f,%f", p.Lat, p.Lon)
	}
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance is the great circle distance in meters (haversine).
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadius * math.Asin(math.Sqrt(clamp(h, 0, 1)))
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
