// Package geodesy wraps great-circle primitives behind the interface the
// animation controller consumes. Distances are kilometers, bearings degrees
// clockwise from north normalized to [0, 360).
package geodesy

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Adapter is the geodesy primitive set used by the controller.
type Adapter interface {
	Distance(p1, p2 orb.Point) float64
	Bearing(p1, p2 orb.Point) float64
	InterpolateAlong(line orb.LineString, km float64) orb.Point
	LineLength(line orb.LineString) float64
}

// Spherical implements Adapter on a spherical earth via orb/geo.
type Spherical struct{}

var _ Adapter = Spherical{}

func (Spherical) Distance(p1, p2 orb.Point) float64 {
	return geo.DistanceHaversine(p1, p2) / 1000
}

// Bearing returns the initial bearing from p1 to p2 in [0, 360).
func (Spherical) Bearing(p1, p2 orb.Point) float64 {
	return Normalize(geo.Bearing(p1, p2))
}

// InterpolateAlong walks km kilometers along line. Distances past either end
// clamp to the first or last vertex.
func (s Spherical) InterpolateAlong(line orb.LineString, km float64) orb.Point {
	if len(line) == 0 {
		return orb.Point{}
	}
	if km <= 0 {
		return line[0]
	}
	remaining := km
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		seg := s.Distance(a, b)
		if seg == 0 {
			continue
		}
		if remaining < seg {
			return geo.PointAtBearingAndDistance(a, geo.Bearing(a, b), remaining*1000)
		}
		remaining -= seg
	}
	return line[len(line)-1]
}

func (s Spherical) LineLength(line orb.LineString) float64 {
	var total float64
	for i := 0; i+1 < len(line); i++ {
		total += s.Distance(line[i], line[i+1])
	}
	return total
}

// Normalize maps any bearing in degrees into [0, 360).
func Normalize(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}

// Measurement is the distance and initial bearing between two points.
// Degenerate is set for identical points, whose bearing is undefined (NaN).
type Measurement struct {
	DistanceKm float64
	BearingDeg float64
	Degenerate bool
}

// Measure computes the distance and bearing from p1 to p2.
func Measure(a Adapter, p1, p2 orb.Point) Measurement {
	if p1.Equal(p2) {
		return Measurement{BearingDeg: math.NaN(), Degenerate: true}
	}
	return Measurement{
		DistanceKm: a.Distance(p1, p2),
		BearingDeg: a.Bearing(p1, p2),
	}
}

// FormatBearing renders a bearing as "%.1f°", or "—" when undefined.
func (m Measurement) FormatBearing() string {
	if m.Degenerate || math.IsNaN(m.BearingDeg) {
		return "—"
	}
	return fmt.Sprintf("%.1f°", m.BearingDeg)
}

func (m Measurement) FormatDistance() string {
	return fmt.Sprintf("%.3fkm", m.DistanceKm)
}
