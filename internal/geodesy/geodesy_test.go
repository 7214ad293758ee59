package geodesy

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

var (
	shimomizo = orb.Point{139.406397, 35.531261}
	zama      = orb.Point{139.434264, 35.490194}
	origin    = orb.Point{139.741357, 35.658099}
	kano      = orb.Point{139.955735, 35.254982}
)

func TestBaselineMeasurement(t *testing.T) {
	m := Measure(Spherical{}, shimomizo, zama)

	assert.False(t, m.Degenerate)
	assert.InDelta(t, 5.2, m.DistanceKm, 0.1)
	// south-southeast
	assert.Greater(t, m.BearingDeg, 140.0)
	assert.Less(t, m.BearingDeg, 160.0)
}

func TestDistanceSymmetric(t *testing.T) {
	pts := []orb.Point{shimomizo, zama, origin, kano}
	var s Spherical
	for _, a := range pts {
		for _, b := range pts {
			assert.InDelta(t, s.Distance(a, b), s.Distance(b, a), 1e-9)
		}
	}
}

func TestBearingNotSymmetric(t *testing.T) {
	var s Spherical
	fwd := s.Bearing(shimomizo, zama)
	back := s.Bearing(zama, shimomizo)

	assert.NotEqual(t, fwd, back)
	assert.InDelta(t, 180, math.Abs(fwd-back), 1)
}

func TestBearingRange(t *testing.T) {
	var s Spherical
	// due west would be -90 before normalization
	b := s.Bearing(orb.Point{139.5, 35.5}, orb.Point{139.0, 35.5})
	assert.GreaterOrEqual(t, b, 0.0)
	assert.Less(t, b, 360.0)
	assert.InDelta(t, 270, b, 1)
}

func TestNormalize(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		-10:  350,
		180:  180,
		-180: 180,
		360:  0,
		725:  5,
	}
	for in, want := range cases {
		assert.InDelta(t, want, Normalize(in), 1e-9, "Normalize(%v)", in)
	}
}

func TestDegenerateMeasurement(t *testing.T) {
	m := Measure(Spherical{}, zama, zama)

	assert.True(t, m.Degenerate)
	assert.Zero(t, m.DistanceKm)
	assert.True(t, math.IsNaN(m.BearingDeg))
	assert.Equal(t, "—", m.FormatBearing())
	assert.Equal(t, "0.000km", m.FormatDistance())
}

func TestInterpolateAlong(t *testing.T) {
	var s Spherical
	line := orb.LineString{shimomizo, zama}
	length := s.LineLength(line)

	assert.Equal(t, shimomizo, s.InterpolateAlong(line, 0))
	assert.Equal(t, shimomizo, s.InterpolateAlong(line, -1))
	assert.Equal(t, zama, s.InterpolateAlong(line, length))
	assert.Equal(t, zama, s.InterpolateAlong(line, length*2))

	mid := s.InterpolateAlong(line, length/2)
	assert.InDelta(t, length/2, s.Distance(shimomizo, mid), 1e-3)
	assert.InDelta(t, length/2, s.Distance(mid, zama), 1e-3)

	assert.Equal(t, orb.Point{}, s.InterpolateAlong(nil, 1))
}

func TestLineLengthMultiSegment(t *testing.T) {
	var s Spherical
	line := orb.LineString{shimomizo, zama, kano}
	assert.InDelta(t, s.Distance(shimomizo, zama)+s.Distance(zama, kano), s.LineLength(line), 1e-9)
	assert.Zero(t, s.LineLength(orb.LineString{zama}))
}
