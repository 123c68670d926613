package geo

import (
	"testing"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WGS84 equatorial length of one degree of longitude.
const equatorDegree = 111319.4908

func TestDistanceGeographic(t *testing.T) {
	calc, err := NewGeodeticCalculator(&coordsys.WGS84)
	require.NoError(t, err)
	assert.Equal(t, units.M, calc.Unit())

	d, err := calc.Distance(orb.Point{0, 0}, orb.Point{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, equatorDegree, d, 0.05)

	d, err = calc.Distance(orb.Point{3, 3}, orb.Point{3, 3})
	require.NoError(t, err)
	assert.Zero(t, d)

	// the sphere is a rough cross check only
	d, err = calc.Distance(orb.Point{0, 0}, orb.Point{1, 1})
	require.NoError(t, err)
	assert.InEpsilon(t, units.DistanceGeoID(0, 0, 1, 1), d, 0.005)
}

func TestDistancePseudoMercator(t *testing.T) {
	calc, err := NewGeodeticCalculator(&coordsys.WebMercator)
	require.NoError(t, err)

	d, err := calc.Distance(orb.Point{0, 0}, orb.Point{equatorDegree, 0})
	require.NoError(t, err)
	assert.InDelta(t, equatorDegree, d, 0.05)

	// the same projected width covers about half the ground at 60°N
	y := coordsys.WebMercator.Forward(orb.Point{0, 60}).Y()
	d, err = calc.Distance(orb.Point{0, y}, orb.Point{equatorDegree, y})
	require.NoError(t, err)
	assert.InEpsilon(t, equatorDegree/2, d, 0.01)
}

func TestDestination(t *testing.T) {
	calc, err := NewGeodeticCalculator(&coordsys.WGS84)
	require.NoError(t, err)

	p, err := calc.Destination(orb.Point{0, 0}, East, equatorDegree)
	require.NoError(t, err)
	assert.InDelta(t, 1, p.X(), 1e-6)
	assert.InDelta(t, 0, p.Y(), 1e-6)

	p, err = calc.Destination(orb.Point{0, 0}, West, equatorDegree)
	require.NoError(t, err)
	assert.InDelta(t, -1, p.X(), 1e-6)

	// meridian arc of the first degree of latitude
	p, err = calc.Destination(orb.Point{0, 0}, North, 110574.3886)
	require.NoError(t, err)
	assert.InDelta(t, 1, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.X(), 1e-9)

	p, err = calc.Destination(orb.Point{0, 0}, South, 110574.3886)
	require.NoError(t, err)
	assert.InDelta(t, -1, p.Y(), 1e-5)
}

func TestDestinationPseudoMercator(t *testing.T) {
	calc, err := NewGeodeticCalculator(&coordsys.WebMercator)
	require.NoError(t, err)

	p, err := calc.Destination(orb.Point{0, 0}, East, equatorDegree)
	require.NoError(t, err)
	assert.InDelta(t, equatorDegree, p.X(), 0.05)
	assert.InDelta(t, 0, p.Y(), 1e-6)
}

func TestGeodeticErrors(t *testing.T) {
	_, err := NewGeodeticCalculator(nil)
	assert.Equal(t, mfp.ErrGeodetic, errors.Cause(err))

	mars := coordsys.WGS84
	mars.Ellipsoid = "MARS"
	_, err = NewGeodeticCalculator(&mars)
	assert.Equal(t, mfp.ErrGeodetic, errors.Cause(err))

	calc, err := NewGeodeticCalculator(&coordsys.WGS84)
	require.NoError(t, err)
	_, err = calc.Distance(orb.Point{0, 95}, orb.Point{0, 0})
	assert.Equal(t, mfp.ErrGeodetic, errors.Cause(err))
	_, err = calc.Destination(orb.Point{0, -91}, North, 10)
	assert.Equal(t, mfp.ErrGeodetic, errors.Cause(err))
}

func TestDestinationOutOfProjection(t *testing.T) {
	calc, err := NewGeodeticCalculator(&coordsys.WebMercator)
	require.NoError(t, err)
	start := coordsys.WebMercator.Forward(orb.Point{10, 84})

	_, err = calc.Destination(start, North, 600000)
	assert.Equal(t, mfp.ErrGeodetic, errors.Cause(err))

	p, err := calc.Destination(start, South, 600000)
	require.NoError(t, err)
	assert.True(t, p.Y() < start.Y())
}
