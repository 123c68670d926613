package coordsys

import (
	"math"
	"testing"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 0.0000001

const WGS84X = 10.0
const WGS84Y = 20.0
const WebMercX = 1.1131949077777779e+06
const WebMercY = 2.2730309266712805e+06

func TestProjForward(t *testing.T) {
	to := Proj(&WGS84, &WebMercator, orb.Point{WGS84X, WGS84Y})
	wantX := WebMercX
	wantY := WebMercY

	if math.Abs(to.X()-wantX) > epsilon {
		t.Fatalf("want %v ; got %v", wantX, to.X())
	}
	if math.Abs(to.Y()-wantY) > epsilon {
		t.Fatalf("want %v ; got %v", wantY, to.Y())
	}
}

func TestProjInverse(t *testing.T) {
	to := Proj(&WebMercator, &WGS84, orb.Point{WebMercX, WebMercY})
	wantX := WGS84X
	wantY := WGS84Y

	if math.Abs(to.X()-wantX) > epsilon {
		t.Fatalf("want %v ; got %v", wantX, to.X())
	}
	if math.Abs(to.Y()-wantY) > epsilon {
		t.Fatalf("want %v ; got %v", wantY, to.Y())
	}
}

func TestProjGeometryLeavesInputAlone(t *testing.T) {
	ring := orb.Ring{{0, 0}, {10, 0}, {10, 20}, {0, 0}}
	poly := orb.Polygon{ring}
	out := ProjGeometry(&WGS84, &WebMercator, poly).(orb.Polygon)

	assert.Equal(t, orb.Point{10, 20}, poly[0][2])
	assert.InDelta(t, WebMercX, out[0][2].X(), epsilon)
	assert.InDelta(t, WebMercY, out[0][2].Y(), epsilon)
	assert.Nil(t, ProjGeometry(&WGS84, &WebMercator, nil))
}

func TestProjBound(t *testing.T) {
	b := ProjBound(&WGS84, &WebMercator, orb.Bound{Min: orb.Point{-10, -20}, Max: orb.Point{10, 20}})
	assert.InDelta(t, -WebMercX, b.Min.X(), epsilon)
	assert.InDelta(t, -WebMercY, b.Min.Y(), epsilon)
	assert.InDelta(t, WebMercX, b.Max.X(), epsilon)
	assert.InDelta(t, WebMercY, b.Max.Y(), epsilon)
}

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{
		"EPSG:3857": "EPSG:3857",
		"epsg:4326": "EPSG:4326",
		" EPSG:2056 ": "EPSG:2056",
		"urn:ogc:def:crs:EPSG::3857":                 "EPSG:3857",
		"http://www.opengis.net/def/crs/EPSG/0/4326": "EPSG:4326",
		"urn:ogc:def:crs:OGC:1.3:CRS84":              "CRS:84",
		"OGC:84":                                     "CRS:84",
	} {
		got, err := Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "3857", "EPSG:", "a:b:c"} {
		_, err := Normalize(bad)
		assert.Equal(t, mfp.ErrUnknownProjection, errors.Cause(err), bad)
	}
}

func TestParseBuiltins(t *testing.T) {
	c, err := Parse("EPSG:900913")
	require.NoError(t, err)
	assert.Same(t, &EPSG3857, c)
	assert.True(t, c.IsPseudoMercator())
	assert.False(t, c.IsGeographic())
	assert.Equal(t, units.M, c.LinearUnit())

	c, err = Parse("epsg:4326")
	require.NoError(t, err)
	assert.True(t, c.IsGeographic())
	assert.True(t, c.LatitudeFirst)
	assert.Equal(t, units.DEGREES, c.LinearUnit())

	c, err = Parse("CRS:84")
	require.NoError(t, err)
	assert.False(t, c.LatitudeFirst)
	assert.Equal(t, "CRS:84", c.String())

	_, err = Parse("FOO:12")
	assert.Equal(t, mfp.ErrUnknownProjection, errors.Cause(err))
	_, err = Parse("EPSG:abc")
	assert.Equal(t, mfp.ErrUnknownProjection, errors.Cause(err))
}

func TestParseFromRepository(t *testing.T) {
	c, err := Parse("EPSG:32632")
	if err != nil {
		t.Skipf("UTM 32N not available from the EPSG repository: %v", err)
	}
	assert.Equal(t, "EPSG:32632", c.EPSG)
	assert.Equal(t, units.M, c.Unit)
	assert.False(t, c.IsGeographic())

	p := FromWGS84(c, orb.Point{9, 0})
	assert.InDelta(t, 500000, p.X(), 0.01)
	assert.InDelta(t, 0, p.Y(), 0.01)

	back := ToWGS84(c, p)
	assert.InDelta(t, 9, back.X(), 1e-7)

	again, err := Parse("urn:ogc:def:crs:EPSG::32632")
	require.NoError(t, err)
	assert.Same(t, c, again)
}
