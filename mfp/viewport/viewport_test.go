package viewport

import (
	"math"
	"testing"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/bounds"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
)

func bbox(t *testing.T, minX, minY, maxX, maxY float64) *bounds.BBox {
	t.Helper()
	b, err := bounds.NewBBox(&coordsys.WebMercator, minX, minY, maxX, maxY, false)
	require.NoError(t, err)
	return b
}

func apply(m matrix.Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func TestNew(t *testing.T) {
	v, err := New(bbox(t, 0, 0, 200, 100), bounds.PaintArea{Width: 200, Height: 100}, Options{DPI: 300})
	require.NoError(t, err)
	assert.Equal(t, 300.0, v.DPI())
	assert.Equal(t, 300.0, v.RequestorDPI())
	assert.False(t, v.ForceLongitudeFirst())
	assert.False(t, v.DPISensitiveStyle())
	assert.Nil(t, v.Parent())
	assert.Same(t, v, v.Root())

	size := bounds.PaintArea{Width: 10, Height: 10}
	for _, tc := range []struct {
		b    bounds.MapBounds
		size bounds.PaintArea
		opts Options
	}{
		{nil, size, Options{DPI: 72}},
		{bbox(t, 0, 0, 1, 1), bounds.PaintArea{}, Options{DPI: 72}},
		{bbox(t, 0, 0, 1, 1), size, Options{}},
		{bbox(t, 0, 0, 1, 1), size, Options{DPI: 72, Rotation: math.NaN()}},
		{bbox(t, 0, 0, 1, 1), size, Options{DPI: 72, RequestorDPI: -1}},
	} {
		_, err := New(tc.b, tc.size, tc.opts)
		assert.Equal(t, mfp.ErrInvalidInput, errors.Cause(err), "%+v", tc)
	}
}

func TestChild(t *testing.T) {
	opts := Options{Rotation: 0.3, DPI: 150, RequestorDPI: 96, ForceLongitudeFirst: true, DPISensitiveStyle: true}
	parent, err := New(bbox(t, 0, 0, 200, 100), bounds.PaintArea{Width: 200, Height: 100}, opts)
	require.NoError(t, err)

	child, err := parent.Child(bbox(t, -100, -100, 300, 200), bounds.PaintArea{Width: 50, Height: 50})
	require.NoError(t, err)
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, 0.3, child.Rotation())
	assert.Equal(t, 150.0, child.DPI())
	assert.Equal(t, 96.0, child.RequestorDPI())
	assert.True(t, child.ForceLongitudeFirst())
	assert.True(t, child.DPISensitiveStyle())

	grandChild, err := child.Child(bbox(t, 0, 0, 1, 1), bounds.PaintArea{Width: 5, Height: 5})
	require.NoError(t, err)
	assert.Same(t, parent, grandChild.Root())

	// the parent is left alone
	assert.Equal(t, bounds.PaintArea{Width: 200, Height: 100}, parent.PaintArea())
	assert.Nil(t, parent.Parent())
}

func TestRotatedMapSize(t *testing.T) {
	v, _ := New(bbox(t, 0, 0, 200, 100), bounds.PaintArea{Width: 200, Height: 100}, Options{DPI: 72, Rotation: math.Pi / 2})
	assert.Equal(t, bounds.PaintArea{Width: 100, Height: 200}, v.RotatedMapSize())
	precise := v.RotatedMapSizePrecise()
	assert.InDelta(t, 100, precise.Dx(), 1e-9)
	assert.InDelta(t, 200, precise.Dy(), 1e-9)

	v, _ = New(bbox(t, 0, 0, 101, 37), bounds.PaintArea{Width: 101, Height: 37}, Options{DPI: 72, Rotation: 30 * geo.DegreeToRadian})
	assert.Equal(t, bounds.PaintArea{Width: 106, Height: 83}, v.RotatedMapSize())
}

func TestTransform(t *testing.T) {
	v, _ := New(bbox(t, 0, 0, 200, 100), bounds.PaintArea{Width: 200, Height: 100}, Options{DPI: 72})
	m, ok := v.Transform()
	assert.False(t, ok)
	assert.Equal(t, matrix.Identity, m)

	v, _ = New(bbox(t, 0, 0, 200, 100), bounds.PaintArea{Width: 200, Height: 100}, Options{DPI: 72, Rotation: math.Pi / 2})
	m, ok = v.Transform()
	require.True(t, ok)
	x, y := apply(m, 50, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	v, _ = New(bbox(t, 0, 0, 640, 480), bounds.PaintArea{Width: 640, Height: 480}, Options{DPI: 72, Rotation: 0.7})
	m, _ = v.Transform()
	r := v.RotatedMapSize()
	x, y = apply(m, float64(r.Width)/2, float64(r.Height)/2)
	assert.InDelta(t, 320, x, 1e-9)
	assert.InDelta(t, 240, y, 1e-9)
}

func TestRotatedBoundsForPaintArea(t *testing.T) {
	// one projection unit per pixel, so the envelope follows the pixels
	v, _ := New(bbox(t, 0, 0, 101, 37), bounds.PaintArea{Width: 101, Height: 37}, Options{DPI: 72, Rotation: 30 * geo.DegreeToRadian})

	rotated, err := v.RotatedBounds()
	require.NoError(t, err)
	env, _ := rotated.ToEnvelope(v.PaintArea(), 72)
	assert.InDelta(t, 105.9686, env.Width(), 1e-4)

	adjusted, err := v.RotatedBoundsForPaintArea()
	require.NoError(t, err)
	env, _ = adjusted.ToEnvelope(v.PaintArea(), 72)
	assert.InDelta(t, 106, env.Width(), 1e-9)
	assert.InDelta(t, 83, env.Height(), 1e-9)
	assert.InDelta(t, 50.5, env.Center().X(), 1e-9)
	assert.InDelta(t, 18.5, env.Center().Y(), 1e-9)

	cs, _ := bounds.NewCenterScale(&coordsys.WebMercator, 0, 0, scale.Scale{Denominator: 1000, Unit: units.M, DPI: 72}, false)
	v, _ = New(cs, bounds.PaintArea{Width: 101, Height: 37}, Options{DPI: 72, Rotation: 1})
	adjusted, err = v.RotatedBoundsForPaintArea()
	require.NoError(t, err)
	assert.Same(t, cs, adjusted)
}

func TestRoundScale(t *testing.T) {
	for in, want := range map[float64]float64{
		123456: 120000,
		25000:  25000,
		1234:   1200,
		155:    160,
		100:    100,
		99.6:   100,
		42.2:   42,
		1.4:    1,
		1:      1,
		0.75:   0.75,
		0.4:    0.4,
	} {
		assert.Equal(t, want, RoundScale(in), "%v", in)
	}
}

func TestRoundedScaleDenominator(t *testing.T) {
	width := 123456.0 * 200 / 72 * 0.0254
	v, _ := New(bbox(t, 0, 0, width, width/2), bounds.PaintArea{Width: 200, Height: 100}, Options{DPI: 72})
	s, err := v.Scale()
	require.NoError(t, err)
	assert.InEpsilon(t, 123456, s.Denominator, 1e-9)
	den, err := v.RoundedScaleDenominator(false)
	require.NoError(t, err)
	assert.Equal(t, 120000.0, den)

	center := coordsys.WebMercator.Forward(orb.Point{10, 60})
	cs, _ := bounds.NewCenterScale(&coordsys.WebMercator, center.X(), center.Y(), scale.Scale{Denominator: 48000, DPI: 72}, true)
	v, _ = New(cs, bounds.PaintArea{Width: 200, Height: 100}, Options{DPI: 72})
	den, err = v.RoundedScaleDenominator(false)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, den)
	den, err = v.RoundedScaleDenominator(true)
	require.NoError(t, err)
	assert.Equal(t, 24000.0, den)
}
