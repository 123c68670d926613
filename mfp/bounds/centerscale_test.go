package bounds

import (
	"math"
	"testing"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"
	"github.com/mapfish/mapfish-print-sub001/mfp/zoom"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func centerScale(t *testing.T, proj *coordsys.C, x, y, den float64, useGeodetic bool) *CenterScale {
	t.Helper()
	s, err := scale.New(den, proj.Unit, 72)
	require.NoError(t, err)
	c, err := NewCenterScale(proj, x, y, s, useGeodetic)
	require.NoError(t, err)
	return c
}

func TestNewCenterScale(t *testing.T) {
	c := centerScale(t, &coordsys.WebMercator, 1000, 2000, 25000, false)
	assert.Equal(t, orb.Point{1000, 2000}, c.Center())
	assert.Contains(t, c.String(), "1:25000")

	_, err := NewCenterScale(&coordsys.WebMercator, math.NaN(), 0, scale.Scale{Denominator: 1, DPI: 72}, false)
	assert.Equal(t, mfp.ErrInvalidInput, errors.Cause(err))
	_, err = NewCenterScale(&coordsys.WebMercator, 0, 0, scale.Scale{Denominator: 0, DPI: 72}, false)
	assert.Equal(t, mfp.ErrInvalidScale, errors.Cause(err))
}

func TestCenterScaleLinearEnvelope(t *testing.T) {
	c := centerScale(t, &coordsys.WebMercator, 1000, 2000, 25000, false)
	env, err := c.ToEnvelope(PaintArea{720, 360}, 72)
	require.NoError(t, err)
	// 10 in x 5 in of paper at 1:25000
	assertEnvelope(t, geo.EnvelopeAround(orb.Point{1000, 2000}, 25000*10*0.0254/2, 25000*5*0.0254/2), env, 1e-6)

	adjusted, err := c.AdjustedEnvelope(PaintArea{720, 360})
	require.NoError(t, err)
	assert.Equal(t, env, adjusted)

	_, err = c.ToEnvelope(PaintArea{720, -1}, 72)
	assert.Equal(t, mfp.ErrInvalidInput, errors.Cause(err))
	_, err = c.ToEnvelope(PaintArea{720, 360}, math.NaN())
	assert.Equal(t, mfp.ErrInvalidInput, errors.Cause(err))
}

func TestRoundTrip(t *testing.T) {
	for _, paint := range []PaintArea{{800, 600}, {100, 400}, {1, 1}} {
		for _, den := range []float64{500, 25000, 1e6} {
			c := centerScale(t, &coordsys.WebMercator, 1000, -2000, den, false)
			env, err := c.ToEnvelope(paint, 96)
			require.NoError(t, err)
			b, err := NewBBoxFromEnvelope(c.Projection(), env, false)
			require.NoError(t, err)
			s, err := b.Scale(paint, 96)
			require.NoError(t, err)
			assert.InEpsilon(t, den, s.Denominator, 1e-6, "%v at %v", den, paint)
		}
	}
}

func TestRoundTripGeographic(t *testing.T) {
	c := centerScale(t, &coordsys.WGS84, 7, 45, 50000, false)
	paint := PaintArea{600, 400}
	env, err := c.ToEnvelope(paint, 72)
	require.NoError(t, err)
	b, err := NewBBoxFromEnvelope(c.Projection(), env, false)
	require.NoError(t, err)
	s, err := b.Scale(paint, 72)
	require.NoError(t, err)
	assert.InEpsilon(t, 50000, s.Denominator, 1e-4)
}

func TestGeodeticBBox(t *testing.T) {
	// one degree of longitude at the equator on 100 px
	den := 111319.4908 / 0.0254 * 72 / 100
	c := centerScale(t, &coordsys.WGS84, 20, 0, den, false)
	env, err := c.ToEnvelope(PaintArea{100, 100}, 72)
	require.NoError(t, err)
	assert.InDelta(t, 19.5, env.MinX, 1e-6)
	assert.InDelta(t, 20.5, env.MaxX, 1e-6)
	// meridian degrees are shorter near the equator
	assert.InDelta(t, 1.0067, env.Height(), 1e-3)
	assert.InDelta(t, 0, env.Center().Y(), 1e-9)
}

func TestGeodeticBBoxAntimeridian(t *testing.T) {
	den := 111319.4908 / 0.0254 * 72 / 100
	c := centerScale(t, &coordsys.WGS84, 179.9, 0, den, false)
	env, err := c.ToEnvelope(PaintArea{100, 100}, 72)
	require.NoError(t, err)
	assert.InDelta(t, 179.4, env.MinX, 1e-6)
	assert.InDelta(t, 180.4, env.MaxX, 1e-6)

	c = centerScale(t, &coordsys.WGS84, -179.9, 0, den, false)
	env, err = c.ToEnvelope(PaintArea{100, 100}, 72)
	require.NoError(t, err)
	assert.InDelta(t, -180.4, env.MinX, 1e-6)
	assert.InDelta(t, -179.4, env.MaxX, 1e-6)
}

func TestGeodeticBBoxOverPole(t *testing.T) {
	c := centerScale(t, &coordsys.WGS84, 0, 89.99, 1e8, false)
	_, err := c.ToEnvelope(PaintArea{100, 100}, 72)
	assert.Equal(t, mfp.ErrLatitudeOutOfRange, errors.Cause(err))

	c = centerScale(t, &coordsys.WGS84, 0, 91, 1000, false)
	_, err = c.ToEnvelope(PaintArea{100, 100}, 72)
	assert.Equal(t, mfp.ErrLatitudeOutOfRange, errors.Cause(err))
}

func TestGeodeticBBoxInPseudoMercator(t *testing.T) {
	center := coordsys.WebMercator.Forward(orb.Point{10, 60})
	paint := PaintArea{500, 300}
	ground := 25000.0 * 500 / 72 * 0.0254

	plain := centerScale(t, &coordsys.WebMercator, center.X(), center.Y(), 25000, false)
	env, err := plain.ToEnvelope(paint, 72)
	require.NoError(t, err)
	assert.InEpsilon(t, ground, env.Width(), 1e-9)

	corrected := centerScale(t, &coordsys.WebMercator, center.X(), center.Y(), 25000, true)
	env, err = corrected.ToEnvelope(paint, 72)
	require.NoError(t, err)
	// about twice the ground size at 60°N
	assert.InEpsilon(t, 2*ground/1.0025, env.Width(), 0.01)
	assert.InEpsilon(t, env.Width()*300/500, env.Height(), 0.01)
	assert.InDelta(t, center.X(), env.Center().X(), 1e-6)
	assert.InDelta(t, center.Y(), env.Center().Y(), 1e-6)

	// the geodetic scale of that envelope is the requested one
	b, err := NewBBoxFromEnvelope(&coordsys.WebMercator, env, true)
	require.NoError(t, err)
	s, err := b.Scale(paint, 72)
	require.NoError(t, err)
	assert.InEpsilon(t, 25000, s.Denominator, 0.005)
}

func TestGeodeticBBoxInPseudoMercatorBeyondPole(t *testing.T) {
	center := coordsys.WebMercator.Forward(orb.Point{10, 84})
	c := centerScale(t, &coordsys.WebMercator, center.X(), center.Y(), 5e6, true)
	_, err := c.ToEnvelope(PaintArea{800, 600}, 72)
	assert.Equal(t, mfp.ErrGeodetic, errors.Cause(err))

	// without geodetic corrections the envelope stays linear
	c = centerScale(t, &coordsys.WebMercator, center.X(), center.Y(), 5e6, false)
	_, err = c.ToEnvelope(PaintArea{800, 600}, 72)
	assert.NoError(t, err)
}

func TestCenterScaleRotation(t *testing.T) {
	c := centerScale(t, &coordsys.WebMercator, 1, 2, 1000, false)
	for _, rot := range []float64{0, 1, math.Pi} {
		same, err := c.AdjustBoundsToRotation(rot)
		require.NoError(t, err)
		assert.Same(t, c, same)
	}
}

func TestCenterScaleZoomOut(t *testing.T) {
	c := centerScale(t, &coordsys.WebMercator, 1, 2, 1000, false)
	same, err := c.ZoomOut(1)
	require.NoError(t, err)
	assert.Same(t, c, same)

	for _, factor := range []float64{0.5, 2, 10} {
		out, err := c.ZoomOut(factor)
		require.NoError(t, err)
		assert.Equal(t, c.Center(), out.Center())
		s, _ := out.Scale(PaintArea{1, 1}, 72)
		assert.InEpsilon(t, 1000*factor, s.Denominator, 1e-9)
	}
	_, err = c.ZoomOut(-2)
	assert.Equal(t, mfp.ErrInvalidInput, errors.Cause(err))
}

func TestCenterScaleZoomToScale(t *testing.T) {
	c := centerScale(t, &coordsys.WGS84, 1, 2, 1000, false)
	zoomed, err := c.ZoomToScale(scale.Scale{Denominator: 5000, Unit: units.M, DPI: 300})
	require.NoError(t, err)
	assert.Equal(t, c.Center(), zoomed.Center())
	s, _ := zoomed.Scale(PaintArea{1, 1}, 72)
	assert.Equal(t, scale.Scale{Denominator: 5000, Unit: units.DEGREES, DPI: 300}, s)
}

func TestCenterScaleNearestScale(t *testing.T) {
	levels := zoom.New(5000, 10000, 25000, 50000, 100000, 500000)
	paint := PaintArea{100, 100}
	center := coordsys.WebMercator.Forward(orb.Point{10, 60})
	c := centerScale(t, &coordsys.WebMercator, center.X(), center.Y(), 48000, true)

	snapped, err := c.AdjustBoundsToNearestScale(levels, 0.05, zoom.ClosestLowerOnTie, false, paint, 72)
	require.NoError(t, err)
	s, _ := snapped.Scale(paint, 72)
	assert.Equal(t, 50000.0, s.Denominator)
	assert.Equal(t, c.Center(), snapped.Center())

	// 1:48000 at 60°N is about 1:24000 on the ground
	nominal, _ := c.Scale(paint, 72)
	ground, err := nominal.GeodeticDenominator(&coordsys.WebMercator, 72, center)
	require.NoError(t, err)
	snapped, err = c.AdjustBoundsToNearestScale(levels, 0.05, zoom.ClosestLowerOnTie, true, paint, 72)
	require.NoError(t, err)
	s, _ = snapped.Scale(paint, 72)
	assert.InEpsilon(t, 25000*48000/ground, s.Denominator, 1e-9)
	assert.Equal(t, c.Center(), snapped.Center())
}
