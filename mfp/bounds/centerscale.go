package bounds

import (
	"fmt"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"
	"github.com/mapfish/mapfish-print-sub001/mfp/zoom"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// CenterScale is a map extent given by its center and a scale. The envelope
// depends on the paint area it is realised for.
type CenterScale struct {
	common
	center orb.Point
	scale  scale.Scale
}

// NewCenterScale validates s and expresses it in the unit of proj; a
// denominator does not depend on the unit.
func NewCenterScale(proj *coordsys.C, x, y float64, s scale.Scale, useGeodetic bool) (*CenterScale, error) {
	c, err := newCommon(proj, useGeodetic)
	if err != nil {
		return nil, err
	}
	if !geo.Finite(x, y) {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "center %v, %v", x, y)
	}
	s.Unit = proj.Unit
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &CenterScale{common: c, center: orb.Point{x, y}, scale: s}, nil
}

func (c *CenterScale) sealed() {}

func (c *CenterScale) Center() orb.Point {
	return c.center
}

// ToEnvelope computes the extent of paint at dpi around the center.
func (c *CenterScale) ToEnvelope(paint PaintArea, dpi float64) (geo.Envelope, error) {
	if err := paint.Validate(); err != nil {
		return geo.Envelope{}, err
	}
	if err := checkDPI(dpi); err != nil {
		return geo.Envelope{}, err
	}
	widthInches := c.scale.Denominator * float64(paint.Width) / dpi
	heightInches := c.scale.Denominator * float64(paint.Height) / dpi
	switch {
	case c.proj.IsGeographic():
		return c.computeGeodeticBBox(widthInches, heightInches)
	case c.proj.IsPseudoMercator() && c.useGeodetic:
		return c.computeGeodeticBBoxInPseudoMercator(widthInches, heightInches)
	}
	halfWidth := units.IN.ConvertTo(widthInches, c.proj.Unit) / 2
	halfHeight := units.IN.ConvertTo(heightInches, c.proj.Unit) / 2
	return geo.EnvelopeAround(c.center, halfWidth, halfHeight), nil
}

// steps walks half the ground width west and east and half the ground
// height south and north of the center.
func (c *CenterScale) steps(calc *geo.GeodeticCalculator, widthInches, heightInches float64) (west, east, south, north orb.Point, err error) {
	halfWidth := units.IN.ConvertTo(widthInches, calc.Unit()) / 2
	halfHeight := units.IN.ConvertTo(heightInches, calc.Unit()) / 2
	if west, err = calc.Destination(c.center, geo.West, halfWidth); err != nil {
		return
	}
	if east, err = calc.Destination(c.center, geo.East, halfWidth); err != nil {
		return
	}
	if south, err = calc.Destination(c.center, geo.South, halfHeight); err != nil {
		return
	}
	north, err = calc.Destination(c.center, geo.North, halfHeight)
	return
}

// computeGeodeticBBox steps on the ellipsoid from a longitude/latitude
// center. Longitudes are rolled into [-180, 180) unless the envelope crosses
// the antimeridian, where they stay continuous. Stepping over a pole is an
// error.
func (c *CenterScale) computeGeodeticBBox(widthInches, heightInches float64) (geo.Envelope, error) {
	calc, err := geo.NewGeodeticCalculator(c.proj)
	if err != nil {
		return geo.Envelope{}, err
	}
	if _, err := geo.RollLatitude(c.center.Y()); err != nil {
		return geo.Envelope{}, err
	}
	west, east, south, north, err := c.steps(calc, widthInches, heightInches)
	if err != nil {
		return geo.Envelope{}, err
	}
	if crossedPole(c.center, north) || crossedPole(c.center, south) ||
		north.Y() < c.center.Y() || south.Y() > c.center.Y() {
		return geo.Envelope{}, errors.Wrapf(mfp.ErrLatitudeOutOfRange,
			"%v reaches over a pole from %v", c.scale, c.center)
	}
	minY, err := geo.RollLatitude(south.Y())
	if err != nil {
		return geo.Envelope{}, err
	}
	maxY, err := geo.RollLatitude(north.Y())
	if err != nil {
		return geo.Envelope{}, err
	}

	minX := c.center.X() - geo.RollLongitude(c.center.X()-west.X())
	maxX := c.center.X() + geo.RollLongitude(east.X()-c.center.X())
	if rolledMin, rolledMax := geo.RollLongitude(minX), geo.RollLongitude(maxX); rolledMin <= rolledMax {
		minX, maxX = rolledMin, rolledMax
	}
	tracer.Logf("geodetic bbox around %v: %v %v %v %v", c.center, minX, minY, maxX, maxY)
	return geo.NewEnvelope(minX, minY, maxX, maxY)
}

// crossedPole is true when a north or south step came back on the other
// side of the globe.
func crossedPole(center, dest orb.Point) bool {
	d := geo.RollLongitude(dest.X() - center.X())
	return d > 90 || d < -90
}

// computeGeodeticBBoxInPseudoMercator steps on the ellipsoid and takes the
// mean of the opposite projected offsets as the half sizes, so the envelope
// stays centred.
func (c *CenterScale) computeGeodeticBBoxInPseudoMercator(widthInches, heightInches float64) (geo.Envelope, error) {
	calc, err := geo.NewGeodeticCalculator(c.proj)
	if err != nil {
		return geo.Envelope{}, err
	}
	west, east, south, north, err := c.steps(calc, widthInches, heightInches)
	if err != nil {
		return geo.Envelope{}, err
	}
	world := c.proj.Forward(orb.Point{180, 0}).X() - c.proj.Forward(orb.Point{-180, 0}).X()
	eastOffset := east.X() - c.center.X()
	if eastOffset < 0 {
		eastOffset += world
	}
	westOffset := c.center.X() - west.X()
	if westOffset < 0 {
		westOffset += world
	}
	halfWidth := (eastOffset + westOffset) / 2
	halfHeight := ((north.Y() - c.center.Y()) + (c.center.Y() - south.Y())) / 2
	if !geo.Finite(halfWidth, halfHeight) || halfWidth <= 0 || halfHeight <= 0 {
		return geo.Envelope{}, errors.Wrapf(mfp.ErrGeodetic, "no pseudo-Mercator envelope for %v at %v", c.scale, c.center)
	}
	tracer.Logf("pseudo-Mercator bbox around %v: %v x %v", c.center, 2*halfWidth, 2*halfHeight)
	return geo.EnvelopeAround(c.center, halfWidth, halfHeight), nil
}

// AdjustedEnvelope is the envelope at the DPI of the scale; a center and a
// scale always fit the paint area.
func (c *CenterScale) AdjustedEnvelope(paint PaintArea) (geo.Envelope, error) {
	return c.ToEnvelope(paint, c.scale.DPI)
}

// Scale returns the stored scale.
func (c *CenterScale) Scale(paint PaintArea, dpi float64) (scale.Scale, error) {
	return c.scale, nil
}

// AdjustBoundsToRotation returns c: the center does not move and the caller
// renders a larger canvas.
func (c *CenterScale) AdjustBoundsToRotation(rotation float64) (MapBounds, error) {
	if !geo.Finite(rotation) {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "rotation %v", rotation)
	}
	return c, nil
}

// ZoomOut multiplies the resolution by factor.
func (c *CenterScale) ZoomOut(factor float64) (MapBounds, error) {
	if err := checkFactor(factor); err != nil {
		return nil, err
	}
	if geo.NearlyEqual(factor, 1) {
		return c, nil
	}
	s, err := scale.FromResolution(c.scale.Resolution()*factor, c.scale.Unit, c.scale.DPI)
	if err != nil {
		return nil, err
	}
	return NewCenterScale(c.proj, c.center.X(), c.center.Y(), s, c.useGeodetic)
}

func (c *CenterScale) ZoomToScale(s scale.Scale) (MapBounds, error) {
	return NewCenterScale(c.proj, c.center.X(), c.center.Y(), s, c.useGeodetic)
}

func (c *CenterScale) AdjustBoundsToNearestScale(levels zoom.ZoomLevels, tolerance float64, strategy zoom.SnapStrategy,
	geodetic bool, paint PaintArea, dpi float64) (MapBounds, error) {
	return nearestScale(c, levels, tolerance, strategy, geodetic, paint, dpi)
}

func (c *CenterScale) String() string {
	return fmt.Sprintf("CenterScale(%v %v %v)", c.proj, c.center, c.scale)
}
