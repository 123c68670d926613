// Package bounds resolves what a map shows: either an explicit bounding box
// or a center with a scale, realised into an envelope for a given paint area.
package bounds

import (
	"math"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/log"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/zoom"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

var tracer = log.GetTracer("bounds")

// PaintArea is the size of the map on the page, in pixels at the render DPI.
type PaintArea struct {
	Width  int
	Height int
}

func (p PaintArea) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return errors.Wrapf(mfp.ErrInvalidInput, "paint area %dx%d", p.Width, p.Height)
	}
	return nil
}

// MapBounds is implemented by *BBox and *CenterScale only. Values are
// immutable, every operation returns a new value or the receiver itself.
type MapBounds interface {
	Projection() *coordsys.C
	Center() orb.Point
	// ToEnvelope realises the bounds for a paint area printed at dpi.
	ToEnvelope(paint PaintArea, dpi float64) (geo.Envelope, error)
	// AdjustedEnvelope is the envelope with the aspect ratio of paint.
	AdjustedEnvelope(paint PaintArea) (geo.Envelope, error)
	Scale(paint PaintArea, dpi float64) (scale.Scale, error)
	// AdjustBoundsToRotation makes room for the map rotated by rotation
	// radians.
	AdjustBoundsToRotation(rotation float64) (MapBounds, error)
	ZoomOut(factor float64) (MapBounds, error)
	ZoomToScale(s scale.Scale) (MapBounds, error)
	AdjustBoundsToNearestScale(levels zoom.ZoomLevels, tolerance float64, strategy zoom.SnapStrategy,
		geodetic bool, paint PaintArea, dpi float64) (MapBounds, error)
	UseGeodetic() bool
	String() string

	sealed()
}

type common struct {
	proj        *coordsys.C
	useGeodetic bool
}

func newCommon(proj *coordsys.C, useGeodetic bool) (common, error) {
	if proj == nil {
		return common{}, errors.Wrap(mfp.ErrInvalidInput, "no projection")
	}
	return common{proj: proj, useGeodetic: useGeodetic}, nil
}

func (c common) Projection() *coordsys.C {
	return c.proj
}

// UseGeodetic tells whether pseudo-Mercator distances are measured on the
// ellipsoid.
func (c common) UseGeodetic() bool {
	return c.useGeodetic
}

// geodeticWidth is true when ground widths must be measured on the
// ellipsoid instead of converted linearly.
func (c common) geodeticWidth() bool {
	return c.proj.IsGeographic() || (c.proj.IsPseudoMercator() && c.useGeodetic)
}

func checkFactor(factor float64) error {
	if !geo.Finite(factor) || factor <= 0 {
		return errors.Wrapf(mfp.ErrInvalidInput, "zoom factor %v", factor)
	}
	return nil
}

func checkDPI(dpi float64) error {
	if !geo.Finite(dpi) || dpi <= 0 {
		return errors.Wrapf(mfp.ErrInvalidInput, "dpi %v", dpi)
	}
	return nil
}

// nearestScale snaps the scale of b onto levels and returns a CenterScale at
// the center of b. With geodetic, the ladder is matched against the
// geodetic denominator and the nominal/geodetic ratio is applied back to the
// winning level.
func nearestScale(b MapBounds, levels zoom.ZoomLevels, tolerance float64, strategy zoom.SnapStrategy,
	geodetic bool, paint PaintArea, dpi float64) (MapBounds, error) {
	if err := levels.Validate(); err != nil {
		return nil, err
	}
	current, err := b.Scale(paint, dpi)
	if err != nil {
		return nil, err
	}
	target := current
	ratio := 1.0
	if geodetic {
		den, err := current.GetDenominator(true, b.Projection(), dpi, b.Center())
		if err != nil {
			return nil, err
		}
		ratio = current.Denominator / den
		if target, err = current.WithDenominator(den); err != nil {
			return nil, err
		}
	}
	found, err := strategy.Search(target, tolerance, levels)
	if err != nil {
		return nil, err
	}
	snapped, err := scale.New(found.Denominator()*ratio, b.Projection().Unit, current.DPI)
	if err != nil {
		return nil, err
	}
	tracer.Logf("nearest scale of %v: %v (ratio %v)", b, snapped, ratio)
	center := b.Center()
	return NewCenterScale(b.Projection(), center.X(), center.Y(), snapped, b.UseGeodetic())
}

// RotatedSize is the size of the axis aligned box around a w x h rectangle
// rotated by rotation radians.
func RotatedSize(w, h, rotation float64) (float64, float64) {
	cos := math.Abs(math.Cos(rotation))
	sin := math.Abs(math.Sin(rotation))
	return w*cos + h*sin, h*cos + w*sin
}
