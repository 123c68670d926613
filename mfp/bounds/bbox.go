package bounds

import (
	"fmt"
	"math"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"
	"github.com/mapfish/mapfish-print-sub001/mfp/zoom"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// BBox is a map extent given as an envelope in the projection.
type BBox struct {
	common
	env geo.Envelope
}

func NewBBox(proj *coordsys.C, minX, minY, maxX, maxY float64, useGeodetic bool) (*BBox, error) {
	c, err := newCommon(proj, useGeodetic)
	if err != nil {
		return nil, err
	}
	env, err := geo.NewEnvelope(minX, minY, maxX, maxY)
	if err != nil {
		return nil, err
	}
	return &BBox{common: c, env: env}, nil
}

// NewBBoxFromEnvelope is NewBBox for an existing envelope.
func NewBBoxFromEnvelope(proj *coordsys.C, env geo.Envelope, useGeodetic bool) (*BBox, error) {
	return NewBBox(proj, env.MinX, env.MinY, env.MaxX, env.MaxY, useGeodetic)
}

func (b *BBox) sealed() {}

func (b *BBox) Envelope() geo.Envelope {
	return b.env
}

func (b *BBox) Center() orb.Point {
	return b.env.Center()
}

// ToEnvelope returns the stored envelope, the paint area plays no role.
func (b *BBox) ToEnvelope(paint PaintArea, dpi float64) (geo.Envelope, error) {
	return b.env, nil
}

// AdjustedEnvelope grows the shorter side around the center until the
// envelope has the aspect ratio of paint.
func (b *BBox) AdjustedEnvelope(paint PaintArea) (geo.Envelope, error) {
	if err := paint.Validate(); err != nil {
		return b.env, err
	}
	if !b.env.HasArea() {
		return b.env, errors.Wrapf(mfp.ErrInvalidBounds, "no aspect ratio for %v", b.env)
	}
	paintRatio := float64(paint.Width) / float64(paint.Height)
	boxRatio := b.env.Width() / b.env.Height()
	if paintRatio > boxRatio {
		return b.env.Resize(b.env.Width()*paintRatio/boxRatio, b.env.Height()), nil
	}
	return b.env.Resize(b.env.Width(), b.env.Height()*boxRatio/paintRatio), nil
}

// Scale of the envelope adjusted to paint. Geographic envelopes, and
// pseudo-Mercator ones with geodetic corrections, are measured along the
// parallel through their center.
func (b *BBox) Scale(paint PaintArea, dpi float64) (scale.Scale, error) {
	if err := checkDPI(dpi); err != nil {
		return scale.Scale{}, err
	}
	env, err := b.AdjustedEnvelope(paint)
	if err != nil {
		return scale.Scale{}, err
	}
	var widthInches float64
	if b.geodeticWidth() {
		calc, err := geo.NewGeodeticCalculator(b.proj)
		if err != nil {
			return scale.Scale{}, err
		}
		dist, err := b.parallelWidth(calc, env)
		if err != nil {
			return scale.Scale{}, err
		}
		widthInches = calc.Unit().ConvertTo(dist, units.IN)
	} else {
		widthInches = b.proj.Unit.ConvertTo(env.Width(), units.IN)
	}
	return scale.New(widthInches*dpi/float64(paint.Width), b.proj.Unit, dpi)
}

// parallelWidth is the ground distance from the center of env to its west
// and to its east edge, along the parallel through the center. Each half is
// walked in steps of at most a quarter of the world so that every distance
// is taken the intended way round.
func (b *BBox) parallelWidth(calc *geo.GeodeticCalculator, env geo.Envelope) (float64, error) {
	quarter := b.proj.Forward(orb.Point{90, 0}).X() - b.proj.Forward(orb.Point{0, 0}).X()
	if !geo.Finite(quarter) || quarter <= 0 {
		return 0, errors.Wrapf(mfp.ErrGeodetic, "no world width for %v", b.proj)
	}
	center := env.Center()
	var total float64
	for _, edge := range []float64{env.MinX, env.MaxX} {
		span := edge - center.X()
		n := math.Ceil(math.Abs(span) / quarter)
		from := center
		for i := 1.0; i <= n; i++ {
			to := orb.Point{center.X() + span*i/n, center.Y()}
			dist, err := calc.Distance(from, to)
			if err != nil {
				return 0, err
			}
			total += dist
			from = to
		}
	}
	return total, nil
}

func (b *BBox) AdjustBoundsToRotation(rotation float64) (MapBounds, error) {
	if !geo.Finite(rotation) {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "rotation %v", rotation)
	}
	if geo.NearlyZero(rotation) {
		return b, nil
	}
	w, h := RotatedSize(b.env.Width(), b.env.Height(), rotation)
	return NewBBoxFromEnvelope(b.proj, b.env.Resize(w, h), b.useGeodetic)
}

func (b *BBox) ZoomOut(factor float64) (MapBounds, error) {
	if err := checkFactor(factor); err != nil {
		return nil, err
	}
	if geo.NearlyEqual(factor, 1) {
		return b, nil
	}
	return NewBBoxFromEnvelope(b.proj, b.env.Resize(b.env.Width()*factor, b.env.Height()*factor), b.useGeodetic)
}

// ZoomToScale drops the envelope and keeps its center.
func (b *BBox) ZoomToScale(s scale.Scale) (MapBounds, error) {
	center := b.Center()
	return NewCenterScale(b.proj, center.X(), center.Y(), s, b.useGeodetic)
}

func (b *BBox) AdjustBoundsToNearestScale(levels zoom.ZoomLevels, tolerance float64, strategy zoom.SnapStrategy,
	geodetic bool, paint PaintArea, dpi float64) (MapBounds, error) {
	return nearestScale(b, levels, tolerance, strategy, geodetic, paint, dpi)
}

func (b *BBox) String() string {
	return fmt.Sprintf("BBox(%v %v)", b.proj, b.env)
}
