// Package viewport combines map bounds with the render context of one map
// on the page: its pixel size, rotation and DPI.
package viewport

import (
	"math"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/bounds"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// Options of a viewport that a derived viewport inherits.
type Options struct {
	// Rotation in radians.
	Rotation float64
	DPI      float64
	// RequestorDPI is the DPI the client computed its bounds for; the
	// render DPI when zero.
	RequestorDPI        float64
	ForceLongitudeFirst bool
	DPISensitiveStyle   bool
}

// Viewport is read-only once built. The parent is only kept to be looked
// at.
type Viewport struct {
	bounds bounds.MapBounds
	size   bounds.PaintArea
	opts   Options
	parent *Viewport
}

func New(b bounds.MapBounds, size bounds.PaintArea, opts Options) (*Viewport, error) {
	if b == nil {
		return nil, errors.Wrap(mfp.ErrInvalidInput, "no map bounds")
	}
	if err := size.Validate(); err != nil {
		return nil, err
	}
	if !geo.Finite(opts.Rotation) {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "rotation %v", opts.Rotation)
	}
	if !geo.Finite(opts.DPI) || opts.DPI <= 0 {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "dpi %v", opts.DPI)
	}
	if opts.RequestorDPI == 0 {
		opts.RequestorDPI = opts.DPI
	}
	if !geo.Finite(opts.RequestorDPI) || opts.RequestorDPI < 0 {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "requestor dpi %v", opts.RequestorDPI)
	}
	return &Viewport{bounds: b, size: size, opts: opts}, nil
}

// Child derives a viewport, an overview map for instance, with the options
// of v.
func (v *Viewport) Child(b bounds.MapBounds, size bounds.PaintArea) (*Viewport, error) {
	var opts Options
	if err := copier.Copy(&opts, &v.opts); err != nil {
		return nil, err
	}
	child, err := New(b, size, opts)
	if err != nil {
		return nil, err
	}
	child.parent = v
	return child, nil
}

func (v *Viewport) Bounds() bounds.MapBounds {
	return v.bounds
}

func (v *Viewport) Parent() *Viewport {
	return v.parent
}

// Root is the viewport at the top of the parent chain.
func (v *Viewport) Root() *Viewport {
	root := v
	for root.parent != nil {
		root = root.parent
	}
	return root
}

func (v *Viewport) Rotation() float64 {
	return v.opts.Rotation
}

func (v *Viewport) DPI() float64 {
	return v.opts.DPI
}

func (v *Viewport) RequestorDPI() float64 {
	return v.opts.RequestorDPI
}

func (v *Viewport) ForceLongitudeFirst() bool {
	return v.opts.ForceLongitudeFirst
}

func (v *Viewport) DPISensitiveStyle() bool {
	return v.opts.DPISensitiveStyle
}

// PaintArea is the unrotated size.
func (v *Viewport) PaintArea() bounds.PaintArea {
	return v.size
}

// RotatedMapSizePrecise is the box around the rotated paint area.
func (v *Viewport) RotatedMapSizePrecise() rect.Rect {
	w, h := bounds.RotatedSize(float64(v.size.Width), float64(v.size.Height), v.opts.Rotation)
	return rect.Rect{URx: w, URy: h}
}

// RotatedMapSize is RotatedMapSizePrecise rounded to whole pixels.
func (v *Viewport) RotatedMapSize() bounds.PaintArea {
	r := v.RotatedMapSizePrecise()
	return bounds.PaintArea{Width: int(math.Round(r.Dx())), Height: int(math.Round(r.Dy()))}
}

// Transform maps the rotated map canvas onto the paint area: the center of
// the rotated canvas lands on the center of the paint area. The second
// result is false when there is no rotation.
func (v *Viewport) Transform() (matrix.Matrix, bool) {
	if geo.NearlyZero(v.opts.Rotation) {
		return matrix.Identity, false
	}
	rotated := v.RotatedMapSize()
	cos, sin := math.Cos(v.opts.Rotation), math.Sin(v.opts.Rotation)
	halfW, halfH := float64(v.size.Width)/2, float64(v.size.Height)/2
	halfRW, halfRH := float64(rotated.Width)/2, float64(rotated.Height)/2
	return matrix.Matrix{
		cos, sin,
		-sin, cos,
		halfW - (cos*halfRW - sin*halfRH),
		halfH - (sin*halfRW + cos*halfRH),
	}, true
}

// RotatedBounds makes room in the bounds for the rotation.
func (v *Viewport) RotatedBounds() (bounds.MapBounds, error) {
	return v.bounds.AdjustBoundsToRotation(v.opts.Rotation)
}

// RotatedBoundsForPaintArea is RotatedBounds grown by the rounding of
// RotatedMapSize, so envelope and pixels keep the same ratio.
func (v *Viewport) RotatedBoundsForPaintArea() (bounds.MapBounds, error) {
	rotated, err := v.RotatedBounds()
	if err != nil {
		return nil, err
	}
	switch b := rotated.(type) {
	case *bounds.CenterScale:
		return b, nil
	case *bounds.BBox:
		precise := v.RotatedMapSizePrecise()
		rounded := v.RotatedMapSize()
		env := b.Envelope()
		widthRatio := float64(rounded.Width) / precise.Dx()
		heightRatio := float64(rounded.Height) / precise.Dy()
		env = env.ExpandBy(
			(env.Width()*widthRatio-env.Width())/2,
			(env.Height()*heightRatio-env.Height())/2)
		return bounds.NewBBoxFromEnvelope(b.Projection(), env, b.UseGeodetic())
	}
	return nil, errors.Wrapf(mfp.ErrInvalidBounds, "unexpected bounds %v", rotated)
}

func (v *Viewport) Scale() (scale.Scale, error) {
	return v.bounds.Scale(v.size, v.opts.DPI)
}

// RoundedScaleDenominator is the denominator shown to the user.
func (v *Viewport) RoundedScaleDenominator(geodetic bool) (float64, error) {
	s, err := v.Scale()
	if err != nil {
		return 0, err
	}
	den, err := s.GetDenominator(geodetic, v.bounds.Projection(), v.opts.DPI, v.bounds.Center())
	if err != nil {
		return 0, err
	}
	return RoundScale(den), nil
}

// RoundScale keeps two significant digits: 123456 -> 120000. Values up to
// 100 are rounded to an integer, values up to 1 are kept.
func RoundScale(den float64) float64 {
	if den <= 1 {
		return den
	}
	if den <= 100 {
		return math.Round(den)
	}
	p := math.Pow(10, math.Floor(math.Log10(den))-1)
	return math.Round(den/p) * p
}
