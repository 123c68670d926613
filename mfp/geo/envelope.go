package geo

import (
	"fmt"

	"github.com/mapfish/mapfish-print-sub001/mfp"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Envelope is an axis aligned rectangle in the units of a projection.
type Envelope struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewEnvelope checks that all values are finite and min <= max. Zero area
// envelopes are accepted.
func NewEnvelope(minX, minY, maxX, maxY float64) (Envelope, error) {
	e := Envelope{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	return e, e.Validate()
}

// EnvelopeAround builds the envelope of the given half sizes around center.
func EnvelopeAround(center orb.Point, halfWidth, halfHeight float64) Envelope {
	return Envelope{
		MinX: center.X() - halfWidth,
		MinY: center.Y() - halfHeight,
		MaxX: center.X() + halfWidth,
		MaxY: center.Y() + halfHeight,
	}
}

func EnvelopeFromBound(b orb.Bound) Envelope {
	return Envelope{MinX: b.Min.X(), MinY: b.Min.Y(), MaxX: b.Max.X(), MaxY: b.Max.Y()}
}

func (e Envelope) Validate() error {
	if !Finite(e.MinX, e.MinY, e.MaxX, e.MaxY) {
		return errors.Wrapf(mfp.ErrInvalidBounds, "non finite envelope %v", e)
	}
	if e.MinX > e.MaxX || e.MinY > e.MaxY {
		return errors.Wrapf(mfp.ErrInvalidBounds, "min greater than max in %v", e)
	}
	return nil
}

func (e Envelope) Width() float64 {
	return e.MaxX - e.MinX
}

func (e Envelope) Height() float64 {
	return e.MaxY - e.MinY
}

func (e Envelope) Center() orb.Point {
	return orb.Point{(e.MinX + e.MaxX) / 2, (e.MinY + e.MaxY) / 2}
}

// HasArea is false when the width or the height is zero.
func (e Envelope) HasArea() bool {
	return e.Width() > 0 && e.Height() > 0
}

// ExpandBy grows the envelope by dx on the left and on the right and by dy
// at the bottom and at the top.
func (e Envelope) ExpandBy(dx, dy float64) Envelope {
	return Envelope{MinX: e.MinX - dx, MinY: e.MinY - dy, MaxX: e.MaxX + dx, MaxY: e.MaxY + dy}
}

// Resize keeps the center and sets the size.
func (e Envelope) Resize(width, height float64) Envelope {
	return EnvelopeAround(e.Center(), width/2, height/2)
}

func (e Envelope) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.MinX, e.MinY}, Max: orb.Point{e.MaxX, e.MaxY}}
}

// NearlyEqual compares every ordinate with the absolute tolerance tol.
func (e Envelope) NearlyEqual(o Envelope, tol float64) bool {
	return abs(e.MinX-o.MinX) <= tol && abs(e.MinY-o.MinY) <= tol &&
		abs(e.MaxX-o.MaxX) <= tol && abs(e.MaxY-o.MaxY) <= tol
}

func (e Envelope) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", e.MinX, e.MinY, e.MaxX, e.MaxY)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
