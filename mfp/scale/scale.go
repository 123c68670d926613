// Package scale holds the map scale: a denominator together with the unit
// and the DPI needed to turn it into a ground resolution and back.
package scale

import (
	"strconv"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Scale is the 1:Denominator ratio of a map whose coordinates are expressed
// in Unit, printed at DPI.
type Scale struct {
	Denominator float64
	Unit        units.DistanceUnit
	DPI         float64
}

func New(denominator float64, unit units.DistanceUnit, dpi float64) (Scale, error) {
	s := Scale{Denominator: denominator, Unit: unit, DPI: dpi}
	return s, s.Validate()
}

// FromResolution builds the scale for which one pixel covers resolution
// (in unit) on the ground.
func FromResolution(resolution float64, unit units.DistanceUnit, dpi float64) (Scale, error) {
	return New(unit.ConvertTo(resolution, units.IN)*dpi, unit, dpi)
}

func (s Scale) Validate() error {
	if !geo.Finite(s.Denominator) || s.Denominator <= 0 {
		return errors.Wrapf(mfp.ErrInvalidScale, "denominator %v", s.Denominator)
	}
	if !geo.Finite(s.DPI) || s.DPI <= 0 {
		return errors.Wrapf(mfp.ErrInvalidScale, "dpi %v", s.DPI)
	}
	return nil
}

// Resolution is the ground distance of one pixel, in Unit.
func (s Scale) Resolution() float64 {
	return units.IN.ConvertTo(s.ResolutionInInches(), s.Unit)
}

func (s Scale) ResolutionInInches() float64 {
	return s.Denominator / s.DPI
}

// ToResolution is the resolution in another unit.
func (s Scale) ToResolution(unit units.DistanceUnit) float64 {
	return units.IN.ConvertTo(s.ResolutionInInches(), unit)
}

// WithDPI keeps the ground resolution and changes the DPI.
func (s Scale) WithDPI(dpi float64) (Scale, error) {
	return FromResolution(s.Resolution(), s.Unit, dpi)
}

// WithDenominator keeps the unit and the DPI.
func (s Scale) WithDenominator(denominator float64) (Scale, error) {
	return New(denominator, s.Unit, s.DPI)
}

// GeodeticDenominator measures the ground distance across one pixel centred
// on center with the ellipsoid of proj and returns the denominator that
// distance stands for at dpi.
func (s Scale) GeodeticDenominator(proj *coordsys.C, dpi float64, center orb.Point) (float64, error) {
	if !geo.Finite(dpi) || dpi <= 0 {
		return 0, errors.Wrapf(mfp.ErrInvalidScale, "dpi %v", dpi)
	}
	calc, err := geo.NewGeodeticCalculator(proj)
	if err != nil {
		return 0, err
	}
	half := units.IN.ConvertTo(s.Denominator/dpi, s.Unit) / 2
	dist, err := calc.Distance(
		orb.Point{center.X() - half, center.Y()},
		orb.Point{center.X() + half, center.Y()})
	if err != nil {
		return 0, err
	}
	den := calc.Unit().ConvertTo(dist, units.IN) * dpi
	if !geo.Finite(den) || den <= 0 {
		return 0, errors.Wrapf(mfp.ErrGeodetic, "no ground distance for %v at %v", s, center)
	}
	return den, nil
}

// GetDenominator is the geodetic denominator when asked for and the projection
// needs it, the nominal one otherwise.
func (s Scale) GetDenominator(geodetic bool, proj *coordsys.C, dpi float64, center orb.Point) (float64, error) {
	if geodetic && proj != nil && (proj.IsGeographic() || proj.IsPseudoMercator()) {
		return s.GeodeticDenominator(proj, dpi, center)
	}
	return s.Denominator, nil
}

func (s Scale) NearlyEqual(o Scale, relTol float64) bool {
	if s.Unit != o.Unit {
		return false
	}
	return relDiff(s.Denominator, o.Denominator) <= relTol && relDiff(s.DPI, o.DPI) <= relTol
}

func relDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	if b < 0 {
		b = -b
	}
	if b == 0 {
		return d
	}
	return d / b
}

func (s Scale) String() string {
	return "1:" + strconv.FormatFloat(s.Denominator, 'f', -1, 64)
}
