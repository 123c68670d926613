// Package units contains the distance units used by projections and scales
// and the conversions between them.
package units

import (
	"math"
	"strings"

	"github.com/mapfish/mapfish-print-sub001/mfp"

	"github.com/pkg/errors"
)

// DistanceUnit is a linear or angular unit of a projection, of the paper or
// of a measured ground distance.
type DistanceUnit int

const (
	M DistanceUnit = iota
	MM
	CM
	KM
	IN
	FT
	YD
	MI
	PT
	PX
	DEGREES
	MINUTE
	SECOND
)

const (
	MetersPerInch = 0.0254
	// Length of one degree on the mean earth circumference. Only used to
	// relate a degree based resolution to a paper scale; real ground
	// distances go through the ellipsoid.
	MetersPerDegree = 40041470.0 / 360.0
	PDFDPI          = 72.0
)

type unitDef struct {
	base   DistanceUnit
	inBase float64
	names  []string
}

var (
	defs = map[DistanceUnit]unitDef{
		M:       {M, 1, []string{"m", "meter", "meters", "metre", "metres"}},
		MM:      {M, 0.001, []string{"mm", "millimeter", "millimeters"}},
		CM:      {M, 0.01, []string{"cm", "centimeter", "centimeters"}},
		KM:      {M, 1000, []string{"km", "kilometer", "kilometers"}},
		IN:      {IN, 1, []string{"in", "inch", "inches"}},
		FT:      {IN, 12, []string{"ft", "foot", "feet", "us-ft"}},
		YD:      {IN, 36, []string{"yd", "yard", "yards"}},
		MI:      {IN, 63360, []string{"mi", "mile", "miles"}},
		PT:      {IN, 1 / PDFDPI, []string{"pt", "point", "points"}},
		PX:      {IN, 1 / PDFDPI, []string{"px", "pixel", "pixels"}},
		DEGREES: {DEGREES, 1, []string{"°", "dd", "degree", "degrees", "deg"}},
		MINUTE:  {DEGREES, 1.0 / 60.0, []string{"min", "minute", "minutes"}},
		SECOND:  {DEGREES, 1.0 / 3600.0, []string{"sec", "second", "seconds"}},
	}

	baseInMeters = map[DistanceUnit]float64{
		M:       1,
		IN:      MetersPerInch,
		DEGREES: MetersPerDegree,
	}

	// factors[from][to]
	factors [SECOND + 1][SECOND + 1]float64
	byName  = map[string]DistanceUnit{}
)

func init() {
	for from := M; from <= SECOND; from++ {
		for to := M; to <= SECOND; to++ {
			factors[from][to] = inMeters(from) / inMeters(to)
		}
		for _, name := range defs[from].names {
			byName[name] = from
		}
	}
	for from := M; from <= SECOND; from++ {
		factors[from][from] = 1
		for to := M; to <= SECOND; to++ {
			// avoid rounding noise between units of one family
			if defs[from].base == defs[to].base {
				factors[from][to] = defs[from].inBase / defs[to].inBase
			}
		}
	}
}

func inMeters(u DistanceUnit) float64 {
	d := defs[u]
	return d.inBase * baseInMeters[d.base]
}

// AllUnits lists every known unit.
func AllUnits() []DistanceUnit {
	ret := make([]DistanceUnit, 0, SECOND+1)
	for u := M; u <= SECOND; u++ {
		ret = append(ret, u)
	}
	return ret
}

// Convert converts value expressed in from into the unit to.
func Convert(value float64, from, to DistanceUnit) float64 {
	return value * factors[from][to]
}

// ConvertTo converts value expressed in u into dest.
func (u DistanceUnit) ConvertTo(value float64, dest DistanceUnit) float64 {
	return Convert(value, u, dest)
}

// BaseUnit is M, IN or DEGREES.
func (u DistanceUnit) BaseUnit() DistanceUnit {
	return defs[u].base
}

func (u DistanceUnit) IsBase() bool {
	return defs[u].base == u
}

// IsAngular is true for DEGREES, MINUTE and SECOND.
func (u DistanceUnit) IsAngular() bool {
	return defs[u].base == DEGREES
}

func (u DistanceUnit) String() string {
	d, ok := defs[u]
	if !ok {
		return "unknown"
	}
	return d.names[0]
}

// FromString parses one of the unit aliases ("m", "meters", "°", "dd", "ft", ...).
func FromString(name string) (DistanceUnit, error) {
	u, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return M, errors.Wrapf(mfp.ErrUnknownUnit, "%q", name)
	}
	return u, nil
}

// UnmarshalText allows units in YAML/JSON configuration.
func (u *DistanceUnit) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u DistanceUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// DistanceGeoID computes meters between to GEO points on a sphere. Only a
// rough cross check for the ellipsoidal computations.
func DistanceGeoID(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert degrees to radians
	rlat1 := lat1 * math.Pi / 180.0
	rlon1 := lon1 * math.Pi / 180.0

	rlat2 := lat2 * math.Pi / 180.0
	rlon2 := lon2 * math.Pi / 180.0

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	R := float64(6371)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	d := R * c
	return d * 1000
}
