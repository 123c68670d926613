// Package geo provides the angle helpers, the envelope type and the
// ellipsoid based distance computations used by the map bounds.
package geo

import (
	"math"

	"github.com/mapfish/mapfish-print-sub001/mfp"

	"github.com/pkg/errors"
)

const (
	DegreeToRadian = math.Pi / 180
	RadianToDegree = 1.0 / DegreeToRadian

	Longitude_Min = -180
	Longitude_Max = 180
	Latitude_Min  = -90
	Latitude_Max  = 90

	// Tolerance of the "is this angle/factor the neutral one" checks.
	Epsilon = 1e-9
)

// NearlyEqual compares with an absolute tolerance of Epsilon.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

func NearlyZero(a float64) bool {
	return NearlyEqual(a, 0)
}

// Finite is false for NaN and the infinities.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// RollLongitude maps x into [-180, 180): 190 -> -170, -190 -> 170, 180 -> -180.
func RollLongitude(x float64) float64 {
	return x - 360*math.Floor((x-Longitude_Min)/360)
}

// RollLatitude accepts latitudes in [-90, 90] unchanged. Anything outside is
// an input error, the value is not folded back.
func RollLatitude(y float64) (float64, error) {
	if math.IsNaN(y) || y < Latitude_Min || y > Latitude_Max {
		return 0, errors.Wrapf(mfp.ErrLatitudeOutOfRange, "%v", y)
	}
	return y, nil
}
