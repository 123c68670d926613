// Package zoom contains the ladder of allowed scale denominators and the
// strategies that snap an arbitrary scale onto it.
package zoom

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ZoomLevels is a de-duplicated list of scale denominators sorted from the
// largest (most zoomed out) to the smallest. The zero value is an empty
// ladder.
type ZoomLevels struct {
	levels []float64
}

func New(levels ...float64) ZoomLevels {
	sorted := make([]float64, 0, len(levels))
	seen := make(map[float64]bool, len(levels))
	for _, l := range levels {
		if seen[l] {
			continue
		}
		seen[l] = true
		sorted = append(sorted, l)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return ZoomLevels{levels: sorted}
}

// Validate rejects an empty ladder and denominators that are not strictly
// positive.
func (z ZoomLevels) Validate() error {
	if len(z.levels) == 0 {
		return mfp.ErrEmptyZoomLevels
	}
	for _, l := range z.levels {
		if !geo.Finite(l) || l <= 0 {
			return errors.Wrapf(mfp.ErrInvalidScale, "zoom level %v", l)
		}
	}
	return nil
}

func (z ZoomLevels) Len() int {
	return len(z.levels)
}

// Get returns the i-th denominator, 0 being the largest.
func (z ZoomLevels) Get(i int) float64 {
	return z.levels[i]
}

func (z ZoomLevels) Scale(i int, unit units.DistanceUnit, dpi float64) (scale.Scale, error) {
	if i < 0 || i >= len(z.levels) {
		return scale.Scale{}, errors.Wrapf(mfp.ErrInvalidScale, "no zoom level %d in %v", i, z)
	}
	return scale.New(z.levels[i], unit, dpi)
}

// Values returns a copy of the denominators, largest first.
func (z ZoomLevels) Values() []float64 {
	return append([]float64(nil), z.levels...)
}

func (z ZoomLevels) String() string {
	parts := make([]string, len(z.levels))
	for i, l := range z.levels {
		parts[i] = strconv.FormatFloat(l, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// UnmarshalYAML reads a plain list of denominators.
func (z *ZoomLevels) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []float64
	if err := unmarshal(&list); err != nil {
		return err
	}
	*z = New(list...)
	return nil
}

func (z *ZoomLevels) UnmarshalJSON(data []byte) error {
	var list []float64
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*z = New(list...)
	return nil
}

func (z ZoomLevels) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.Values())
}
