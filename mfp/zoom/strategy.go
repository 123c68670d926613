package zoom

import (
	"math"
	"strconv"
	"strings"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/log"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/pkg/errors"
)

// Differences below this are ties.
const tieEpsilon = 1e-11

var tracer = log.GetTracer("snap")

// SnapStrategy selects the zoom level used for a computed scale.
type SnapStrategy int

const (
	// ClosestLowerOnTie takes the closest level, the smaller denominator on
	// a tie.
	ClosestLowerOnTie SnapStrategy = iota
	// ClosestHigherOnTie takes the closest level, the larger denominator on
	// a tie.
	ClosestHigherOnTie
	// HigherScale takes the smallest level not below the target, within
	// tolerance.
	HigherScale
	// LowerScale takes the largest level not above the target, within
	// tolerance.
	LowerScale
)

var strategyNames = [...]string{
	ClosestLowerOnTie:  "CLOSEST_LOWER_SCALE_ON_TIE",
	ClosestHigherOnTie: "CLOSEST_HIGHER_SCALE_ON_TIE",
	HigherScale:        "HIGHER_SCALE",
	LowerScale:         "LOWER_SCALE",
}

var strategyAliases = map[string]SnapStrategy{
	"CLOSESTLOWERSCALEONTIE":  ClosestLowerOnTie,
	"CLOSESTLOWERONTIE":       ClosestLowerOnTie,
	"CLOSESTHIGHERSCALEONTIE": ClosestHigherOnTie,
	"CLOSESTHIGHERONTIE":      ClosestHigherOnTie,
	"HIGHERSCALE":             HigherScale,
	"LOWERSCALE":              LowerScale,
}

// ParseSnapStrategy accepts "CLOSEST_LOWER_SCALE_ON_TIE" as well as
// "ClosestLowerOnTie".
func ParseSnapStrategy(name string) (SnapStrategy, error) {
	key := strings.ToUpper(strings.Replace(strings.TrimSpace(name), "_", "", -1))
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return 0, errors.Wrapf(mfp.ErrUnknownStrategy, "%q", name)
}

func (s SnapStrategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return "SnapStrategy(" + strconv.Itoa(int(s)) + ")"
	}
	return strategyNames[s]
}

func (s *SnapStrategy) UnmarshalText(text []byte) error {
	v, err := ParseSnapStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// UnmarshalYAML reads the strategy name from a YAML scalar.
func (s *SnapStrategy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(name))
}

func (s SnapStrategy) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(strategyNames) {
		return nil, errors.Wrapf(mfp.ErrUnknownStrategy, "%d", int(s))
	}
	return []byte(strategyNames[s]), nil
}

// SearchResult is the level picked by a strategy.
type SearchResult struct {
	Index  int
	Levels ZoomLevels
}

func (r SearchResult) Denominator() float64 {
	return r.Levels.Get(r.Index)
}

func (r SearchResult) Scale(unit units.DistanceUnit, dpi float64) (scale.Scale, error) {
	return r.Levels.Scale(r.Index, unit, dpi)
}

// Search snaps target onto levels. Tolerance is relative and only used by
// HigherScale and LowerScale.
func (s SnapStrategy) Search(target scale.Scale, tolerance float64, levels ZoomLevels) (SearchResult, error) {
	if levels.Len() == 0 {
		return SearchResult{}, mfp.ErrEmptyZoomLevels
	}
	den := target.Denominator
	var idx int
	switch s {
	case ClosestLowerOnTie:
		idx = closest(den, levels, levels.Len()-1, -1)
	case ClosestHigherOnTie:
		idx = closest(den, levels, 0, 1)
	case HigherScale:
		idx = higher(den*(1-tolerance), levels)
	case LowerScale:
		idx = lower(den*(1+tolerance), levels)
	default:
		return SearchResult{}, errors.Wrapf(mfp.ErrUnknownStrategy, "%d", int(s))
	}
	tracer.Logf("%v: %v in %v -> %v", s, den, levels, levels.Get(idx))
	return SearchResult{Index: idx, Levels: levels}, nil
}

// closest walks the ladder from start in direction step. A level at the same
// distance as the best so far replaces it, so the one visited last wins a
// tie.
func closest(den float64, levels ZoomLevels, start, step int) int {
	pos := start
	dist := math.Inf(1)
	for i := start; i >= 0 && i < levels.Len(); i += step {
		newDist := math.Abs(levels.Get(i) - den)
		if newDist < dist || math.Abs(newDist-dist) < tieEpsilon {
			pos = i
			dist = newDist
			if newDist < tieEpsilon {
				break
			}
		}
	}
	return pos
}

// higher returns the smallest level >= threshold, or the smallest level.
func higher(threshold float64, levels ZoomLevels) int {
	for i := levels.Len() - 1; i >= 0; i-- {
		if levels.Get(i) >= threshold {
			return i
		}
	}
	return levels.Len() - 1
}

// lower returns the largest level <= threshold, or the largest level.
func lower(threshold float64, levels ZoomLevels) int {
	for i := 0; i < levels.Len(); i++ {
		if levels.Get(i) <= threshold {
			return i
		}
	}
	return 0
}
