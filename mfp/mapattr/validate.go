package mapattr

import (
	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validate reports every problem of the values at once; each wraps
// mfp.ErrInvalidInput unless a more precise error exists.
func (v *Values) Validate() error {
	var result *multierror.Error
	invalid := func(format string, args ...interface{}) {
		result = multierror.Append(result, errors.Wrapf(mfp.ErrInvalidInput, format, args...))
	}

	hasBbox, hasCenter := v.Bbox != nil, v.Center != nil
	hasFeatures := v.ZoomToFeatures != nil && v.Features != nil
	switch {
	case hasBbox && hasCenter:
		invalid("both bbox and center are given")
	case !hasBbox && !hasCenter && v.AreaOfInterest == nil && !hasFeatures:
		invalid("neither bbox nor center is given")
	}
	if hasBbox {
		if len(v.Bbox) != 4 {
			invalid("bbox needs 4 numbers, got %d", len(v.Bbox))
		} else if !geo.Finite(v.Bbox...) {
			invalid("bbox %v", v.Bbox)
		}
	}
	if hasCenter {
		if len(v.Center) != 2 {
			invalid("center needs 2 numbers, got %d", len(v.Center))
		} else if !geo.Finite(v.Center...) {
			invalid("center %v", v.Center)
		}
		if !geo.Finite(v.Scale) || v.Scale <= 0 {
			invalid("center without a valid scale: %v", v.Scale)
		}
	}
	if !geo.Finite(v.Rotation) {
		invalid("rotation %v", v.Rotation)
	}
	switch {
	case !geo.Finite(v.DPI) || v.DPI <= 0:
		invalid("dpi %v", v.DPI)
	case v.maxDPI > 0 && v.DPI > v.maxDPI:
		invalid("dpi %v above the maximum of %v", v.DPI, v.maxDPI)
	}
	if v.Width <= 0 || v.Height <= 0 {
		invalid("map size %dx%d", v.Width, v.Height)
	}
	if v.UseNearestScale && v.ZoomLevels.Len() == 0 {
		invalid("useNearestScale without zoom levels")
	} else if v.ZoomLevels.Len() > 0 {
		if err := v.ZoomLevels.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if !geo.Finite(v.ZoomSnapTolerance) || v.ZoomSnapTolerance < 0 || v.ZoomSnapTolerance >= 1 {
		invalid("zoomSnapTolerance %v", v.ZoomSnapTolerance)
	}
	if _, err := v.Proj(); err != nil {
		result = multierror.Append(result, err)
	}
	if v.AreaOfInterest != nil {
		if err := v.AreaOfInterest.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if v.ZoomToFeatures != nil && v.Features == nil && !hasBbox && !hasCenter {
		invalid("zoomToFeatures without features")
	}
	return result.ErrorOrNil()
}
