// Package processor runs the map step of a print job: from the map
// attribute values to the bounds, scale and viewport the renderer uses.
package processor

import (
	"time"

	"github.com/mapfish/mapfish-print-sub001/mfp/bounds"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/log"
	"github.com/mapfish/mapfish-print-sub001/mfp/mapattr"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/viewport"

	metrics "github.com/armon/go-metrics"
	"github.com/paulmach/orb"
)

var (
	metricCreate  = []string{"mapfish", "bounds", "create_map"}
	metricInvalid = []string{"mapfish", "bounds", "invalid"}
	metricSnapped = []string{"mapfish", "bounds", "snapped"}
	metricRotated = []string{"mapfish", "bounds", "rotated"}
)

// Result of CreateMap.
type Result struct {
	Viewport *viewport.Viewport
	// Envelope of the rotated bounds, the area the layers are fetched for.
	Envelope geo.Envelope
	Scale    scale.Scale
	// DisplayScale is the rounded denominator shown on the page.
	DisplayScale float64
	Center       orb.Point
	RotatedSize  bounds.PaintArea
}

// CreateMap validates values, resolves the bounds, snaps them to the zoom
// levels and fits a bbox to the paint area when asked for. Snapped bounds
// keep their scale, the viewport realises them for the paint area.
func CreateMap(values *mapattr.Values) (*Result, error) {
	defer metrics.MeasureSince(metricCreate, time.Now())
	log.Debug("Map attribute values: %s", log.Spew(values))

	if err := values.Validate(); err != nil {
		metrics.IncrCounter(metricInvalid, 1)
		return nil, err
	}
	paint := values.PaintArea()
	mapBounds, err := values.MapBounds()
	if err != nil {
		metrics.IncrCounter(metricInvalid, 1)
		return nil, err
	}

	if values.UseNearestScale {
		mapBounds, err = mapBounds.AdjustBoundsToNearestScale(values.ZoomLevels, values.ZoomSnapTolerance,
			values.ZoomLevelSnapStrategy, values.ZoomSnapGeodetic, paint, values.DPI)
		if err != nil {
			return nil, err
		}
		metrics.IncrCounter(metricSnapped, 1)
	}

	if bbox, ok := mapBounds.(*bounds.BBox); ok && values.UseAdjustBounds {
		env, err := bbox.AdjustedEnvelope(paint)
		if err != nil {
			return nil, err
		}
		if mapBounds, err = bounds.NewBBoxFromEnvelope(bbox.Projection(), env, bbox.UseGeodetic()); err != nil {
			return nil, err
		}
	}

	vp, err := viewport.New(mapBounds, paint, viewport.Options{
		Rotation:            values.RotationRadians(),
		DPI:                 values.DPI,
		ForceLongitudeFirst: values.LongitudeFirst,
		DPISensitiveStyle:   values.DPISensitiveStyle,
	})
	if err != nil {
		return nil, err
	}
	return describe(vp, values.UseGeodeticCalculations)
}

func describe(vp *viewport.Viewport, geodetic bool) (*Result, error) {
	rotated, err := vp.RotatedBoundsForPaintArea()
	if err != nil {
		return nil, err
	}
	if _, ok := vp.Transform(); ok {
		metrics.IncrCounter(metricRotated, 1)
	}
	rotatedSize := vp.RotatedMapSize()
	env, err := rotated.ToEnvelope(rotatedSize, vp.DPI())
	if err != nil {
		return nil, err
	}
	s, err := vp.Scale()
	if err != nil {
		return nil, err
	}
	display, err := vp.RoundedScaleDenominator(geodetic)
	if err != nil {
		return nil, err
	}
	log.Debug("Map %v at %v (1:%v) on %dx%d px", env, s, display, rotatedSize.Width, rotatedSize.Height)
	return &Result{
		Viewport:     vp,
		Envelope:     env,
		Scale:        s,
		DisplayScale: display,
		Center:       vp.Bounds().Center(),
		RotatedSize:  rotatedSize,
	}, nil
}
