// Package mapattr decodes and checks the map attribute of a print request
// and turns it into map bounds.
package mapattr

import (
	"reflect"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/aoi"
	"github.com/mapfish/mapfish-print-sub001/mfp/bounds"
	"github.com/mapfish/mapfish-print-sub001/mfp/config"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/zoom"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Values of one map attribute. Bbox and Center are in the axis order of the
// request, see LongitudeFirst.
type Values struct {
	Bbox       []float64 `mapstructure:"bbox"`
	Center     []float64 `mapstructure:"center"`
	Scale      float64   `mapstructure:"scale"`
	Projection string    `mapstructure:"projection"`
	// Rotation in degrees, clockwise.
	Rotation float64 `mapstructure:"rotation"`
	DPI      float64 `mapstructure:"dpi"`
	Width    int     `mapstructure:"width"`
	Height   int     `mapstructure:"height"`

	ZoomLevels            zoom.ZoomLevels   `mapstructure:"zoomLevels"`
	ZoomSnapTolerance     float64           `mapstructure:"zoomSnapTolerance"`
	ZoomLevelSnapStrategy zoom.SnapStrategy `mapstructure:"zoomLevelSnapStrategy"`
	ZoomSnapGeodetic      bool              `mapstructure:"zoomSnapGeodetic"`
	UseNearestScale       bool              `mapstructure:"useNearestScale"`
	UseAdjustBounds       bool              `mapstructure:"useAdjustBounds"`

	// LongitudeFirst forces x/y order for projections whose authority
	// declares latitude first.
	LongitudeFirst          bool `mapstructure:"longitudeFirst"`
	DPISensitiveStyle       bool `mapstructure:"dpiSensitiveStyle"`
	UseGeodeticCalculations bool `mapstructure:"useGeodeticCalculations"`

	AreaOfInterest *aoi.AreaOfInterest `mapstructure:"areaOfInterest"`
	ZoomToFeatures *aoi.ZoomToFeatures `mapstructure:"zoomToFeatures"`
	// Features is the GeoJSON feature collection ZoomToFeatures frames,
	// either as a JSON string or as decoded JSON.
	Features interface{} `mapstructure:"features"`

	maxDPI float64
}

var (
	zoomLevelsType   = reflect.TypeOf(zoom.ZoomLevels{})
	snapStrategyType = reflect.TypeOf(zoom.SnapStrategy(0))
)

// decodeHook builds zoom levels from lists and strategies from names.
func decodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to {
	case zoomLevelsType:
		var list []float64
		if err := mapstructure.WeakDecode(data, &list); err != nil {
			return nil, err
		}
		return zoom.New(list...), nil
	case snapStrategyType:
		if from.Kind() == reflect.String {
			return zoom.ParseSnapStrategy(data.(string))
		}
	}
	return data, nil
}

// Decode reads raw, the map attribute of a request decoded from JSON, over
// the defaults of cfg. The result is not validated.
func Decode(raw map[string]interface{}, cfg *config.Config) (*Values, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	v := &Values{
		Projection:              cfg.Projection,
		DPI:                     cfg.DPI,
		Width:                   cfg.Width,
		Height:                  cfg.Height,
		ZoomLevels:              cfg.ZoomLevels,
		ZoomSnapTolerance:       cfg.ZoomSnapTolerance,
		ZoomLevelSnapStrategy:   cfg.ZoomLevelSnapStrategy,
		ZoomSnapGeodetic:        cfg.ZoomSnapGeodetic,
		UseNearestScale:         cfg.UseNearestScale,
		UseAdjustBounds:         cfg.UseAdjustBounds,
		LongitudeFirst:          cfg.LongitudeFirst,
		UseGeodeticCalculations: cfg.UseGeodeticCalculations,
		maxDPI:                  cfg.MaxDPI,
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook,
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "map attribute: %v", err)
	}
	return v, nil
}

// PaintArea is the size of the map in pixels.
func (v *Values) PaintArea() bounds.PaintArea {
	return bounds.PaintArea{Width: v.Width, Height: v.Height}
}

func (v *Values) RotationRadians() float64 {
	return v.Rotation * geo.DegreeToRadian
}

// Proj resolves the projection code.
func (v *Values) Proj() (*coordsys.C, error) {
	return coordsys.Parse(v.Projection)
}

// swapAxes is true when the request gives latitude first.
func (v *Values) swapAxes(proj *coordsys.C) bool {
	return proj.LatitudeFirst && !v.LongitudeFirst
}

// LonLatBbox is Bbox in x/y order.
func (v *Values) LonLatBbox(proj *coordsys.C) []float64 {
	if len(v.Bbox) != 4 || !v.swapAxes(proj) {
		return v.Bbox
	}
	return []float64{v.Bbox[1], v.Bbox[0], v.Bbox[3], v.Bbox[2]}
}

// LonLatCenter is Center in x/y order.
func (v *Values) LonLatCenter(proj *coordsys.C) []float64 {
	if len(v.Center) != 2 || !v.swapAxes(proj) {
		return v.Center
	}
	return []float64{v.Center[1], v.Center[0]}
}

// FeaturesJSON is Features encoded as JSON, nil when there are none.
func (v *Values) FeaturesJSON() ([]byte, error) {
	switch f := v.Features.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(f), nil
	case []byte:
		return f, nil
	}
	data, err := json.Marshal(v.Features)
	if err != nil {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "features: %v", err)
	}
	return data, nil
}

// MapBounds builds the bounds asked for: zoom to features when there are
// features, else the bbox or the center, else the area of interest.
func (v *Values) MapBounds() (bounds.MapBounds, error) {
	proj, err := v.Proj()
	if err != nil {
		return nil, err
	}
	if v.ZoomToFeatures != nil {
		features, err := v.FeaturesJSON()
		if err != nil {
			return nil, err
		}
		if features != nil {
			return v.ZoomToFeatures.Bounds(proj, features, v.PaintArea(), v.DPI, v.UseGeodeticCalculations)
		}
	}
	switch {
	case len(v.Bbox) == 4:
		b := v.LonLatBbox(proj)
		return bounds.NewBBox(proj, b[0], b[1], b[2], b[3], v.UseGeodeticCalculations)
	case len(v.Center) == 2:
		s, err := scale.New(v.Scale, proj.Unit, v.DPI)
		if err != nil {
			return nil, err
		}
		c := v.LonLatCenter(proj)
		return bounds.NewCenterScale(proj, c[0], c[1], s, v.UseGeodeticCalculations)
	case v.AreaOfInterest != nil:
		env, err := v.AreaOfInterest.Envelope()
		if err != nil {
			return nil, err
		}
		return bounds.NewBBoxFromEnvelope(proj, env, v.UseGeodeticCalculations)
	}
	return nil, errors.Wrap(mfp.ErrInvalidInput, "neither bbox nor center")
}
