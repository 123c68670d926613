package aoi

import (
	"strings"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/bounds"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"
	"github.com/mapfish/mapfish-print-sub001/mfp/scale"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// ZoomType selects how ZoomToFeatures frames the features.
type ZoomType string

const (
	// Extent shows every feature.
	Extent ZoomType = "EXTENT"
	// Center centres on the features at MinScale.
	Center ZoomType = "CENTER"
)

func (z *ZoomType) UnmarshalText(text []byte) error {
	switch v := ZoomType(strings.ToUpper(string(text))); v {
	case Extent, Center:
		*z = v
		return nil
	}
	return errors.Wrapf(mfp.ErrInvalidInput, "zoom type %q", text)
}

// ZoomToFeatures derives the map bounds from the features of a layer.
type ZoomToFeatures struct {
	ZoomType ZoomType `mapstructure:"zoomType" json:"zoomType"`
	// MinScale is the largest scale (smallest denominator) Extent zooms to.
	MinScale float64 `mapstructure:"minScale" json:"minScale"`
	// MinMargin in pixels kept free around the features.
	MinMargin int `mapstructure:"minMargin" json:"minMargin"`
}

// FeaturesBound is the bound of a GeoJSON feature collection.
func FeaturesBound(features []byte) (orb.Bound, error) {
	fc, err := geojson.UnmarshalFeatureCollection(features)
	if err != nil {
		return orb.Bound{}, errors.Wrapf(mfp.ErrInvalidInput, "features: %v", err)
	}
	var bound orb.Bound
	found := false
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if !found {
			bound = f.Geometry.Bound()
			found = true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	if !found {
		return orb.Bound{}, errors.Wrap(mfp.ErrInvalidInput, "no feature to zoom to")
	}
	return bound, nil
}

// Bounds frames the features, given in proj, on paint at dpi.
func (z ZoomToFeatures) Bounds(proj *coordsys.C, features []byte, paint bounds.PaintArea, dpi float64,
	useGeodetic bool) (bounds.MapBounds, error) {
	bound, err := FeaturesBound(features)
	if err != nil {
		return nil, err
	}
	env := geo.EnvelopeFromBound(bound)
	center := env.Center()
	atMinScale := func() (bounds.MapBounds, error) {
		s, err := scale.New(z.MinScale, proj.Unit, dpi)
		if err != nil {
			return nil, err
		}
		return bounds.NewCenterScale(proj, center.X(), center.Y(), s, useGeodetic)
	}

	switch z.ZoomType {
	case Center:
		return atMinScale()
	case Extent, "":
	default:
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "zoom type %q", z.ZoomType)
	}
	if !env.HasArea() {
		return atMinScale()
	}

	inner := bounds.PaintArea{Width: paint.Width - 2*z.MinMargin, Height: paint.Height - 2*z.MinMargin}
	if err := inner.Validate(); err != nil {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "margin %d on %dx%d", z.MinMargin, paint.Width, paint.Height)
	}
	bbox, err := bounds.NewBBoxFromEnvelope(proj, env, useGeodetic)
	if err != nil {
		return nil, err
	}
	s, err := bbox.Scale(inner, dpi)
	if err != nil {
		return nil, err
	}
	if s.Denominator < z.MinScale {
		return atMinScale()
	}
	fitted, err := bbox.AdjustedEnvelope(inner)
	if err != nil {
		return nil, err
	}
	res := fitted.Width() / float64(inner.Width)
	margin := res * float64(z.MinMargin)
	return bounds.NewBBoxFromEnvelope(proj, fitted.ExpandBy(margin, margin), useGeodetic)
}
