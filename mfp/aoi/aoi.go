// Package aoi handles the area of interest of a map and the computation of
// map bounds from a set of features.
package aoi

import (
	"strings"
	"sync"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// DisplayType tells how the area of interest is drawn.
type DisplayType string

const (
	Render DisplayType = "RENDER"
	Clip   DisplayType = "CLIP"
	None   DisplayType = "NONE"
)

func (d *DisplayType) UnmarshalText(text []byte) error {
	switch v := DisplayType(strings.ToUpper(string(text))); v {
	case Render, Clip, None:
		*d = v
		return nil
	}
	return errors.Wrapf(mfp.ErrInvalidInput, "area of interest display %q", text)
}

// AreaOfInterest is a polygon, given as a GeoJSON geometry in the map
// projection, that the map focuses on. Build with a composite literal and
// share by pointer.
type AreaOfInterest struct {
	Area        string      `mapstructure:"area" json:"area"`
	Display     DisplayType `mapstructure:"display" json:"display"`
	Style       string      `mapstructure:"style" json:"style,omitempty"`
	RenderAsSvg bool        `mapstructure:"renderAsSvg" json:"renderAsSvg"`

	once    sync.Once
	polygon orb.Geometry
	err     error
}

// Polygon parses Area on the first call and returns the same result
// afterwards.
func (a *AreaOfInterest) Polygon() (orb.Geometry, error) {
	a.once.Do(func() {
		a.polygon, a.err = parsePolygon(a.Area)
	})
	return a.polygon, a.err
}

func parsePolygon(area string) (orb.Geometry, error) {
	if strings.TrimSpace(area) == "" {
		return nil, errors.Wrap(mfp.ErrInvalidInput, "empty area of interest")
	}
	g, err := geojson.UnmarshalGeometry([]byte(area))
	if err != nil {
		return nil, errors.Wrapf(mfp.ErrInvalidInput, "area of interest: %v", err)
	}
	if g.Coordinates == nil {
		return nil, errors.Wrap(mfp.ErrInvalidInput, "area of interest without coordinates")
	}
	switch g.Coordinates.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return g.Coordinates, nil
	}
	return nil, errors.Wrapf(mfp.ErrInvalidInput, "area of interest is a %s", g.Coordinates.GeoJSONType())
}

func (a *AreaOfInterest) Envelope() (geo.Envelope, error) {
	g, err := a.Polygon()
	if err != nil {
		return geo.Envelope{}, err
	}
	return geo.EnvelopeFromBound(g.Bound()), nil
}

// DisplayMode is Display in upper case, Render when not set.
func (a *AreaOfInterest) DisplayMode() DisplayType {
	if a.Display == "" {
		return Render
	}
	return DisplayType(strings.ToUpper(string(a.Display)))
}

// Validate checks a without changing it.
func (a *AreaOfInterest) Validate() error {
	var display DisplayType
	if err := display.UnmarshalText([]byte(a.DisplayMode())); err != nil {
		return err
	}
	g, err := a.Polygon()
	if err != nil {
		return err
	}
	if area := planar.Area(g); !geo.Finite(area) || area <= 0 {
		return errors.Wrapf(mfp.ErrInvalidInput, "area of interest without area: %v", area)
	}
	return nil
}

// Copy returns the exported fields in a new value that parses its polygon
// again.
func (a *AreaOfInterest) Copy() *AreaOfInterest {
	return &AreaOfInterest{
		Area:        a.Area,
		Display:     a.Display,
		Style:       a.Style,
		RenderAsSvg: a.RenderAsSvg,
	}
}
