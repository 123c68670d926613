// Package coordsys provides the projections (coordinate reference systems)
// the map bounds are expressed in.
package coordsys

import (
	"math"

	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/paulmach/orb"
)

const mercatorPole = 20037508.34

// Converter maps a point from one coordinate system into another.
type Converter = orb.Projection

// C describes a projection. Forward maps WGS84 longitude/latitude into the
// projection, Inverse maps back. Values are shared by pointer and never
// modified.
type C struct {
	EPSG           string
	Unit           units.DistanceUnit
	Geographic     bool
	PseudoMercator bool
	// Axis order declared by the authority; EPSG:4326 is latitude first.
	LatitudeFirst bool
	// Name understood by the ellipsoid package ("WGS84", "GRS80").
	Ellipsoid     string
	EllipsoidUnit units.DistanceUnit
	Forward       Converter
	Inverse       Converter
	Bounds        orb.Bound
	WGS84Bounds   orb.Bound
}

func (c C) String() string {
	return c.EPSG
}

func (c *C) IsGeographic() bool {
	return c.Geographic
}

func (c *C) IsPseudoMercator() bool {
	return c.PseudoMercator
}

func (c *C) LinearUnit() units.DistanceUnit {
	return c.Unit
}

func identity(p orb.Point) orb.Point { return p }

func bound(minX, minY, maxX, maxY float64) orb.Bound {
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

// Web Mercator
var EPSG3857 = C{
	EPSG:           "EPSG:3857",
	Unit:           units.M,
	PseudoMercator: true,
	Ellipsoid:      "WGS84",
	EllipsoidUnit:  units.M,
	Forward: func(p orb.Point) orb.Point {
		x := mercatorPole / 180.0 * p.X()
		y := math.Log(math.Tan((90.0+p.Y())*math.Pi/360.0)) / math.Pi * mercatorPole
		y = math.Max(-mercatorPole, math.Min(y, mercatorPole))

		return orb.Point{x, y}
	},
	Inverse: func(p orb.Point) orb.Point {
		x := p.X() * 180.0 / mercatorPole
		y := 180.0 / math.Pi * (2*math.Atan(math.Exp((p.Y()/mercatorPole)*math.Pi)) - math.Pi/2.0)

		return orb.Point{x, y}
	},
	Bounds:      bound(-20026376.39, -20048966.10, 20026376.39, 20048966.10),
	WGS84Bounds: bound(-180.0, -85.06, 180.0, 85.06),
}

var WebMercator = EPSG3857

var EPSG4326 = C{
	EPSG:          "EPSG:4326",
	Unit:          units.DEGREES,
	Geographic:    true,
	LatitudeFirst: true,
	Ellipsoid:     "WGS84",
	EllipsoidUnit: units.M,
	Forward:       identity,
	Inverse:       identity,
	Bounds:        bound(-180, -90, 180, 90),
	WGS84Bounds:   bound(-180, -90, 180, 90),
}

var WGS84 = EPSG4326

// CRS84 is WGS84 with the longitude first axis order.
var CRS84 = C{
	EPSG:          "CRS:84",
	Unit:          units.DEGREES,
	Geographic:    true,
	Ellipsoid:     "WGS84",
	EllipsoidUnit: units.M,
	Forward:       identity,
	Inverse:       identity,
	Bounds:        bound(-180, -90, 180, 90),
	WGS84Bounds:   bound(-180, -90, 180, 90),
}

// ETRS89 geographic, treated as coincident with WGS84 at map scales.
var EPSG4258 = C{
	EPSG:          "EPSG:4258",
	Unit:          units.DEGREES,
	Geographic:    true,
	LatitudeFirst: true,
	Ellipsoid:     "GRS80",
	EllipsoidUnit: units.M,
	Forward:       identity,
	Inverse:       identity,
	Bounds:        bound(-16.1, 32.88, 40.18, 84.17),
	WGS84Bounds:   bound(-16.1, 32.88, 40.18, 84.17),
}
