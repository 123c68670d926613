package geo

import (
	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/log"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/coordsys"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	"github.com/StefanSchroeder/Golang-Ellipsoid/ellipsoid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Azimuths used when stepping away from a center.
const (
	North = 0.0
	East  = 90.0
	South = 180.0
	West  = 270.0
)

var (
	tracer = log.GetTracer("geodetic")

	knownEllipsoids = map[string]bool{
		"WGS84": true,
		"GRS80": true,
		"WGS72": true,
	}
)

// GeodeticCalculator computes orthodromic distances and destinations on the
// ellipsoid of a projection. Points are given and returned in the
// coordinates of that projection.
type GeodeticCalculator struct {
	proj  *coordsys.C
	globe ellipsoid.Ellipsoid
}

func NewGeodeticCalculator(proj *coordsys.C) (*GeodeticCalculator, error) {
	if proj == nil {
		return nil, errors.Wrap(mfp.ErrGeodetic, "no projection")
	}
	if !knownEllipsoids[proj.Ellipsoid] {
		return nil, errors.Wrapf(mfp.ErrGeodetic, "unsupported ellipsoid %q of %v", proj.Ellipsoid, proj)
	}
	return &GeodeticCalculator{
		proj: proj,
		globe: ellipsoid.Init(
			proj.Ellipsoid,
			ellipsoid.Degrees,
			ellipsoid.Meter,
			ellipsoid.LongitudeIsSymmetric,
			ellipsoid.BearingNotSymmetric),
	}, nil
}

// Unit of the distances taken and returned.
func (g *GeodeticCalculator) Unit() units.DistanceUnit {
	return g.proj.EllipsoidUnit
}

func (g *GeodeticCalculator) Projection() *coordsys.C {
	return g.proj
}

func (g *GeodeticCalculator) toLonLat(p orb.Point) (orb.Point, error) {
	if !Finite(p.X(), p.Y()) {
		return p, errors.Wrapf(mfp.ErrGeodetic, "non finite position %v", p)
	}
	ll := g.proj.Inverse(p)
	if !Finite(ll.X(), ll.Y()) {
		return ll, errors.Wrapf(mfp.ErrGeodetic, "cannot transform %v from %v", p, g.proj)
	}
	if _, err := RollLatitude(ll.Y()); err != nil {
		return ll, errors.Wrapf(mfp.ErrGeodetic, "position %v: %v", p, err)
	}
	return ll, nil
}

// Distance is the orthodromic distance between a and b.
func (g *GeodeticCalculator) Distance(a, b orb.Point) (float64, error) {
	la, err := g.toLonLat(a)
	if err != nil {
		return 0, err
	}
	lb, err := g.toLonLat(b)
	if err != nil {
		return 0, err
	}
	if la.Equal(lb) {
		return 0, nil
	}
	dist, _ := g.globe.To(la.Y(), la.X(), lb.Y(), lb.X())
	if !Finite(dist) {
		return 0, errors.Wrapf(mfp.ErrGeodetic, "no distance between %v and %v", a, b)
	}
	tracer.Logf("distance %v -> %v: %v", la, lb, dist)
	return dist, nil
}

// Destination steps distance from start in the direction azimuth (degrees
// clockwise from north). A destination outside the latitudes the projection
// covers is an error.
func (g *GeodeticCalculator) Destination(start orb.Point, azimuth, distance float64) (orb.Point, error) {
	ll, err := g.toLonLat(start)
	if err != nil {
		return start, err
	}
	if !Finite(azimuth, distance) {
		return start, errors.Wrapf(mfp.ErrGeodetic, "direction %v, distance %v", azimuth, distance)
	}
	lat, lon := g.globe.At(ll.Y(), ll.X(), distance, azimuth)
	if !Finite(lat, lon) {
		return start, errors.Wrapf(mfp.ErrGeodetic, "no destination from %v", start)
	}
	if b := g.proj.WGS84Bounds; lat < b.Min.Y() || lat > b.Max.Y() {
		return start, errors.Wrapf(mfp.ErrGeodetic, "destination latitude %v out of %v", lat, g.proj)
	}
	dest := g.proj.Forward(orb.Point{lon, lat})
	if !Finite(dest.X(), dest.Y()) {
		return start, errors.Wrapf(mfp.ErrGeodetic, "cannot transform %v into %v", orb.Point{lon, lat}, g.proj)
	}
	tracer.Logf("destination %v az %v dist %v: %v", ll, azimuth, distance, dest)
	return dest, nil
}
