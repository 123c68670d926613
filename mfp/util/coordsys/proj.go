package coordsys

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Proj reprojects a single point.
func Proj(source *C, target *C, p orb.Point) orb.Point {
	if source == target {
		return p
	}
	return target.Forward(source.Inverse(p))
}

func ToWGS84(crs *C, p orb.Point) orb.Point {
	return crs.Inverse(p)
}

func FromWGS84(crs *C, p orb.Point) orb.Point {
	return crs.Forward(p)
}

// ProjGeometry reprojects a copy of geom; the argument is left untouched.
func ProjGeometry(source *C, target *C, geom orb.Geometry) orb.Geometry {
	if geom == nil {
		return nil
	}
	clone := orb.Clone(geom)
	if source == target {
		return clone
	}
	return project.Geometry(clone, func(p orb.Point) orb.Point {
		return Proj(source, target, p)
	})
}

// ProjBound reprojects the four corners of b and returns their bound.
func ProjBound(source *C, target *C, b orb.Bound) orb.Bound {
	if source == target {
		return b
	}
	ring := orb.Ring{
		b.Min,
		{b.Max.X(), b.Min.Y()},
		b.Max,
		{b.Min.X(), b.Max.Y()},
	}
	ret := orb.Bound{Min: Proj(source, target, ring[0]), Max: Proj(source, target, ring[0])}
	for _, p := range ring[1:] {
		ret = ret.Extend(Proj(source, target, p))
	}
	return ret
}
