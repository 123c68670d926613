package coordsys

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mapfish/mapfish-print-sub001/mfp"
	"github.com/mapfish/mapfish-print-sub001/mfp/log"
	"github.com/mapfish/mapfish-print-sub001/mfp/util/units"

	lru "github.com/hashicorp/golang-lru"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/wroge/wgs84"
)

const cacheSize = 128

var (
	builtins = map[string]*C{
		"EPSG:3857":   &EPSG3857,
		"EPSG:900913": &EPSG3857,
		"EPSG:102100": &EPSG3857,
		"EPSG:102113": &EPSG3857,
		"EPSG:4326":   &EPSG4326,
		"CRS:84":      &CRS84,
		"EPSG:4258":   &EPSG4258,
	}

	crsURIRegexURL = regexp.MustCompile(`(?i)^https?://.+/def/crs/(?P<authority>[^/]+)/(?P<version>[^/]*)/(?P<code>[^/]+)$`)
	crsURIRegexURN = regexp.MustCompile(`(?i)^urn:ogc:def:crs:(?P<authority>[^:]+):(?P<version>[^:]*):(?P<code>[^:]+)$`)

	repository = wgs84.EPSG()
	cache      *lru.Cache
)

func init() {
	var err error
	cache, err = lru.New(cacheSize)
	if err != nil {
		panic(err)
	}
}

// Normalize turns "epsg:3857", "urn:ogc:def:crs:EPSG::3857" or
// "http://www.opengis.net/def/crs/EPSG/0/3857" into "EPSG:3857".
func Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	for _, re := range []*regexp.Regexp{crsURIRegexURL, crsURIRegexURN} {
		if m := re.FindStringSubmatch(code); m != nil {
			code = m[1] + ":" + m[3]
			break
		}
	}
	parts := strings.Split(code, ":")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.Wrapf(mfp.ErrUnknownProjection, "malformed code %q", code)
	}
	authority := strings.ToUpper(parts[0])
	if authority == "OGC" {
		authority = "CRS"
	}
	if authority == "CRS" && strings.EqualFold(parts[1], "CRS84") {
		parts[1] = "84"
	}
	return authority + ":" + parts[1], nil
}

// Parse resolves a projection code. Descriptors are cached.
func Parse(code string) (*C, error) {
	name, err := Normalize(code)
	if err != nil {
		return nil, err
	}
	if c, ok := builtins[name]; ok {
		return c, nil
	}
	if c, ok := cache.Get(name); ok {
		return c.(*C), nil
	}
	if !strings.HasPrefix(name, "EPSG:") {
		return nil, errors.Wrapf(mfp.ErrUnknownProjection, "%q", code)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, "EPSG:"))
	if err != nil {
		return nil, errors.Wrapf(mfp.ErrUnknownProjection, "%q", code)
	}
	c, err := fromRepository(n)
	if err != nil {
		return nil, err
	}
	log.Debug("Resolved projection %v from the EPSG repository", name)
	cache.Add(name, c)
	return c, nil
}

// MustParse is Parse for codes known to be valid.
func MustParse(code string) *C {
	c, err := Parse(code)
	if err != nil {
		panic(err)
	}
	return c
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p.X()) && !math.IsNaN(p.Y()) && !math.IsInf(p.X(), 0) && !math.IsInf(p.Y(), 0)
}

// fromRepository builds a metre based projection from the wgs84 EPSG
// repository.
func fromRepository(code int) (c *C, err error) {
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = errors.Wrapf(mfp.ErrUnknownProjection, "EPSG:%d: %v", code, r)
		}
	}()

	crs := repository.Code(code)
	lonLat := wgs84.WGS84().LonLat()
	forward := wgs84.Transform(lonLat, crs)
	inverse := wgs84.Transform(crs, lonLat)

	toOrb := func(f func(a, b, c float64) (a2, b2, c2 float64)) Converter {
		return func(p orb.Point) orb.Point {
			x, y, _ := f(p.X(), p.Y(), 0)
			return orb.Point{x, y}
		}
	}
	c = &C{
		EPSG:          fmt.Sprintf("EPSG:%d", code),
		Unit:          units.M,
		Ellipsoid:     "WGS84",
		EllipsoidUnit: units.M,
		Forward:       toOrb(forward),
		Inverse:       toOrb(inverse),
	}

	// An identity transform means the repository has no projected
	// definition for the code.
	sample := orb.Point{10, 50}
	projected := c.Forward(sample)
	if !finite(projected) || projected.Equal(sample) {
		return nil, errors.Wrapf(mfp.ErrUnknownProjection, "EPSG:%d", code)
	}
	back := c.Inverse(projected)
	if !finite(back) || math.Abs(back.X()-sample.X()) > 1e-6 || math.Abs(back.Y()-sample.Y()) > 1e-6 {
		return nil, errors.Wrapf(mfp.ErrUnknownProjection, "EPSG:%d does not round trip", code)
	}
	return c, nil
}
