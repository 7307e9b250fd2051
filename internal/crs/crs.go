// Package crs reprojects go-geom geometries between geographic WGS84
// (EPSG:4326) and spherical Web Mercator (EPSG:3857). SIRGAS 2000, NAD83 and
// ETRS89 geographic coordinates are accepted as WGS84: the datum shift is
// far below any clustering radius the pipeline uses.
package crs

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Supported CRS codes.
const (
	WGS84       = "EPSG:4326"
	WebMercator = "EPSG:3857"
)

// earthRadius is the WGS84 semi-major axis used by spherical Web Mercator.
const earthRadius = 6378137.0

// maxMercatorLat is the latitude at which Web Mercator y reaches its square extent.
const maxMercatorLat = 85.05112877980659

// ErrUnsupportedCRS is returned for CRS codes this package cannot transform.
var ErrUnsupportedCRS = eris.New("crs: unsupported CRS")

var aliases = map[string]string{
	"EPSG:4326":   WGS84,
	"WGS84":       WGS84,
	"CRS84":       WGS84,
	"OGC:CRS84":   WGS84,
	"EPSG:4674":   WGS84, // SIRGAS 2000
	"EPSG:4269":   WGS84, // NAD83
	"EPSG:4258":   WGS84, // ETRS89
	"EPSG:3857":   WebMercator,
	"EPSG:900913": WebMercator,
	"EPSG:102100": WebMercator,
	"EPSG:102113": WebMercator,
}

// Normalize maps a CRS name (including GeoJSON URN forms) to its canonical code.
func Normalize(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	c = strings.TrimPrefix(c, "URN:OGC:DEF:CRS:")
	c = strings.Replace(c, "EPSG::", "EPSG:", 1)
	c = strings.Replace(c, "OGC:1.3:", "OGC:", 1)
	if canon, ok := aliases[c]; ok {
		return canon, nil
	}
	return "", eris.Wrapf(ErrUnsupportedCRS, "crs: %q", code)
}

// SRID returns the numeric EPSG identifier of a supported CRS.
func SRID(code string) (int, error) {
	c, err := Normalize(code)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(c, "EPSG:"))
	if err != nil {
		return 0, eris.Wrapf(err, "crs: srid of %s", c)
	}
	return n, nil
}

// coordFunc transforms one XY pair.
type coordFunc func(x, y float64) (float64, float64)

func toMercator(lon, lat float64) (float64, float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	x := earthRadius * lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

func toGeographic(x, y float64) (float64, float64) {
	lon := x / earthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

func resolve(from, to string) (coordFunc, error) {
	f, err := Normalize(from)
	if err != nil {
		return nil, err
	}
	t, err := Normalize(to)
	if err != nil {
		return nil, err
	}
	switch {
	case f == t:
		return nil, nil
	case f == WGS84 && t == WebMercator:
		return toMercator, nil
	case f == WebMercator && t == WGS84:
		return toGeographic, nil
	}
	return nil, eris.Wrapf(ErrUnsupportedCRS, "crs: %s -> %s", f, t)
}

// Transformer reprojects many geometries with one resolved transform.
type Transformer struct {
	to string
	fn coordFunc
}

// NewTransformer resolves the transform between two CRS codes.
func NewTransformer(from, to string) (*Transformer, error) {
	fn, err := resolve(from, to)
	if err != nil {
		return nil, err
	}
	t, _ := Normalize(to)
	return &Transformer{to: t, fn: fn}, nil
}

// To returns the canonical target CRS.
func (t *Transformer) To() string { return t.to }

// Transform returns a reprojected copy of g. Coordinates beyond XY (Z, M) are
// carried over unchanged.
func (t *Transformer) Transform(g geom.T) (geom.T, error) {
	if g == nil {
		return nil, nil
	}
	return apply(g, t.fn)
}

func apply(g geom.T, fn coordFunc) (geom.T, error) {
	if gc, ok := g.(*geom.GeometryCollection); ok {
		out := geom.NewGeometryCollection()
		for _, child := range gc.Geoms() {
			c, err := apply(child, fn)
			if err != nil {
				return nil, err
			}
			if err := out.Push(c); err != nil {
				return nil, eris.Wrap(err, "crs: rebuild collection")
			}
		}
		return out, nil
	}

	out := clone(g)
	if out == nil {
		return nil, eris.Errorf("crs: unsupported geometry type %T", g)
	}
	if fn == nil {
		return out, nil
	}

	flat := out.FlatCoords()
	stride := out.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = fn(flat[i], flat[i+1])
	}
	return out, nil
}

// clone deep-copies g so its flat coordinates can be rewritten in place.
func clone(g geom.T) geom.T {
	switch t := g.(type) {
	case *geom.Point:
		return t.Clone()
	case *geom.MultiPoint:
		return t.Clone()
	case *geom.LineString:
		return t.Clone()
	case *geom.MultiLineString:
		return t.Clone()
	case *geom.LinearRing:
		return t.Clone()
	case *geom.Polygon:
		return t.Clone()
	case *geom.MultiPolygon:
		return t.Clone()
	}
	return nil
}
