package crs

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{
		"EPSG:4326":                     WGS84,
		"epsg:3857":                     WebMercator,
		"EPSG:900913":                   WebMercator,
		"urn:ogc:def:crs:EPSG::4326":    WGS84,
		"urn:ogc:def:crs:OGC:1.3:CRS84": WGS84,
		"  EPSG:3857 ":                  WebMercator,
		"EPSG:4674":                     WGS84,
		"urn:ogc:def:crs:EPSG::4674":    WGS84,
		"EPSG:4269":                     WGS84,
		"EPSG:4258":                     WGS84,
	} {
		got, err := Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Normalize("EPSG:31983")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnsupportedCRS))
}

func TestSRID(t *testing.T) {
	n, err := SRID("urn:ogc:def:crs:OGC:1.3:CRS84")
	require.NoError(t, err)
	assert.Equal(t, 4326, n)

	n, err = SRID("EPSG:4674")
	require.NoError(t, err)
	assert.Equal(t, 4326, n)

	n, err = SRID("EPSG:900913")
	require.NoError(t, err)
	assert.Equal(t, 3857, n)

	_, err = SRID("EPSG:31983")
	assert.True(t, eris.Is(err, ErrUnsupportedCRS))
}

func reproject(t *testing.T, g geom.T, from, to string) geom.T {
	t.Helper()
	tr, err := NewTransformer(from, to)
	require.NoError(t, err)
	out, err := tr.Transform(g)
	require.NoError(t, err)
	return out
}

func TestTransform_KnownPoint(t *testing.T) {
	// Porto Ferreira, SP.
	p := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{-47.48, -21.85})

	out := reproject(t, p, WGS84, WebMercator)

	c := out.(*geom.Point).Coords()
	assert.InDelta(t, -5285449.42, c[0], 0.1)
	assert.InDelta(t, -2493525.44, c[1], 0.1)

	// Input untouched.
	assert.Equal(t, -47.48, p.X())
}

func TestTransform_SIRGASMatchesWGS84(t *testing.T) {
	p := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{-47.48, -21.85})

	a := reproject(t, p, "urn:ogc:def:crs:EPSG::4674", WebMercator)
	b := reproject(t, p, WGS84, WebMercator)
	assert.Equal(t, b.FlatCoords(), a.FlatCoords())
}

func TestTransform_RoundTrip(t *testing.T) {
	poly := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{{{
		{-47.49, -21.86}, {-47.47, -21.86}, {-47.47, -21.84}, {-47.49, -21.84}, {-47.49, -21.86},
	}}})

	planar := reproject(t, poly, WGS84, WebMercator)
	back := reproject(t, planar, WebMercator, WGS84)
	again := reproject(t, back, WGS84, WebMercator)

	orig := poly.FlatCoords()
	got := back.FlatCoords()
	require.Len(t, got, len(orig))
	for i := range orig {
		assert.InDelta(t, orig[i], got[i], 1e-9)
	}

	p1 := planar.FlatCoords()
	p2 := again.FlatCoords()
	for i := range p1 {
		assert.InDelta(t, p1[i], p2[i], 1e-6)
	}
}

func TestTransform_Identity(t *testing.T) {
	p := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{1, 2})

	tr, err := NewTransformer(WebMercator, "EPSG:900913")
	require.NoError(t, err)
	assert.Equal(t, WebMercator, tr.To())

	out, err := tr.Transform(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out.FlatCoords())
}

func TestTransform_KeepsZ(t *testing.T) {
	p := geom.NewPoint(geom.XYZ).MustSetCoords(geom.Coord{0, 0, 42})

	out := reproject(t, p, WGS84, WebMercator)
	assert.Equal(t, 42.0, out.FlatCoords()[2])
}

func TestTransform_Collection(t *testing.T) {
	gc := geom.NewGeometryCollection()
	require.NoError(t, gc.Push(geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{180, 0})))

	out := reproject(t, gc, WGS84, WebMercator)
	child := out.(*geom.GeometryCollection).Geom(0)
	assert.InDelta(t, 20037508.34, child.FlatCoords()[0], 0.01)
}

func TestTransform_Nil(t *testing.T) {
	tr, err := NewTransformer(WGS84, WebMercator)
	require.NoError(t, err)
	out, err := tr.Transform(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestNewTransformer_Unsupported(t *testing.T) {
	_, err := NewTransformer("EPSG:4326", "EPSG:32723")
	assert.True(t, eris.Is(err, ErrUnsupportedCRS))
}
