// Package geometry wraps the go-geom primitives the pipeline needs: centroids,
// unions of member geometries, and convex hulls.
package geometry

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// ErrEmptyGeometry is returned when a geometry has no coordinates to work with.
var ErrEmptyGeometry = eris.New("geometry: empty geometry")

// Centroid returns the planar centroid of g.
func Centroid(g geom.T) (x, y float64, err error) {
	if g == nil || g.Empty() {
		return 0, 0, ErrEmptyGeometry
	}
	if gc, ok := g.(*geom.GeometryCollection); ok {
		return collectionCentroid(gc)
	}

	c, err := xy.Centroid(g)
	if err != nil {
		return 0, 0, eris.Wrap(err, "geometry: centroid")
	}
	if len(c) < 2 || math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return 0, 0, eris.Errorf("geometry: centroid undefined for %T", g)
	}
	return c[0], c[1], nil
}

// collectionCentroid averages the vertices of a heterogeneous collection.
func collectionCentroid(gc *geom.GeometryCollection) (float64, float64, error) {
	coords := Coords(gc)
	if len(coords) == 0 {
		return 0, 0, ErrEmptyGeometry
	}
	var sx, sy float64
	for _, c := range coords {
		sx += c[0]
		sy += c[1]
	}
	n := float64(len(coords))
	return sx / n, sy / n, nil
}

// Union collects member geometries into one geometry for hull computation; no
// topological dissolve is performed, so overlapping or adjacent members keep
// their own rings. Polygonal inputs yield a MultiPolygon, point inputs a
// MultiPoint, anything else a GeometryCollection. The result carries exactly
// the coordinates of its inputs, which is all ConvexHull needs.
func Union(geoms []geom.T) (geom.T, error) {
	if len(geoms) == 0 {
		return nil, ErrEmptyGeometry
	}

	switch {
	case allPolygonal(geoms):
		mp := geom.NewMultiPolygon(geom.XY)
		for _, g := range geoms {
			for _, p := range polygonsOf(g) {
				if err := mp.Push(p); err != nil {
					return nil, eris.Wrap(err, "geometry: union polygons")
				}
			}
		}
		return mp, nil

	case allPoints(geoms):
		mpt := geom.NewMultiPoint(geom.XY)
		for _, g := range geoms {
			for _, c := range Coords(g) {
				if err := mpt.Push(geom.NewPointFlat(geom.XY, []float64{c[0], c[1]})); err != nil {
					return nil, eris.Wrap(err, "geometry: union points")
				}
			}
		}
		return mpt, nil

	default:
		gc := geom.NewGeometryCollection()
		for _, g := range geoms {
			if err := gc.Push(g); err != nil {
				return nil, eris.Wrap(err, "geometry: union collection")
			}
		}
		return gc, nil
	}
}

// ConvexHull returns the convex hull of g as a polygon. Hulls of coincident or
// collinear coordinates are returned as degenerate polygons whose closed ring
// visits the hull's vertices.
func ConvexHull(g geom.T) (*geom.Polygon, error) {
	coords := Coords(g)
	if len(coords) == 0 {
		return nil, ErrEmptyGeometry
	}

	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}

	hull := xy.ConvexHullFlat(geom.XY, flat)
	if hull == nil {
		return nil, eris.New("geometry: convex hull returned nothing")
	}
	return ToPolygon(hull)
}

// ToPolygon converts a hull result to a polygon, closing rings and expanding
// point or line hulls into degenerate rings.
func ToPolygon(g geom.T) (*geom.Polygon, error) {
	if p, ok := g.(*geom.Polygon); ok && p.NumLinearRings() > 0 {
		return closeRings(p)
	}

	coords := Coords(g)
	if len(coords) == 0 {
		return nil, ErrEmptyGeometry
	}

	// Walk the vertices out and back so the ring is closed and has >= 4 points.
	ring := make([]geom.Coord, 0, 2*len(coords)+2)
	for _, c := range coords {
		ring = append(ring, geom.Coord{c[0], c[1]})
	}
	for i := len(coords) - 2; i >= 0; i-- {
		ring = append(ring, geom.Coord{coords[i][0], coords[i][1]})
	}
	for len(ring) < 4 {
		ring = append(ring, geom.Coord{coords[0][0], coords[0][1]})
	}

	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, eris.Wrap(err, "geometry: build degenerate polygon")
	}
	return poly, nil
}

// closeRings returns p with every ring explicitly closed.
func closeRings(p *geom.Polygon) (*geom.Polygon, error) {
	rings := p.Coords()
	for i, r := range rings {
		if len(r) == 0 {
			continue
		}
		first, last := r[0], r[len(r)-1]
		if first[0] != last[0] || first[1] != last[1] {
			rings[i] = append(r, geom.Coord{first[0], first[1]})
		}
		for j := range rings[i] {
			rings[i][j] = geom.Coord{rings[i][j][0], rings[i][j][1]}
		}
	}
	out, err := geom.NewPolygon(geom.XY).SetCoords(rings)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: close rings")
	}
	return out, nil
}

// Coords returns every XY vertex of g in storage order.
func Coords(g geom.T) [][2]float64 {
	if g == nil {
		return nil
	}
	if gc, ok := g.(*geom.GeometryCollection); ok {
		var out [][2]float64
		for _, child := range gc.Geoms() {
			out = append(out, Coords(child)...)
		}
		return out
	}

	flat := g.FlatCoords()
	stride := g.Stride()
	if stride < 2 {
		return nil
	}
	out := make([][2]float64, 0, len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		out = append(out, [2]float64{flat[i], flat[i+1]})
	}
	return out
}

func allPolygonal(geoms []geom.T) bool {
	for _, g := range geoms {
		switch g.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			return false
		}
	}
	return true
}

func allPoints(geoms []geom.T) bool {
	for _, g := range geoms {
		switch g.(type) {
		case *geom.Point, *geom.MultiPoint:
		default:
			return false
		}
	}
	return true
}

// polygonsOf returns the polygons of a polygonal geometry flattened to XY.
func polygonsOf(g geom.T) []*geom.Polygon {
	var polys []*geom.Polygon
	switch t := g.(type) {
	case *geom.Polygon:
		polys = append(polys, t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
	}

	out := make([]*geom.Polygon, 0, len(polys))
	for _, p := range polys {
		if p.Empty() {
			continue
		}
		if p.Layout() == geom.XY {
			out = append(out, p)
			continue
		}
		rings := p.Coords()
		for i := range rings {
			for j := range rings[i] {
				rings[i][j] = geom.Coord{rings[i][j][0], rings[i][j][1]}
			}
		}
		flat, err := geom.NewPolygon(geom.XY).SetCoords(rings)
		if err != nil {
			continue
		}
		out = append(out, flat)
	}
	return out
}
