package geometry

import "github.com/twpayne/go-geom"

// Engine exposes the package functions as a value for callers that accept the
// primitives through an interface.
type Engine struct{}

// Centroid implements the pipeline's geometry interface.
func (Engine) Centroid(g geom.T) (float64, float64, error) { return Centroid(g) }

// Union implements the pipeline's geometry interface.
func (Engine) Union(geoms []geom.T) (geom.T, error) { return Union(geoms) }

// ConvexHull implements the pipeline's geometry interface.
func (Engine) ConvexHull(g geom.T) (*geom.Polygon, error) { return ConvexHull(g) }
