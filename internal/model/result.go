package model

import "github.com/twpayne/go-geom"

// HullGeometry is the convex hull of one cluster's member geometries.
type HullGeometry struct {
	Label   ClusterLabel
	Members int // number of records in the cluster
	Polygon *geom.Polygon
}

// LocalityResult is the boundary produced for one locality.
type LocalityResult struct {
	Locality string
	Hulls    []HullGeometry
	Geometry *geom.MultiPolygon // hull polygons wrapped as one multi-polygon
}

// OutputDataset holds one LocalityResult per locality that produced at least
// one valid cluster, in the CRS named by CRS.
type OutputDataset struct {
	CRS     string
	Results []LocalityResult
}

// Localities returns the locality names in output order.
func (d *OutputDataset) Localities() []string {
	names := make([]string, 0, len(d.Results))
	for _, r := range d.Results {
		names = append(names, r.Locality)
	}
	return names
}
