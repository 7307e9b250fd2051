package locality

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/locality-cli/internal/model"
)

// Centroids returns one planar sample per record of g, index-aligned with
// g.Records. The first record without a centroid fails the whole group.
func Centroids(geo Geometry, g model.LocalityGroup) ([]model.PointSample, error) {
	samples := make([]model.PointSample, len(g.Records))
	for i, r := range g.Records {
		x, y, err := geo.Centroid(r.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "locality: centroid of record %d", r.Index)
		}
		samples[i] = model.PointSample{Index: i, X: x, Y: y}
	}
	return samples, nil
}
