package locality

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/locality-cli/internal/model"
)

// Geometry provides the planar primitives the pipeline delegates to.
type Geometry interface {
	Centroid(g geom.T) (x, y float64, err error)
	Union(geoms []geom.T) (geom.T, error)
	ConvexHull(g geom.T) (*geom.Polygon, error)
}

// Hulls unions the member geometries of each cluster and returns the convex
// hull of every union, in a.Clusters order. Membership comes from label
// position, never from re-matching geometries.
func Hulls(geo Geometry, g model.LocalityGroup, a *Assignment) ([]model.HullGeometry, error) {
	hulls := make([]model.HullGeometry, 0, len(a.Clusters))

	for _, label := range a.Clusters {
		members := a.Members(label)
		geoms := make([]geom.T, len(members))
		for i, m := range members {
			geoms[i] = g.Records[m].Geometry
		}

		union, err := geo.Union(geoms)
		if err != nil {
			return nil, eris.Wrapf(err, "locality: union of %s", label)
		}
		hull, err := geo.ConvexHull(union)
		if err != nil {
			return nil, eris.Wrapf(err, "locality: hull of %s", label)
		}

		hulls = append(hulls, model.HullGeometry{
			Label:   label,
			Members: len(members),
			Polygon: hull,
		})
	}

	return hulls, nil
}
