package locality

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/model"
)

// ErrNoResults is returned when no locality produced a valid cluster.
var ErrNoResults = eris.New("locality: no locality produced a valid cluster")

// Wrap packs hulls into a multi-polygon, even when there is only one.
func Wrap(hulls []model.HullGeometry) (*geom.MultiPolygon, error) {
	mp := geom.NewMultiPolygon(geom.XY)
	for _, h := range hulls {
		if err := mp.Push(h.Polygon); err != nil {
			return nil, eris.Wrapf(err, "locality: wrap %s", h.Label)
		}
	}
	return mp, nil
}

// Assemble builds the output dataset from planar per-locality results and
// reprojects every geometry with tr as the final step. It returns ErrNoResults
// when results is empty.
func Assemble(results []model.LocalityResult, tr *crs.Transformer) (*model.OutputDataset, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	out := &model.OutputDataset{CRS: tr.To(), Results: make([]model.LocalityResult, 0, len(results))}
	for _, r := range results {
		if len(r.Hulls) == 0 {
			continue
		}

		mp, err := Wrap(r.Hulls)
		if err != nil {
			return nil, err
		}
		projected, err := tr.Transform(mp)
		if err != nil {
			return nil, eris.Wrapf(err, "locality: reproject %q", r.Locality)
		}

		hulls := make([]model.HullGeometry, len(r.Hulls))
		pmp := projected.(*geom.MultiPolygon)
		for i, h := range r.Hulls {
			h.Polygon = pmp.Polygon(i)
			hulls[i] = h
		}

		out.Results = append(out.Results, model.LocalityResult{
			Locality: r.Locality,
			Hulls:    hulls,
			Geometry: pmp,
		})
	}

	if len(out.Results) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}
