package ingest

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/model"
)

// loadShapefile reads a shapefile, its .dbf attribute table, and the CRS
// declared by its .prj. opts.CRS applies only when there is no .prj.
func loadShapefile(ctx context.Context, shpPath string, opts Options) (*model.Dataset, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	attrIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, opts.Attribute) {
			attrIdx = i
			break
		}
	}
	if attrIdx < 0 {
		return nil, eris.Wrapf(ErrMissingAttribute, "ingest: shapefile has no field %q", opts.Attribute)
	}

	srcCRS, err := shapefileCRS(shpPath, opts.CRS)
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{CRS: srcCRS}
	var unsupported int

	for reader.Next() {
		n, shape := reader.Shape()
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "ingest: read shapefile")
			}
		}

		val := strings.TrimSpace(strings.TrimRight(reader.Attribute(attrIdx), "\x00"))
		g := shapeToGeom(shape)
		if g == nil && shape != nil {
			unsupported++
		}

		ds.Records = append(ds.Records, model.Record{
			Index:    n,
			Locality: localityName(val, opts),
			Geometry: g,
		})
	}

	if unsupported > 0 {
		zap.L().Debug("ingest: shapefile records with unsupported shape types",
			zap.String("path", shpPath),
			zap.Int("records", unsupported),
		)
	}

	return ds, nil
}

// shapefileCRS resolves the CRS from the .prj beside shpPath, falling back to
// def when there is none.
func shapefileCRS(shpPath, def string) (string, error) {
	base := strings.TrimSuffix(shpPath, filepath.Ext(shpPath))
	for _, ext := range []string{".prj", ".PRJ"} {
		data, err := os.ReadFile(base + ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", eris.Wrapf(err, "ingest: read %s", base+ext)
		}
		code, err := crs.FromWKT(string(data))
		if err != nil {
			return "", eris.Wrapf(err, "ingest: shapefile crs %s", filepath.Base(base+ext))
		}
		return code, nil
	}
	return def, nil
}

// shapeToGeom converts a go-shp shape to a go-geom geometry.
// Returns nil for nil, empty, or unsupported shapes.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case *shp.PointZ:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case *shp.MultiPoint:
		if len(s.Points) == 0 {
			return nil
		}
		return geom.NewMultiPointFlat(geom.XY, flatPoints(s.Points))
	case *shp.PolyLine:
		return polyLineToMultiLineString(s)
	case *shp.Polygon:
		return polygonToMultiPolygon(s)
	}
	return nil
}

// partBounds returns the [start, end) point range of part i.
func partBounds(parts []int32, numParts int32, numPoints int, i int32) (int32, int32) {
	start := parts[i]
	end := int32(numPoints)
	if i+1 < numParts {
		end = parts[i+1]
	}
	return start, end
}

// polyLineToMultiLineString converts a shapefile PolyLine to a geom.MultiLineString.
func polyLineToMultiLineString(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY)
	for i := int32(0); i < pl.NumParts; i++ {
		start, end := partBounds(pl.Parts, pl.NumParts, len(pl.Points), i)
		ls := geom.NewLineStringFlat(geom.XY, flatPoints(pl.Points[start:end]))
		if err := mls.Push(ls); err != nil {
			zap.L().Debug("ingest: skipping malformed linestring part", zap.Int32("part", i), zap.Error(err))
		}
	}

	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one polygon per ring.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start, end := partBounds(p.Parts, p.NumParts, len(p.Points), i)
		ring := geom.NewLinearRingFlat(geom.XY, flatPoints(p.Points[start:end]))
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

func flatPoints(pts []shp.Point) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}
