// Package export writes locality boundaries to vector files.
package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/locality-cli/internal/model"
)

// FeatureCollection builds one feature per result. Each feature carries the
// locality name under attr and the result's multi-polygon as geometry.
func FeatureCollection(results []model.LocalityResult, attr string) (*geojson.FeatureCollection, error) {
	if attr == "" {
		return nil, eris.New("export: output attribute is required")
	}

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(results))}
	for _, r := range results {
		if r.Geometry == nil {
			return nil, eris.Errorf("export: locality %q has no geometry", r.Locality)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   r.Geometry,
			Properties: map[string]interface{}{attr: r.Locality},
		})
	}
	return fc, nil
}

// EncodeGeoJSON writes results to w as a GeoJSON FeatureCollection.
func EncodeGeoJSON(w io.Writer, results []model.LocalityResult, attr string) error {
	fc, err := FeatureCollection(results, attr)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	return nil
}

// WriteGeoJSON writes results to path, creating the parent directory when
// missing. The file is written to a sibling temp file first and renamed into
// place, so a failed write never leaves a partial output behind.
func WriteGeoJSON(path string, results []model.LocalityResult, attr string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrap(err, "export: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := EncodeGeoJSON(tmp, results, attr); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "export: close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "export: rename to %s", path)
	}

	zap.L().Info("wrote geojson",
		zap.String("component", "export"),
		zap.String("path", path),
		zap.Int("features", len(results)),
	)
	return nil
}
