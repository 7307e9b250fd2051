// Package ingest reads locality-tagged geometries from GeoJSON files,
// shapefiles, or ZIP archives holding either.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/model"
)

// ErrMissingAttribute is returned when a record lacks the locality attribute.
var ErrMissingAttribute = eris.New("ingest: missing locality attribute")

// Options configures how input records are read.
type Options struct {
	Attribute string // property naming the locality (e.g. DSC_LOCALIDADE)
	CRS       string // CRS assumed when the file does not declare one
	Normalize bool   // NFC-normalise and trim locality names
	TempDir   string // scratch space for ZIP extraction; os.TempDir() if empty
}

// Load reads every record of the dataset at path.
func Load(ctx context.Context, path string, opts Options) (*model.Dataset, error) {
	if opts.Attribute == "" {
		return nil, eris.New("ingest: locality attribute is required")
	}
	if opts.CRS == "" {
		opts.CRS = crs.WGS84
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "ingest: load")
	}

	log := zap.L().With(zap.String("component", "ingest"), zap.String("path", path))

	var (
		ds  *model.Dataset
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".zip":
		ds, err = loadZIP(ctx, path, opts)
	case ".geojson", ".json":
		ds, err = loadGeoJSONFile(ctx, path, opts)
	case ".shp":
		ds, err = loadShapefile(ctx, path, opts)
	default:
		return nil, eris.Errorf("ingest: unsupported input format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	log.Info("loaded records", zap.Int("records", len(ds.Records)), zap.String("crs", ds.CRS))
	return ds, nil
}

// loadZIP extracts the archive and loads the first supported dataset inside.
func loadZIP(ctx context.Context, path string, opts Options) (*model.Dataset, error) {
	dir, err := os.MkdirTemp(opts.TempDir, "locality-ingest-*")
	if err != nil {
		return nil, eris.Wrap(err, "ingest: create extract dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	files, err := ExtractZIP(path, dir)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: extract archive")
	}

	for _, want := range []string{".geojson", ".json", ".shp"} {
		for _, f := range files {
			if !strings.EqualFold(filepath.Ext(f), want) {
				continue
			}
			if want == ".shp" {
				return loadShapefile(ctx, f, opts)
			}
			return loadGeoJSONFile(ctx, f, opts)
		}
	}

	return nil, eris.Errorf("ingest: no GeoJSON or shapefile found in %s", filepath.Base(path))
}

// localityName applies the configured normalisation to a raw attribute value.
func localityName(raw string, opts Options) string {
	if opts.Normalize {
		return NormalizeLocality(raw)
	}
	return raw
}
