package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/model"
)

// legacyCRS captures the pre-RFC 7946 "crs" member some exporters still write.
type legacyCRS struct {
	CRS *struct {
		Type       string `json:"type"`
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

func loadGeoJSONFile(ctx context.Context, path string, opts Options) (*model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	return ParseGeoJSON(ctx, data, opts)
}

// ParseGeoJSON decodes a FeatureCollection into a dataset. A declared "crs"
// member overrides opts.CRS.
func ParseGeoJSON(ctx context.Context, data []byte, opts Options) (*model.Dataset, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "ingest: decode feature collection")
	}

	srcCRS := opts.CRS
	var lc legacyCRS
	if err := json.Unmarshal(data, &lc); err == nil && lc.CRS != nil && lc.CRS.Properties.Name != "" {
		code, err := crs.Normalize(lc.CRS.Properties.Name)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: declared crs")
		}
		srcCRS = code
	}

	ds := &model.Dataset{CRS: srcCRS, Records: make([]model.Record, 0, len(fc.Features))}
	for i, f := range fc.Features {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "ingest: parse features")
			}
		}

		raw, ok := f.Properties[opts.Attribute]
		if !ok || raw == nil {
			return nil, eris.Wrapf(ErrMissingAttribute, "ingest: feature %d has no %q", i, opts.Attribute)
		}

		ds.Records = append(ds.Records, model.Record{
			Index:    i,
			Locality: localityName(attributeString(raw), opts),
			Geometry: f.Geometry,
		})
	}

	return ds, nil
}

// attributeString renders a decoded JSON property as a locality identifier.
func attributeString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
