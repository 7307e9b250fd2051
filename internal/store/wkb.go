package store

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// encodeEWKB converts a boundary to little-endian EWKB carrying srid.
func encodeEWKB(mp *geom.MultiPolygon, srid int) ([]byte, error) {
	data, err := ewkb.Marshal(mp.Clone().SetSRID(srid), ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "store: encode EWKB")
	}
	return data, nil
}

// decodeEWKB parses a stored boundary.
func decodeEWKB(data []byte) (*geom.MultiPolygon, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "store: decode EWKB")
	}
	mp, ok := g.(*geom.MultiPolygon)
	if !ok {
		return nil, eris.Errorf("store: expected MultiPolygon, got %T", g)
	}
	return mp, nil
}
