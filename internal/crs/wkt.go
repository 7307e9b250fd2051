package crs

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var authorityRe = regexp.MustCompile(`(?i)AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)

// wktNames maps WKT datum and projection names, as written by GDAL and ESRI
// tools, to canonical codes. Keys are upper case with spaces as underscores.
var wktNames = map[string]string{
	"WGS_84":                                 WGS84,
	"WGS_1984":                               WGS84,
	"GCS_WGS_1984":                           WGS84,
	"SIRGAS_2000":                            WGS84,
	"GCS_SIRGAS_2000":                        WGS84,
	"NAD83":                                  WGS84,
	"GCS_NORTH_AMERICAN_1983":                WGS84,
	"ETRS89":                                 WGS84,
	"GCS_ETRS_1989":                          WGS84,
	"WGS_84_/_PSEUDO_MERCATOR":               WebMercator,
	"WGS_1984_WEB_MERCATOR":                  WebMercator,
	"WGS_1984_WEB_MERCATOR_AUXILIARY_SPHERE": WebMercator,
	"POPULAR_VISUALISATION_CRS_/_MERCATOR":   WebMercator,
}

// FromWKT resolves the CRS described by a WKT1 string such as a shapefile
// .prj. The top-level EPSG authority wins; otherwise the GEOGCS or PROJCS
// name is matched against well-known spellings.
func FromWKT(wkt string) (string, error) {
	wkt = strings.TrimSpace(wkt)
	open := strings.IndexByte(wkt, '[')
	if open < 0 {
		return "", eris.Wrap(ErrUnsupportedCRS, "crs: malformed wkt")
	}
	kind := strings.ToUpper(strings.TrimSpace(wkt[:open]))
	if kind != "GEOGCS" && kind != "PROJCS" {
		return "", eris.Wrapf(ErrUnsupportedCRS, "crs: wkt %s", kind)
	}

	for _, m := range authorityRe.FindAllStringSubmatchIndex(wkt, -1) {
		if depthAt(wkt, m[0]) == 1 {
			return Normalize("EPSG:" + wkt[m[2]:m[3]])
		}
	}

	name := wktName(wkt[open+1:])
	if canon, ok := wktNames[name]; ok {
		return canon, nil
	}
	return "", eris.Wrapf(ErrUnsupportedCRS, "crs: wkt %s %q", kind, name)
}

// depthAt returns the bracket nesting depth at byte offset pos, ignoring
// brackets inside quoted names.
func depthAt(s string, pos int) int {
	depth := 0
	quoted := false
	for i := 0; i < pos; i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case '[':
			if !quoted {
				depth++
			}
		case ']':
			if !quoted {
				depth--
			}
		}
	}
	return depth
}

// wktName extracts the leading quoted name of a WKT node body.
func wktName(body string) string {
	start := strings.IndexByte(body, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(body[start+1:], '"')
	if end < 0 {
		return ""
	}
	name := strings.ToUpper(strings.TrimSpace(body[start+1 : start+1+end]))
	return strings.ReplaceAll(name, " ", "_")
}
