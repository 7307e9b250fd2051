package ingest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLocality returns name in Unicode NFC with surrounding and repeated
// inner whitespace collapsed, so "São  Paulo" and "São Paulo" group together.
func NormalizeLocality(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}
