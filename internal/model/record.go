// Package model defines the records, labels, and results that flow through the
// locality boundary pipeline.
package model

import "github.com/twpayne/go-geom"

// Record is one input geometry tagged with the locality it belongs to.
// Records are read-only once loaded.
type Record struct {
	Index    int    // position in the source dataset
	Locality string // locality identifier
	Geometry geom.T
}

// Dataset is the resident input: every record plus the CRS they are expressed in.
type Dataset struct {
	CRS     string
	Records []Record
}

// LocalityGroup is the ordered set of records sharing one locality identifier.
type LocalityGroup struct {
	Locality string
	Records  []Record
}

// Len returns the number of records in the group.
func (g LocalityGroup) Len() int { return len(g.Records) }

// PointSample is the planar centroid of Records[Index] within a group.
type PointSample struct {
	Index int
	X     float64
	Y     float64
}
