// Package store persists pipeline runs and the locality boundaries they
// produced.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/locality-cli/internal/model"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = eris.New("store: not found")

// Run describes one pipeline execution.
type Run struct {
	ID         string
	Input      string // input path
	CRS        string // CRS of the stored boundaries
	Eps        float64
	MinSamples int
	MinRecords int
	Localities int // localities seen in the input
	CreatedAt  time.Time
}

// NewRun returns a Run with a fresh identifier.
func NewRun(input, crs string) Run {
	return Run{
		ID:        uuid.New().String(),
		Input:     input,
		CRS:       crs,
		CreatedAt: time.Now().UTC(),
	}
}

// Boundary is one stored locality boundary.
type Boundary struct {
	RunID    string
	Locality string
	Clusters int
	Members  int // records across all clusters
	Geometry *geom.MultiPolygon
}

// Store defines the persistence interface for pipeline results.
type Store interface {
	// SaveRun stores run and one boundary per result, replacing any boundaries
	// previously saved for the same run and locality.
	SaveRun(ctx context.Context, run Run, results []model.LocalityResult) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListBoundaries(ctx context.Context, runID string) ([]Boundary, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// boundaries converts results to rows for run.
func boundaries(run Run, results []model.LocalityResult) ([]Boundary, error) {
	if run.ID == "" {
		return nil, eris.New("store: run id is required")
	}

	out := make([]Boundary, 0, len(results))
	for _, r := range results {
		if r.Geometry == nil {
			return nil, eris.Errorf("store: locality %q has no geometry", r.Locality)
		}
		b := Boundary{
			RunID:    run.ID,
			Locality: r.Locality,
			Clusters: len(r.Hulls),
			Geometry: r.Geometry,
		}
		for _, h := range r.Hulls {
			b.Members += h.Members
		}
		out = append(out, b)
	}
	return out, nil
}

const defaultListLimit = 100
