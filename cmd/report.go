package main

import (
	"fmt"
	"io"

	"github.com/sells-group/locality-cli/internal/locality"
)

// consoleReporter prints per-locality progress for the operator.
type consoleReporter struct {
	w          io.Writer
	minRecords int
}

func (r consoleReporter) Locality(d locality.Diagnostic) {
	switch d.Outcome {
	case locality.OutcomeProcessed:
		_, _ = fmt.Fprintf(r.w, "Processing %s: %d records, %d clusters, %d noise\n", d.Locality, d.Records, d.Clusters, d.Noise)
	case locality.OutcomeInsufficient:
		_, _ = fmt.Fprintf(r.w, "Skipping %s: %d records, fewer than %d\n", d.Locality, d.Records, r.minRecords)
	case locality.OutcomeNoCluster:
		_, _ = fmt.Fprintf(r.w, "Skipping %s: no valid cluster\n", d.Locality)
	case locality.OutcomeFailed:
		_, _ = fmt.Fprintf(r.w, "Failed %s: %v\n", d.Locality, d.Err)
	}
}

func (r consoleReporter) Summary(s locality.Summary) {
	if s.Empty {
		return
	}
	_, _ = fmt.Fprintf(r.w, "\nLocalities written (%d of %d):\n", len(s.Written), s.Localities)
	for _, name := range s.Written {
		_, _ = fmt.Fprintf(r.w, "  - %s\n", name)
	}
}
