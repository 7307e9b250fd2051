package locality

import "github.com/sells-group/locality-cli/internal/model"

// DefaultMinRecords is the smallest group worth clustering.
const DefaultMinRecords = 10

// Threshold decides whether a group has enough records to cluster.
type Threshold struct {
	MinRecords int
}

// Proceed reports whether g has at least MinRecords records.
func (t Threshold) Proceed(g model.LocalityGroup) bool {
	return g.Len() >= t.MinRecords
}
