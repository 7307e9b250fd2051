// Package locality turns locality-tagged geometries into one boundary per
// locality: partition by locality, drop sparse groups, cluster centroids,
// hull each cluster, and assemble multi-polygons.
package locality

import "github.com/sells-group/locality-cli/internal/model"

// Partition groups records by locality. Groups are ordered by the first
// appearance of their locality and keep records in input order; every record
// lands in exactly one group.
func Partition(records []model.Record) []model.LocalityGroup {
	index := make(map[string]int)
	var groups []model.LocalityGroup

	for _, r := range records {
		i, ok := index[r.Locality]
		if !ok {
			i = len(groups)
			index[r.Locality] = i
			groups = append(groups, model.LocalityGroup{Locality: r.Locality})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	return groups
}
