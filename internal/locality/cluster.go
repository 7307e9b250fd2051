package locality

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/locality-cli/internal/model"
)

// Default clustering parameters.
const (
	DefaultEps        = 500.0
	DefaultMinSamples = 10
)

// ErrNoCluster is returned when every sample of a group is noise.
var ErrNoCluster = eris.New("locality: no valid cluster")

// Clusterer is a density-clustering primitive. It returns one label per point,
// in input order, with -1 marking noise.
type Clusterer interface {
	Cluster(points [][2]float64, eps float64, minPts int) ([]int, error)
}

// ClusterParams configures the clustering call.
type ClusterParams struct {
	Eps        float64
	MinSamples int
}

// Assignment is the clustering outcome for one group.
type Assignment struct {
	Labels   []model.ClusterLabel // index-aligned with the group's records
	Clusters []model.ClusterLabel // distinct non-noise labels, first-seen order
	Noise    int                  // samples labelled noise
}

// Members returns the record positions carrying label l, in record order.
func (a *Assignment) Members(l model.ClusterLabel) []int {
	var idx []int
	for i, got := range a.Labels {
		if got == l {
			idx = append(idx, i)
		}
	}
	return idx
}

// Assign clusters samples and converts raw labels to ClusterLabels. It returns
// the assignment together with ErrNoCluster when no sample joined a cluster.
func Assign(c Clusterer, samples []model.PointSample, params ClusterParams) (*Assignment, error) {
	points := make([][2]float64, len(samples))
	for i, s := range samples {
		points[i] = [2]float64{s.X, s.Y}
	}

	raw, err := c.Cluster(points, params.Eps, params.MinSamples)
	if err != nil {
		return nil, eris.Wrap(err, "locality: cluster")
	}
	if len(raw) != len(samples) {
		return nil, eris.Errorf("locality: clusterer returned %d labels for %d points", len(raw), len(samples))
	}

	a := &Assignment{Labels: make([]model.ClusterLabel, len(raw))}
	seen := make(map[model.ClusterLabel]bool)
	for i, r := range raw {
		l, err := model.LabelFromRaw(r)
		if err != nil {
			return nil, eris.Wrapf(err, "locality: label of point %d", i)
		}
		a.Labels[i] = l
		if l.IsNoise() {
			a.Noise++
			continue
		}
		if !seen[l] {
			seen[l] = true
			a.Clusters = append(a.Clusters, l)
		}
	}

	if len(a.Clusters) == 0 {
		return a, ErrNoCluster
	}
	return a, nil
}
