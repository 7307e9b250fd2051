// Package dbscan implements density-based spatial clustering over planar points.
//
// Labels follow the common convention: -1 marks noise and clusters are numbered
// from 0 in the order their first core point is discovered. A point counts
// itself when its neighbourhood size is compared with MinPts.
package dbscan

import (
	"math"

	"github.com/rotisserie/eris"
)

// Noise is the label assigned to points outside every cluster.
const Noise = -1

// unvisited marks points not yet examined during a run.
const unvisited = -2

// Point is a planar coordinate.
type Point struct {
	X float64
	Y float64
}

// Params configures a clustering run.
type Params struct {
	Eps    float64 // neighbourhood radius in planar units
	MinPts int     // minimum neighbourhood size, the point itself included
}

// Validate checks that the parameters can produce clusters.
func (p Params) Validate() error {
	if p.Eps <= 0 || math.IsNaN(p.Eps) || math.IsInf(p.Eps, 0) {
		return eris.Errorf("dbscan: eps must be a positive finite number, got %v", p.Eps)
	}
	if p.MinPts < 1 {
		return eris.Errorf("dbscan: min_pts must be at least 1, got %d", p.MinPts)
	}
	return nil
}

// Run clusters points and returns one label per point, index-aligned.
func Run(points []Point, params Params) ([]int, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}
	if len(points) == 0 {
		return labels, nil
	}

	index := newGridIndex(params.Eps)
	index.build(points)

	clusterID := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}

		neighbors := index.regionQuery(points, i, params.Eps)
		if len(neighbors) < params.MinPts {
			labels[i] = Noise
			continue
		}

		expand(points, index, labels, i, neighbors, clusterID, params)
		clusterID++
	}

	return labels, nil
}

// expand grows a cluster breadth-first from a core point.
func expand(points []Point, index *gridIndex, labels []int, seed int, neighbors []int, clusterID int, params Params) {
	labels[seed] = clusterID

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == Noise {
			// Border point: reachable but not itself core.
			labels[idx] = clusterID
			continue
		}
		if labels[idx] != unvisited {
			continue
		}

		labels[idx] = clusterID
		next := index.regionQuery(points, idx, params.Eps)
		if len(next) >= params.MinPts {
			neighbors = append(neighbors, next...)
		}
	}
}
