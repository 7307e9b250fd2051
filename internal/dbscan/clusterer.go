package dbscan

// Clusterer adapts Run to a radius/min-size call with integer labels.
type Clusterer struct{}

// NewClusterer returns a DBSCAN-backed Clusterer.
func NewClusterer() *Clusterer { return &Clusterer{} }

// Cluster labels each (x, y) pair; -1 is noise.
func (c *Clusterer) Cluster(points [][2]float64, eps float64, minPts int) ([]int, error) {
	pts := make([]Point, len(points))
	for i, p := range points {
		pts[i] = Point{X: p[0], Y: p[1]}
	}
	return Run(pts, Params{Eps: eps, MinPts: minPts})
}
