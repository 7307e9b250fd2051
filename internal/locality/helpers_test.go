package locality

import (
	"math"
	"testing"

	"github.com/twpayne/go-geom"
	"go.uber.org/goleak"

	"github.com/sells-group/locality-cli/internal/crs"
	"github.com/sells-group/locality-cli/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// circleRecords places n point records evenly on a circle of radius r.
func circleRecords(loc string, cx, cy, r float64, n int) []model.Record {
	recs := make([]model.Record, n)
	for i := range recs {
		a := 2 * math.Pi * float64(i) / float64(n)
		recs[i] = model.Record{
			Locality: loc,
			Geometry: geom.NewPointFlat(geom.XY, []float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}),
		}
	}
	return recs
}

// lineRecords places n point records spaced step apart along the x axis.
func lineRecords(loc string, x0, step float64, n int) []model.Record {
	recs := make([]model.Record, n)
	for i := range recs {
		recs[i] = model.Record{
			Locality: loc,
			Geometry: geom.NewPointFlat(geom.XY, []float64{x0 + float64(i)*step, 0}),
		}
	}
	return recs
}

// planarDataset indexes records and wraps them in a Web Mercator dataset.
func planarDataset(groups ...[]model.Record) *model.Dataset {
	ds := &model.Dataset{CRS: crs.WebMercator}
	for _, g := range groups {
		for _, r := range g {
			r.Index = len(ds.Records)
			ds.Records = append(ds.Records, r)
		}
	}
	return ds
}

// planarConfig keeps output in the working CRS so tests can compare coordinates.
func planarConfig() Config {
	cfg := DefaultConfig()
	cfg.TargetCRS = crs.WebMercator
	return cfg
}

// countingClusterer records how often it is called and delegates to next.
type countingClusterer struct {
	next  Clusterer
	calls int
}

func (c *countingClusterer) Cluster(points [][2]float64, eps float64, minPts int) ([]int, error) {
	c.calls++
	return c.next.Cluster(points, eps, minPts)
}

// fixedClusterer returns preset labels.
type fixedClusterer struct {
	labels []int
	err    error
}

func (f fixedClusterer) Cluster(points [][2]float64, _ float64, _ int) ([]int, error) {
	return f.labels, f.err
}

// insideConvex reports whether (x, y) lies inside or on a convex polygon.
func insideConvex(p *geom.Polygon, x, y float64) bool {
	ring := p.LinearRing(0).Coords()
	sign := 0
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		cross := (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
		switch {
		case cross > 1e-6:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < -1e-6:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}
