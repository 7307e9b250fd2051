package dbscan

import "math"

// gridIndex buckets points into square cells of side eps so a radius query
// only inspects the 3x3 block of cells around the query point.
type gridIndex struct {
	cellSize float64
	cells    map[cellKey][]int
}

type cellKey struct {
	x int64
	y int64
}

func newGridIndex(cellSize float64) *gridIndex {
	return &gridIndex{cellSize: cellSize, cells: make(map[cellKey][]int)}
}

func (g *gridIndex) key(x, y float64) cellKey {
	return cellKey{
		x: int64(math.Floor(x / g.cellSize)),
		y: int64(math.Floor(y / g.cellSize)),
	}
}

func (g *gridIndex) build(points []Point) {
	for i, p := range points {
		k := g.key(p.X, p.Y)
		g.cells[k] = append(g.cells[k], i)
	}
}

// regionQuery returns the indices of every point within eps of points[idx],
// idx included, in ascending index order within each cell.
func (g *gridIndex) regionQuery(points []Point, idx int, eps float64) []int {
	p := points[idx]
	eps2 := eps * eps
	base := g.key(p.X, p.Y)

	var neighbors []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, c := range g.cells[cellKey{x: base.x + dx, y: base.y + dy}] {
				q := points[c]
				ddx := q.X - p.X
				ddy := q.Y - p.Y
				if ddx*ddx+ddy*ddy <= eps2 {
					neighbors = append(neighbors, c)
				}
			}
		}
	}
	return neighbors
}
