package graph

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/graph/layout"

	"contagion/internal/domain"
)

// Home region of the unit square reserved for the network layout. The
// corner above x=0.70, y=0.70 is reserved for the quarantine grid.
const (
	layoutMinX = 0.05
	layoutMinY = 0.10
	layoutSpan = 0.60
)

// Layout computes a force-directed 2-D layout for the network and
// normalizes it into the home region of the unit square. The same seed
// always yields the same layout.
func Layout(n *Network, seed uint64) map[int64]domain.Point {
	if n.Order() == 0 {
		return map[int64]domain.Point{}
	}

	eades := layout.EadesR2{
		Repulsion: 1,
		Rate:      0.05,
		Updates:   100,
		Theta:     0.1,
		Src:       rand.NewSource(seed),
	}
	optimizer := layout.NewOptimizerR2(n.g, eades.Update)
	for optimizer.Update() {
	}

	raw := make(map[int64]domain.Point, n.Order())
	for _, id := range n.ids {
		coord := optimizer.Coord2(id)
		raw[id] = domain.Point{X: coord.X, Y: coord.Y}
	}

	return normalize(raw)
}

// normalize rescales arbitrary coordinates into the home region.
// Degenerate axes (all nodes on one line) collapse to the region center.
func normalize(raw map[int64]domain.Point) map[int64]domain.Point {
	first := true
	var minX, maxX, minY, maxY float64
	for _, p := range raw {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	out := make(map[int64]domain.Point, len(raw))
	for id, p := range raw {
		x := layoutMinX + layoutSpan/2
		if maxX > minX {
			x = layoutMinX + (p.X-minX)/(maxX-minX)*layoutSpan
		}
		y := layoutMinY + layoutSpan/2
		if maxY > minY {
			y = layoutMinY + (p.Y-minY)/(maxY-minY)*layoutSpan
		}
		out[id] = domain.Point{X: x, Y: y}
	}
	return out
}
