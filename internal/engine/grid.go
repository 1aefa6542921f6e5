package engine

import (
	"math"

	"github.com/san-kum/swarmsim/internal/vector"
)

// cellLimit keeps far-flung coordinates inside int64 cell indices.
const cellLimit = 1 << 52

type cell struct{ x, y int64 }

// grid buckets points into square cells of a fixed size. Any two points
// within size of each other sit in the same or adjacent cells.
type grid struct {
	size  float64
	cells map[cell][]int
	of    []cell
	valid []bool
}

func newGrid(size float64, n int, pos func(i int) vector.Vector2) *grid {
	g := &grid{
		size:  size,
		cells: make(map[cell][]int),
		of:    make([]cell, n),
		valid: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		p := pos(i)
		if !p.IsFinite() {
			continue
		}
		c := cell{g.index(p.X), g.index(p.Y)}
		g.of[i] = c
		g.valid[i] = true
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *grid) index(v float64) int64 {
	c := math.Floor(v / g.size)
	return int64(math.Max(-cellLimit, math.Min(cellLimit, c)))
}

// neighbours visits every j > i in the 3x3 block of cells around i, in a
// fixed order.
func (g *grid) neighbours(i int, visit func(j int)) {
	if !g.valid[i] {
		return
	}
	c := g.of[i]
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, j := range g.cells[cell{c.x + dx, c.y + dy}] {
				if j > i {
					visit(j)
				}
			}
		}
	}
}
