package engine

import (
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/san-kum/swarmsim/internal/vector"
)

func TestGrid_CoversPairsWithinSize(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pts := make([]vector.Vector2, 400)
	for i := range pts {
		pts[i] = vector.New(rng.Float64()*300-150, rng.Float64()*300-150)
	}
	const size = 25.0

	g := newGrid(size, len(pts), func(i int) vector.Vector2 { return pts[i] })

	for i := range pts {
		seen := map[int]bool{}
		g.neighbours(i, func(j int) {
			if j <= i {
				t.Fatalf("visited j=%d not above i=%d", j, i)
			}
			if seen[j] {
				t.Fatalf("visited %d twice from %d", j, i)
			}
			seen[j] = true
		})
		for j := i + 1; j < len(pts); j++ {
			if pts[i].Dist(pts[j]) <= size && !seen[j] {
				t.Fatalf("pair %d,%d at %.2f missed", i, j, pts[i].Dist(pts[j]))
			}
		}
	}
}

func TestGrid_NonFinite(t *testing.T) {
	pts := []vector.Vector2{
		vector.New(0, 0),
		vector.New(math.NaN(), 0),
		vector.New(1, 1),
		vector.New(1e300, -1e300),
	}
	g := newGrid(10, len(pts), func(i int) vector.Vector2 { return pts[i] })

	var got []int
	g.neighbours(0, func(j int) { got = append(got, j) })
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected only node 2 near node 0, got %v", got)
	}

	g.neighbours(1, func(j int) { t.Errorf("non-finite node visited %d", j) })
}

func TestParallelFor(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		workers  int
		minChunk int
		want     int
	}{
		{"serial", 100, 1, 10, 1},
		{"small", 8, 4, 16, 1},
		{"capped by chunk", 40, 8, 10, 4},
		{"full", 1000, 4, 16, 4},
		{"uneven", 10, 4, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var covered int64
			ranges := make([][2]int, tt.workers)
			used := parallelFor(tt.n, tt.workers, tt.minChunk, func(w, start, end int) {
				ranges[w] = [2]int{start, end}
				atomic.AddInt64(&covered, int64(end-start))
			})
			if used != tt.want {
				t.Errorf("expected %d workers, got %d", tt.want, used)
			}
			if covered != int64(tt.n) {
				t.Errorf("covered %d of %d", covered, tt.n)
			}

			rs := ranges[:used]
			sort.Slice(rs, func(a, b int) bool { return rs[a][0] < rs[b][0] })
			next := 0
			for _, r := range rs {
				if r[0] != next {
					t.Fatalf("gap or overlap at %d: %v", next, rs)
				}
				next = r[1]
			}
		})
	}
}

func TestBufferPool(t *testing.T) {
	p := newBufferPool()

	buf := p.get(4)
	if len(buf) != 4 {
		t.Fatalf("expected len 4, got %d", len(buf))
	}
	buf[2] = vector.New(3, 3)
	p.put(buf)

	for i := 0; i < 3; i++ {
		again := p.get(3)
		if len(again) != 3 {
			t.Fatalf("expected len 3, got %d", len(again))
		}
		for j, v := range again {
			if !v.IsZero() {
				t.Fatalf("recycled buffer not zeroed at %d: %v", j, v)
			}
		}
		p.put(again)
	}
}

func BenchmarkPeerPass(b *testing.B) {
	for _, bc := range []struct {
		name    string
		maxDist float64
		workers int
	}{
		{"full/serial", 0, 1},
		{"full/parallel", 0, 4},
		{"grid/serial", 150, 1},
		{"grid/parallel", 150, 4},
	} {
		b.Run(bc.name, func(b *testing.B) {
			e, snap := benchEngine(b, bc.maxDist, bc.workers, 1000)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.pool.put(e.ComputeForces(snap))
			}
		})
	}
}
