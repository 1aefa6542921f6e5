package engine

import (
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// ComputeForces returns the net force on every node, indexed by handle.
// Each edge pushes its force onto the source and the negation onto the
// target; each same-kind pair does the same through BetweenPeers. The
// snapshot is only read.
//
// The returned buffer may be handed back through ApplyAll and is reused by
// Step; callers that keep it past the frame should copy it.
func (e *Engine) ComputeForces(snap *entity.Snapshot) []vector.Vector2 {
	if snap == nil {
		return nil
	}
	acc := e.pool.get(len(snap.Nodes))

	for _, edge := range snap.Edges {
		f := e.ForceAlongEdge(snap, edge)
		if f.IsZero() {
			continue
		}
		acc[edge.Source] = acc[edge.Source].Add(f)
		acc[edge.Target] = acc[edge.Target].Sub(f)
	}

	for _, kind := range entity.Kinds() {
		e.peerPass(snap, snap.Handles(kind), acc)
	}

	for i, f := range acc {
		if !f.IsFinite() {
			acc[i] = vector.Zero
			e.stats.Clamped++
		}
	}
	return acc
}

// peerPass accumulates BetweenPeers over every unordered pair of hs. With a
// max distance the pairs come from a uniform grid of that cell size, which
// only drops pairs the calculator would zero anyway.
func (e *Engine) peerPass(snap *entity.Snapshot, hs []entity.Handle, acc []vector.Vector2) {
	n := len(hs)
	if n < 2 {
		return
	}

	neighbours := func(i int, visit func(j int)) {
		for j := i + 1; j < n; j++ {
			visit(j)
		}
	}
	if e.maxDistance > 0 {
		g := newGrid(e.maxDistance, n, func(i int) vector.Vector2 { return snap.Nodes[hs[i]].Pos })
		neighbours = g.neighbours
	}

	pairs := func(out []vector.Vector2, start, end int) {
		for i := start; i < end; i++ {
			a := snap.Nodes[hs[i]]
			neighbours(i, func(j int) {
				f := e.calc.BetweenPeers(a, snap.Nodes[hs[j]])
				if f.IsZero() {
					return
				}
				out[hs[i]] = out[hs[i]].Add(f)
				out[hs[j]] = out[hs[j]].Sub(f)
			})
		}
	}

	if e.workers <= 1 || n < minParallel {
		pairs(acc, 0, n)
		return
	}

	// one private accumulator per worker, merged in worker order so the
	// result does not depend on scheduling
	bufs := make([][]vector.Vector2, e.workers)
	used := parallelFor(n, e.workers, minParallel/4, func(w, start, end int) {
		bufs[w] = e.pool.get(len(acc))
		pairs(bufs[w], start, end)
	})
	for w := 0; w < used; w++ {
		for h, f := range bufs[w] {
			acc[h] = acc[h].Add(f)
		}
		e.pool.put(bufs[w])
	}
}
