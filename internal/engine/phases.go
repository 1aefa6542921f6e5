package engine

import (
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/hooks"
	"github.com/san-kum/swarmsim/internal/vector"
)

// ApplyAll integrates forces into every node: ApplyForce on all nodes first,
// then ApplySpeed on all nodes. Missing entries in forces count as zero.
// Pinned nodes are not integrated and keep zero velocity; they still push
// and pull the nodes around them.
func (e *Engine) ApplyAll(snap *entity.Snapshot, forces []vector.Vector2) {
	if snap == nil {
		return
	}
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		if n.Pinned {
			n.Vel = vector.Zero
			continue
		}
		f := vector.Zero
		if i < len(forces) {
			f = forces[i]
		}
		e.integ.ApplyForce(n, f)
	}
	for i := range snap.Nodes {
		if snap.Nodes[i].Pinned {
			continue
		}
		e.integ.ApplySpeed(&snap.Nodes[i])
	}
}

// RelaxAll runs the relax hooks over every node, sources first.
func (e *Engine) RelaxAll(snap *entity.Snapshot) {
	e.phase(snap, hooks.Relax)
}

// UpdateAll runs the update hooks over every node, sources first, and closes
// the frame.
func (e *Engine) UpdateAll(snap *entity.Snapshot) {
	e.phase(snap, hooks.Update)
	e.frame++
}

func (e *Engine) phase(snap *entity.Snapshot, phase hooks.Phase) {
	if snap == nil {
		return
	}
	for _, kind := range entity.Kinds() {
		if len(e.hooks.Hooks(phase, kind)) == 0 {
			continue
		}
		// hooks see the collection as it was when the pass began, so the
		// outcome does not depend on which node is visited first
		live := snap.Collection(kind)
		if cap(e.peers) < live.Len() {
			e.peers = make([]entity.Node, live.Len())
		}
		peers := live.Freeze(e.peers)
		p := &hooks.Pass{Phase: phase, Frame: e.frame, Peers: peers}
		for i := 0; i < peers.Len(); i++ {
			p.Self = peers.Handle(i)
			e.runPass(p, &snap.Nodes[p.Self])
		}
	}
}
