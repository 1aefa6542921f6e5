package hooks

import (
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// Damping scales velocity by a retention factor each frame.
type Damping struct {
	Retention float64
}

func NewDamping(retention float64) *Damping {
	return &Damping{Retention: retention}
}

func (d *Damping) Name() string { return "damping" }

func (d *Damping) Apply(_ *Pass, n *entity.Node) {
	n.Vel = n.Vel.Scale(d.Retention)
}

// Pin holds pinned nodes at the position they had when first seen pinned.
// The engine does not integrate pinned nodes, so that position is the one
// the node had before the frame; Pin keeps later hooks from drifting it.
type Pin struct {
	anchors *memo[vector.Vector2]
}

func NewPin() *Pin {
	return &Pin{anchors: newMemo[vector.Vector2]()}
}

func (p *Pin) Name() string { return "pin" }

func (p *Pin) Apply(pass *Pass, n *entity.Node) {
	if !n.Pinned {
		p.anchors.forget(n.ID)
		return
	}
	pos := n.Pos
	anchor := p.anchors.touch(pass.Frame, n.ID, func() vector.Vector2 { return pos })
	n.Pos = *anchor
	n.Vel = vector.Zero
}

// Anchor returns the anchor recorded for a pinned node.
func (p *Pin) Anchor(id string) (vector.Vector2, bool) {
	return p.anchors.get(id)
}

// Settle decays velocity toward rest with a damped harmonic spring, one
// spring step per frame.
type Settle struct {
	spring harmonica.Spring
}

// SettleFPS is the nominal frame rate the spring is stepped at.
const SettleFPS = 60

func NewSettle(frequency, damping float64) *Settle {
	return &Settle{spring: harmonica.NewSpring(harmonica.FPS(SettleFPS), frequency, damping)}
}

func (s *Settle) Name() string { return "settle" }

func (s *Settle) Apply(_ *Pass, n *entity.Node) {
	vx, _ := s.spring.Update(n.Vel.X, 0, 0)
	vy, _ := s.spring.Update(n.Vel.Y, 0, 0)
	v := vector.New(vx, vy)
	if !v.IsFinite() {
		v = vector.Zero
	}
	n.Vel = v
}

// Separate pushes a node out of any same-kind neighbour closer than
// MinDistance, moving it half the overlap. Peers are read as they were at
// the start of the pass, so a symmetric pair ends exactly MinDistance apart.
type Separate struct {
	MinDistance float64
}

func NewSeparate(minDistance float64) *Separate {
	return &Separate{MinDistance: minDistance}
}

func (s *Separate) Name() string { return "separate" }

func (s *Separate) Apply(p *Pass, n *entity.Node) {
	if s.MinDistance <= 0 {
		return
	}
	push := vector.Zero
	for i := 0; i < p.Peers.Len(); i++ {
		if p.Peers.Handle(i) == p.Self {
			continue
		}
		other := p.Peers.At(i)
		delta := n.Pos.Sub(other.Pos)
		d := delta.Len()
		if d >= s.MinDistance {
			continue
		}
		dir := delta.Unit()
		if dir.IsZero() {
			// coincident: split along x by arena order
			dir = vector.New(1, 0)
			if p.Self < p.Peers.Handle(i) {
				dir = dir.Neg()
			}
		}
		push = push.Add(dir.Scale((s.MinDistance - d) / 2))
	}
	if moved := n.Pos.Add(push); moved.IsFinite() {
		n.Pos = moved
	}
}
