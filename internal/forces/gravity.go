package forces

import (
	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// Gravity is an attraction-only model: edges pull with G*w/d^2 and peers pull
// each other with G*m_a*m_b/d^p. MinDistance plays the role of a softening
// length, bounding the pull as nodes converge.
type Gravity struct {
	Clamps
	EdgeG float64
	PeerG float64
	Power float64
}

func NewGravity(p config.Params) *Gravity {
	return &Gravity{
		Clamps: clampsFrom(p),
		EdgeG:  p.Get(config.Attraction, 2),
		PeerG:  p.Get(config.Repulsion, 0.5),
		Power:  p.Get(config.RepulsionPower, 2),
	}
}

func (g *Gravity) Name() string { return "gravity" }

func (g *Gravity) AlongEdge(source, target entity.Node, weight float64) vector.Vector2 {
	dir, d, ok := g.separation(source.Pos, target.Pos)
	if !ok {
		return vector.Zero
	}
	return finite(dir.Scale(powerLaw(g.EdgeG*weight, d, 2)))
}

func (g *Gravity) BetweenPeers(a, b entity.Node) vector.Vector2 {
	dir, d, ok := g.separation(a.Pos, b.Pos)
	if !ok || !g.InRange(a.Pos.Dist(b.Pos)) {
		return vector.Zero
	}
	return finite(dir.Scale(powerLaw(g.PeerG*a.Mass*b.Mass, d, g.Power)))
}
