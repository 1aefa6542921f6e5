package forces

import (
	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// Spring treats every edge as a weighted spring of rest length EdgeLength
// (zero by default) and repels peers with an inverse-distance law.
type Spring struct {
	Clamps
	Stiffness      float64
	EdgeLength     float64
	Repulsion      float64
	RepulsionPower float64
	// MaxStretch bounds the spring extension so a far-flung pair cannot
	// produce an unbounded pull. Zero disables the bound.
	MaxStretch float64
}

func NewSpring(p config.Params) *Spring {
	s := &Spring{
		Clamps:         clampsFrom(p),
		Stiffness:      p.Get(config.Attraction, 0.05),
		EdgeLength:     p.Get(config.EdgeLength, 0),
		Repulsion:      p.Get(config.Repulsion, 60),
		RepulsionPower: p.Get(config.RepulsionPower, 1),
	}
	s.MaxStretch = 4 * s.MaxDistance
	return s
}

func (s *Spring) Name() string { return "spring" }

func (s *Spring) AlongEdge(source, target entity.Node, weight float64) vector.Vector2 {
	dir, _, ok := s.separation(source.Pos, target.Pos)
	if !ok {
		return vector.Zero
	}
	stretch := source.Pos.Dist(target.Pos) - s.EdgeLength
	if s.MaxStretch > 0 && stretch > s.MaxStretch {
		stretch = s.MaxStretch
	}
	return finite(dir.Scale(s.Stiffness * weight * stretch))
}

func (s *Spring) BetweenPeers(a, b entity.Node) vector.Vector2 {
	dir, d, ok := s.separation(a.Pos, b.Pos)
	if !ok || !s.InRange(a.Pos.Dist(b.Pos)) {
		return vector.Zero
	}
	return finite(dir.Scale(-powerLaw(s.Repulsion, d, s.RepulsionPower)))
}
