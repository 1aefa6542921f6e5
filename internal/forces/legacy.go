package forces

import (
	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// Legacy pulls edge endpoints toward a rest length and keeps same-kind
// nodes apart with a power-law repulsion.
type Legacy struct {
	Clamps
	Attraction     float64
	EdgeLength     float64
	Repulsion      float64
	RepulsionPower float64
}

func NewLegacy(p config.Params) *Legacy {
	return &Legacy{
		Clamps:         clampsFrom(p),
		Attraction:     p.Get(config.Attraction, 0.02),
		EdgeLength:     p.Get(config.EdgeLength, 40),
		Repulsion:      p.Get(config.Repulsion, 200),
		RepulsionPower: p.Get(config.RepulsionPower, 2),
	}
}

func (l *Legacy) Name() string { return "legacy" }

// AlongEdge is positive (toward target) when the edge is stretched past its
// rest length and negative when compressed.
func (l *Legacy) AlongEdge(source, target entity.Node, weight float64) vector.Vector2 {
	dir, _, ok := l.separation(source.Pos, target.Pos)
	if !ok {
		return vector.Zero
	}
	d := source.Pos.Dist(target.Pos)
	stretch := d - l.EdgeLength
	return finite(dir.Scale(l.Attraction * weight * stretch))
}

func (l *Legacy) BetweenPeers(a, b entity.Node) vector.Vector2 {
	dir, d, ok := l.separation(a.Pos, b.Pos)
	if !ok || !l.InRange(a.Pos.Dist(b.Pos)) {
		return vector.Zero
	}
	return finite(dir.Scale(-powerLaw(l.Repulsion, d, l.RepulsionPower)))
}
