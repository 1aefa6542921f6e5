// Package forces provides the force laws of the layout engine.
//
// Every model implements [Calculator]:
//
//   - [Legacy]: Hooke spring toward a rest length along edges, inverse-square peer repulsion
//   - [Spring]: zero-length weighted springs, inverse-distance peer repulsion
//   - [Gravity]: inverse-square attraction along edges and between peers
//
// Calculators are pure. The returned force acts on the first argument; the
// peer force obeys BetweenPeers(a, b) == BetweenPeers(b, a).Neg(), so the
// engine applies the negation to the second node.
package forces

import (
	"math"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

type Calculator interface {
	Name() string

	// AlongEdge returns the force exerted on source by its edge to target.
	AlongEdge(source, target entity.Node, weight float64) vector.Vector2

	// BetweenPeers returns the force exerted on a by the same-kind node b.
	BetweenPeers(a, b entity.Node) vector.Vector2
}

// Clamps bounds interaction distances shared by every model.
type Clamps struct {
	// MinDistance is the floor applied to separations before any division.
	MinDistance float64
	// MaxDistance disables peer forces beyond it; zero means unbounded.
	MaxDistance float64
}

func clampsFrom(p config.Params) Clamps {
	return Clamps{
		MinDistance: p.Get(config.MinDistance, 1),
		MaxDistance: p.Get(config.MaxDistance, 0),
	}
}

// separation returns the unit direction from a to b and the clamped
// distance. ok is false when the points coincide and carry no direction.
func (c Clamps) separation(a, b vector.Vector2) (dir vector.Vector2, dist float64, ok bool) {
	delta := b.Sub(a)
	d := delta.Len()
	if d == 0 || !delta.IsFinite() || math.IsInf(d, 0) {
		return vector.Zero, 0, false
	}
	dir = delta.Scale(1 / d)
	return dir, math.Max(d, c.MinDistance), true
}

// InRange reports whether a peer at raw distance d still interacts.
func (c Clamps) InRange(d float64) bool {
	return c.MaxDistance <= 0 || d <= c.MaxDistance
}

// powerLaw returns coeff / d^power with d already clamped.
func powerLaw(coeff, d, power float64) float64 {
	switch power {
	case 1:
		return coeff / d
	case 2:
		return coeff / (d * d)
	}
	return coeff / math.Pow(d, power)
}

// finite replaces a non-finite force with the zero vector.
func finite(f vector.Vector2) vector.Vector2 {
	if !f.IsFinite() {
		return vector.Zero
	}
	return f
}
