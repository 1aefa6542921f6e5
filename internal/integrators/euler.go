package integrators

import (
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// Integrator turns accumulated force into velocity and velocity into
// position, with a frame duration of 1.
type Integrator interface {
	Name() string
	ApplyForce(n *entity.Node, f vector.Vector2)
	ApplySpeed(n *entity.Node)
}

// Euler is semi-implicit Euler: v += F/m, then p += v.
type Euler struct {
	// MaxSpeed clamps the velocity after the force is applied. Zero disables it.
	MaxSpeed float64
}

func NewEuler(maxSpeed float64) *Euler {
	return &Euler{MaxSpeed: maxSpeed}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) ApplyForce(n *entity.Node, f vector.Vector2) {
	n.Vel = e.accelerate(n, f)
}

func (e *Euler) accelerate(n *entity.Node, f vector.Vector2) vector.Vector2 {
	m := n.Mass
	if !(m >= entity.MinMass) {
		m = entity.MinMass
	}
	v := n.Vel.Add(f.Scale(1 / m)).ClampLen(e.MaxSpeed)
	if !v.IsFinite() {
		return vector.Zero
	}
	return v
}

// ApplySpeed translates the node by its velocity. A step that would leave
// the position non-finite is dropped along with the velocity.
func (e *Euler) ApplySpeed(n *entity.Node) {
	applySpeed(n)
}

func applySpeed(n *entity.Node) {
	p := n.Pos.Add(n.Vel)
	if !p.IsFinite() {
		n.Vel = vector.Zero
		return
	}
	n.Pos = p
}
