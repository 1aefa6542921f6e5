package integrators

import (
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// Damped is Euler with a velocity retention factor folded into ApplyForce:
// v = (v + F/m) * Retention.
type Damped struct {
	Euler
	Retention float64
}

func NewDamped(maxSpeed, retention float64) *Damped {
	if retention < 0 {
		retention = 0
	}
	if retention > 1 {
		retention = 1
	}
	return &Damped{Euler: Euler{MaxSpeed: maxSpeed}, Retention: retention}
}

func (d *Damped) Name() string { return "damped" }

func (d *Damped) ApplyForce(n *entity.Node, f vector.Vector2) {
	n.Vel = d.accelerate(n, f).Scale(d.Retention)
}
