// Package metrics provides per-frame observables of a layout run.
package metrics

import (
	"math"

	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// KineticEnergy is the total kinetic energy sum(m|v|^2/2) of the last
// observed frame.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(snap *entity.Snapshot) {
	k.value = Kinetic(snap)
}

func (k *KineticEnergy) Value() float64 { return k.value }

func (k *KineticEnergy) Reset() { k.value = 0 }

// Kinetic returns the total kinetic energy of snap.
func Kinetic(snap *entity.Snapshot) float64 {
	total := 0.0
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		total += 0.5 * n.Mass * n.Vel.LenSq()
	}
	return total
}

// Momentum is |sum(m v)| of the last observed frame. Symmetric pair forces
// keep it at its initial value until hooks intervene.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(snap *entity.Snapshot) {
	p := vector.Zero
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		p = p.Add(n.Vel.Scale(n.Mass))
	}
	m.value = p.Len()
}

func (m *Momentum) Value() float64 { return m.value }

func (m *Momentum) Reset() { m.value = 0 }

// EnergyDrift is the largest relative change of kinetic energy against the
// first observed frame. It stays zero while the first frame is at rest.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(snap *entity.Snapshot) {
	energy := Kinetic(snap)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / e.initial
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
