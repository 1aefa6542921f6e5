package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

func snapshot(nodes ...entity.Node) *entity.Snapshot {
	s := entity.NewSnapshot()
	for _, n := range nodes {
		h := s.AddNode(n.Kind, n.Pos, n.Mass)
		s.Node(h).Vel = n.Vel
	}
	return s
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	s := snapshot(
		entity.Node{Kind: entity.Source, Mass: 2, Vel: vector.New(3, 4)},
		entity.Node{Kind: entity.Target, Mass: 1, Vel: vector.New(0, 1)},
	)

	m.Observe(s)
	if math.Abs(m.Value()-25.5) > 1e-12 {
		t.Errorf("expected 25.5, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	m.Observe(snapshot(
		entity.Node{Kind: entity.Target, Mass: 1, Vel: vector.New(2, 0)},
		entity.Node{Kind: entity.Target, Mass: 2, Vel: vector.New(-1, 0)},
	))
	if math.Abs(m.Value()) > 1e-12 {
		t.Errorf("opposite momenta should cancel, got %v", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	s := snapshot(entity.Node{Kind: entity.Source, Mass: 1, Vel: vector.New(2, 0)})

	m.Observe(s)
	s.Nodes[0].Vel = vector.New(1, 0)
	m.Observe(s)
	s.Nodes[0].Vel = vector.New(2, 0)
	m.Observe(s)

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("expected max drift 0.75, got %v", m.Value())
	}
}

func TestMaxSpeed(t *testing.T) {
	m := NewMaxSpeed()
	s := snapshot(entity.Node{Kind: entity.Source, Mass: 1, Vel: vector.New(3, 4)})
	m.Observe(s)
	s.Nodes[0].Vel = vector.Zero
	m.Observe(s)

	if m.Value() != 5 {
		t.Errorf("max speed should hold the peak, got %v", m.Value())
	}
}

func TestSpread(t *testing.T) {
	tests := []struct {
		name string
		pos  []vector.Vector2
		want float64
	}{
		{"empty", nil, 0},
		{"single", []vector.Vector2{vector.New(5, 5)}, 0},
		{"pair", []vector.Vector2{vector.New(-3, 0), vector.New(3, 0)}, 3},
		{"square", []vector.Vector2{vector.New(1, 1), vector.New(1, -1), vector.New(-1, 1), vector.New(-1, -1)}, math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := entity.NewSnapshot()
			for _, p := range tt.pos {
				s.AddNode(entity.Target, p, 1)
			}
			m := NewSpread()
			m.Observe(s)
			if math.Abs(m.Value()-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, m.Value())
			}
		})
	}
}

func TestCalm(t *testing.T) {
	m := NewCalm(1)
	if m.Value() != 1 {
		t.Errorf("unobserved run should count as calm, got %v", m.Value())
	}

	s := snapshot(entity.Node{Kind: entity.Source, Mass: 1, Vel: vector.New(2, 0)})
	m.Observe(s)
	s.Nodes[0].Vel = vector.New(0.5, 0)
	m.Observe(s)
	m.Observe(s)
	m.Observe(s)

	if m.Value() != 0.75 {
		t.Errorf("expected 0.75, got %v", m.Value())
	}
}
