package metrics

import (
	"math"

	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// MaxSpeed is the highest node speed seen over the run.
type MaxSpeed struct {
	name  string
	value float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(snap *entity.Snapshot) {
	for i := range snap.Nodes {
		m.value = math.Max(m.value, snap.Nodes[i].Vel.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.value }

func (m *MaxSpeed) Reset() { m.value = 0 }

// Spread is the RMS distance of nodes from their centroid in the last
// observed frame.
type Spread struct {
	name  string
	value float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(snap *entity.Snapshot) {
	n := len(snap.Nodes)
	if n == 0 {
		s.value = 0
		return
	}
	c := vector.Zero
	for i := range snap.Nodes {
		c = c.Add(snap.Nodes[i].Pos)
	}
	c = c.Scale(1 / float64(n))

	sum := 0.0
	for i := range snap.Nodes {
		sum += snap.Nodes[i].Pos.Sub(c).LenSq()
	}
	s.value = math.Sqrt(sum / float64(n))
}

func (s *Spread) Value() float64 { return s.value }

func (s *Spread) Reset() { s.value = 0 }

// Calm is the fraction of observed frames in which no node moved faster than
// threshold. A run that has settled trends to 1.
type Calm struct {
	name      string
	threshold float64
	calm      int
	samples   int
}

func NewCalm(threshold float64) *Calm {
	return &Calm{name: "calm", threshold: threshold}
}

func (c *Calm) Name() string { return c.name }

func (c *Calm) Observe(snap *entity.Snapshot) {
	c.samples++
	for i := range snap.Nodes {
		if snap.Nodes[i].Vel.Len() > c.threshold {
			return
		}
	}
	c.calm++
}

func (c *Calm) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return float64(c.calm) / float64(c.samples)
}

func (c *Calm) Reset() {
	c.calm = 0
	c.samples = 0
}
