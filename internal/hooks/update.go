package hooks

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

// ClampSpeed limits the speed of a node.
type ClampSpeed struct {
	Max float64
}

func NewClampSpeed(max float64) *ClampSpeed {
	return &ClampSpeed{Max: max}
}

func (c *ClampSpeed) Name() string { return "clamp_speed" }

func (c *ClampSpeed) Apply(_ *Pass, n *entity.Node) {
	n.Vel = n.Vel.ClampLen(c.Max)
}

// Bounds keeps nodes inside [0,Width]x[0,Height], reflecting the velocity
// component that crossed the wall. A zero extent leaves that axis free.
type Bounds struct {
	Width, Height float64
}

func NewBounds(width, height float64) *Bounds {
	return &Bounds{Width: width, Height: height}
}

func (b *Bounds) Name() string { return "bounds" }

func (b *Bounds) Apply(_ *Pass, n *entity.Node) {
	n.Pos.X, n.Vel.X = reflect(n.Pos.X, n.Vel.X, b.Width)
	n.Pos.Y, n.Vel.Y = reflect(n.Pos.Y, n.Vel.Y, b.Height)
}

func reflect(p, v, extent float64) (float64, float64) {
	if extent <= 0 {
		return p, v
	}
	switch {
	case p < 0:
		return 0, abs(v)
	case p > extent:
		return extent, -abs(v)
	}
	return p, v
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Jitter drifts nodes along a smooth simplex noise field that evolves with
// the frame counter.
type Jitter struct {
	noise     opensimplex.Noise
	Amplitude float64
	Scale     float64
	TimeStep  float64
}

func NewJitter(seed int64, amplitude, scale float64) *Jitter {
	return &Jitter{
		noise:     opensimplex.New(seed),
		Amplitude: amplitude,
		Scale:     scale,
		TimeStep:  0.05,
	}
}

func (j *Jitter) Name() string { return "jitter" }

// Offset returns the drift applied at pos during frame.
func (j *Jitter) Offset(pos vector.Vector2, frame int) vector.Vector2 {
	t := float64(frame) * j.TimeStep
	x, y := pos.X*j.Scale, pos.Y*j.Scale
	dx := j.noise.Eval3(x, y, t)
	dy := j.noise.Eval3(x+100, y+100, t)
	return vector.New(dx, dy).Scale(j.Amplitude)
}

func (j *Jitter) Apply(p *Pass, n *entity.Node) {
	if j.Amplitude == 0 {
		return
	}
	if moved := n.Pos.Add(j.Offset(n.Pos, p.Frame)); moved.IsFinite() {
		n.Pos = moved
	}
}

// Trail records the last Length positions of every node it sees.
type Trail struct {
	Length int
	trails *memo[[]vector.Vector2]
}

func NewTrail(length int) *Trail {
	return &Trail{Length: length, trails: newMemo[[]vector.Vector2]()}
}

func (t *Trail) Name() string { return "trail" }

func (t *Trail) Apply(p *Pass, n *entity.Node) {
	if t.Length <= 0 {
		return
	}
	trail := t.trails.touch(p.Frame, n.ID, func() []vector.Vector2 {
		return make([]vector.Vector2, 0, t.Length)
	})
	if len(*trail) == t.Length {
		copy(*trail, (*trail)[1:])
		*trail = (*trail)[:t.Length-1]
	}
	*trail = append(*trail, n.Pos)
}

// Positions returns a copy of the recorded trail for id, oldest first.
func (t *Trail) Positions(id string) []vector.Vector2 {
	trail, ok := t.trails.get(id)
	if !ok {
		return nil
	}
	return append([]vector.Vector2(nil), trail...)
}

// Tracked returns the number of nodes with a recorded trail.
func (t *Trail) Tracked() int { return t.trails.len() }
