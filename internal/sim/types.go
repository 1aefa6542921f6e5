package sim

import (
	"fmt"

	"github.com/san-kum/swarmsim/internal/engine"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/metrics"
)

type Metric interface {
	Name() string
	Observe(snap *entity.Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(frame int, snap *entity.Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(frame int, snap *entity.Snapshot)

func (f ObserverFunc) OnFrame(frame int, snap *entity.Snapshot) { f(frame, snap) }

type RunConfig struct {
	Frames int
	// ValidateState stops the run at the first node with a non-finite
	// position or velocity.
	ValidateState bool
}

type Result struct {
	// Energy holds the kinetic energy before the first frame and after
	// every completed frame.
	Energy  []float64
	Frames  int
	Metrics map[string]float64
	Stats   engine.Stats
	Errors  []error
}

// Final returns the last recorded kinetic energy.
func (r *Result) Final() float64 {
	if len(r.Energy) == 0 {
		return 0
	}
	return r.Energy[len(r.Energy)-1]
}

// FrameError reports a node that left the finite range during a run. Frame
// is the engine frame count after the offending step, the same number
// observers receive.
type FrameError struct {
	Frame   int
	Handle  entity.Handle
	Message string
}

func (e FrameError) Error() string {
	return fmt.Sprintf("frame %d (node %d): %s", e.Frame, e.Handle, e.Message)
}

// DefaultMetrics returns a fresh set of the standard layout metrics.
func DefaultMetrics() []Metric {
	return []Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMomentum(),
		metrics.NewEnergyDrift(),
		metrics.NewMaxSpeed(),
		metrics.NewSpread(),
		metrics.NewCalm(0.05),
	}
}

// firstInvalid returns the handle of the first non-finite node.
func firstInvalid(snap *entity.Snapshot) (entity.Handle, bool) {
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		if !n.Pos.IsFinite() || !n.Vel.IsFinite() {
			return entity.Handle(i), true
		}
	}
	return 0, false
}
