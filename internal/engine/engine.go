// Package engine drives one frame of the force-directed layout.
//
// A frame is four passes over a snapshot, always in this order:
//
//	forces := e.ComputeForces(snap) // edge and peer forces into a side buffer
//	e.ApplyAll(snap, forces)        // ApplyForce on every node, then ApplySpeed on every node
//	e.RelaxAll(snap)                // relax hooks, kind by kind
//	e.UpdateAll(snap)               // update hooks, kind by kind
//
// Step runs all four. The engine mutates node positions and velocities in
// place and never adds or removes nodes or edges. The snapshot must stay
// structurally stable for the duration of a frame.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"io"
	"log"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/forces"
	"github.com/san-kum/swarmsim/internal/hooks"
	"github.com/san-kum/swarmsim/internal/integrators"
	"github.com/san-kum/swarmsim/internal/registry"
	"github.com/san-kum/swarmsim/internal/vector"
)

// minParallel is the smallest peer collection worth splitting across workers.
const minParallel = 64

type Engine struct {
	cfg      *config.Config
	calc     forces.Calculator
	integ    integrators.Integrator
	hooks    *hooks.Table
	registry *registry.Registry
	logger   *log.Logger

	maxDistance float64
	workers     int
	pool        *bufferPool
	// peers holds the start-of-pass copy of the collection hooks read.
	peers []entity.Node

	frame    int
	stats    Stats
	loggedAt int
}

// Stats counts degraded work since the engine was built.
type Stats struct {
	Frames       int
	SkippedEdges int
	// Clamped counts forces, positions or velocities replaced because they
	// went non-finite.
	Clamped int
}

type Option func(*Engine)

// WithLogger sets the diagnostics logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRegistry resolves names against r instead of the built-in registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithCalculator bypasses the configured model name.
func WithCalculator(c forces.Calculator) Option {
	return func(e *Engine) { e.calc = c }
}

// WithIntegrator bypasses the configured integrator name.
func WithIntegrator(i integrators.Integrator) Option {
	return func(e *Engine) { e.integ = i }
}

// WithHooks bypasses the configured hook names.
func WithHooks(t *hooks.Table) Option {
	return func(e *Engine) { e.hooks = t }
}

// New validates cfg and resolves its model, integrator and hooks. Every
// configuration problem surfaces here as a *config.Error.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:      cfg.Clone(),
		logger:   log.New(io.Discard, "", 0),
		loggedAt: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = registry.New()
	}

	if err := e.cfg.Validate(e.registry.Required(e.cfg.Model)...); err != nil {
		return nil, err
	}

	var err error
	if e.calc == nil {
		if e.calc, err = e.registry.Calculator(e.cfg.Model, e.cfg.Params); err != nil {
			return nil, err
		}
	}
	if e.integ == nil {
		if e.integ, err = e.registry.Integrator(e.cfg.Integrator, e.cfg.Params); err != nil {
			return nil, err
		}
	}
	if e.hooks == nil {
		if e.hooks, err = e.registry.Table(e.cfg.Hooks, e.cfg.Params); err != nil {
			return nil, err
		}
	}

	e.maxDistance = e.cfg.Params.Get(config.MaxDistance, 0)
	e.workers = e.cfg.Workers
	if e.workers < 1 {
		e.workers = 1
	}
	e.pool = newBufferPool()
	return e, nil
}

func (e *Engine) Config() *config.Config { return e.cfg.Clone() }

func (e *Engine) Calculator() forces.Calculator { return e.calc }

func (e *Engine) Integrator() integrators.Integrator { return e.integ }

func (e *Engine) Hooks() *hooks.Table { return e.hooks }

// Frame returns the number of completed frames.
func (e *Engine) Frame() int { return e.frame }

func (e *Engine) Stats() Stats {
	s := e.stats
	s.Frames = e.frame
	return s
}

// Step runs one complete frame.
func (e *Engine) Step(snap *entity.Snapshot) {
	f := e.ComputeForces(snap)
	e.ApplyAll(snap, f)
	e.pool.put(f)
	e.RelaxAll(snap)
	e.UpdateAll(snap)
}

// ForceAlongEdge returns the force on the source endpoint of edge. An edge
// that does not fit snap is a contract violation and yields no force.
func (e *Engine) ForceAlongEdge(snap *entity.Snapshot, edge entity.Edge) vector.Vector2 {
	if err := snap.Check(edge); err != nil {
		e.violate(edge, err)
		return vector.Zero
	}
	return e.calc.AlongEdge(snap.Nodes[edge.Source], snap.Nodes[edge.Target], edge.Weight)
}

// ForceBetweenPeers returns the force b exerts on a.
func (e *Engine) ForceBetweenPeers(a, b entity.Node) vector.Vector2 {
	return e.calc.BetweenPeers(a, b)
}

func (e *Engine) ApplyForce(n *entity.Node, f vector.Vector2) {
	e.integ.ApplyForce(n, f)
}

func (e *Engine) ApplySpeed(n *entity.Node) {
	e.integ.ApplySpeed(n)
}

// OnRelax runs the relax hooks for a single node.
func (e *Engine) OnRelax(snap *entity.Snapshot, h entity.Handle) {
	e.runHooks(snap, hooks.Relax, h)
}

// OnUpdate runs the update hooks for a single node.
func (e *Engine) OnUpdate(snap *entity.Snapshot, h entity.Handle) {
	e.runHooks(snap, hooks.Update, h)
}

func (e *Engine) runHooks(snap *entity.Snapshot, phase hooks.Phase, h entity.Handle) {
	if !snap.InRange(h) {
		e.violate(entity.Edge{Source: h, Target: h}, entity.ErrBadHandle)
		return
	}
	n := &snap.Nodes[h]
	e.runPass(&hooks.Pass{
		Phase: phase,
		Frame: e.frame,
		Self:  h,
		Peers: snap.Collection(n.Kind),
	}, n)
}

// runPass applies the hooks of p to n, restoring n if a hook leaves it
// non-finite.
func (e *Engine) runPass(p *hooks.Pass, n *entity.Node) {
	pos, vel := n.Pos, n.Vel
	e.hooks.Run(p, n)
	if !n.Pos.IsFinite() || !n.Vel.IsFinite() {
		n.Pos, n.Vel = pos, vel
		e.stats.Clamped++
	}
}
