// Package sim drives an engine over many frames: the frame loop a renderer
// would otherwise own, plus metrics and seeded ensembles.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/swarmsim/internal/engine"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/metrics"
)

type Runner struct {
	engine    *engine.Engine
	metrics   []Metric
	observers []Observer
}

func New(e *engine.Engine) *Runner {
	return &Runner{
		engine:    e,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Engine() *engine.Engine { return r.engine }

// Run steps the engine cfg.Frames times over snap. Cancellation is checked
// between frames; a frame that has started always completes.
func (r *Runner) Run(ctx context.Context, snap *entity.Snapshot, cfg RunConfig) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Energy:  make([]float64, 0, cfg.Frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result.Energy = append(result.Energy, metrics.Kinetic(snap))

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		r.engine.Step(snap)
		result.Frames++

		for _, m := range r.metrics {
			m.Observe(snap)
		}
		for _, obs := range r.observers {
			obs.OnFrame(r.engine.Frame(), snap)
		}

		result.Energy = append(result.Energy, metrics.Kinetic(snap))

		if cfg.ValidateState {
			if h, bad := firstInvalid(snap); bad {
				result.Errors = append(result.Errors, FrameError{Frame: r.engine.Frame(), Handle: h, Message: "invalid state (NaN/Inf)"})
				break
			}
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Stats = r.engine.Stats()
}

// RunWithCallback steps until callback returns false, the context is done or
// cfg.Frames frames have run. Zero frames means no limit.
func (r *Runner) RunWithCallback(ctx context.Context, snap *entity.Snapshot, cfg RunConfig, callback func(frame int, snap *entity.Snapshot) bool) error {
	if cfg.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", cfg.Frames)
	}

	for i := 0; cfg.Frames == 0 || i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.engine.Step(snap)

		if cfg.ValidateState {
			if h, bad := firstInvalid(snap); bad {
				return FrameError{Frame: r.engine.Frame(), Handle: h, Message: "invalid state (NaN/Inf)"}
			}
		}
		if !callback(r.engine.Frame(), snap) {
			return nil
		}
	}

	return nil
}

func validateConfig(cfg RunConfig) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	return nil
}
