package sim

import (
	"context"
	"sync"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/engine"
	"github.com/san-kum/swarmsim/internal/entity"
)

// Generator builds the starting snapshot for a seeded run.
type Generator func(seed int64) *entity.Snapshot

// Ensemble runs the same configuration over several seeded snapshots, one
// engine per run.
type Ensemble struct {
	cfg       config.Config
	generate  Generator
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg config.Config, generate Generator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		cfg:       *cfg.Clone(),
		generate:  generate,
		metrics:   DefaultMetrics,
		numRuns:   numRuns,
		seedStart: seedStart,
	}
}

// WithMetrics sets the metric factory called once per run.
func (e *Ensemble) WithMetrics(fn func() []Metric) *Ensemble {
	e.metrics = fn
	return e
}

// Run returns one result per seed, in seed order. Every run's engine also
// seeds its jitter hook with the run seed.
func (e *Ensemble) Run(ctx context.Context, rc RunConfig) ([]*Result, error) {
	if err := validateConfig(rc); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			cfg := e.cfg.Clone()
			cfg.Params[config.JitterSeed] = float64(seed)

			eng, err := engine.New(*cfg)
			if err != nil {
				errs[idx] = err
				return
			}

			r := New(eng)
			for _, m := range e.metrics() {
				r.AddMetric(m)
			}

			results[idx], errs[idx] = r.Run(ctx, e.generate(seed), rc)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
