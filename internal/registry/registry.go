// Package registry resolves force models, integrators and hooks by the names
// used in configuration files.
package registry

import (
	"fmt"
	"sort"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/forces"
	"github.com/san-kum/swarmsim/internal/hooks"
	"github.com/san-kum/swarmsim/internal/integrators"
)

type (
	CalculatorFactory func(config.Params) forces.Calculator
	IntegratorFactory func(config.Params) integrators.Integrator
	HookFactory       func(config.Params) hooks.Hook
)

type Registry struct {
	calculators map[string]CalculatorFactory
	required    map[string][]string
	integrators map[string]IntegratorFactory
	hooks       map[string]HookFactory
}

// New returns a registry holding every built-in model, integrator and hook.
func New() *Registry {
	r := &Registry{
		calculators: make(map[string]CalculatorFactory),
		required:    make(map[string][]string),
		integrators: make(map[string]IntegratorFactory),
		hooks:       make(map[string]HookFactory),
	}

	r.RegisterCalculator("legacy", func(p config.Params) forces.Calculator { return forces.NewLegacy(p) },
		config.Attraction, config.Repulsion, config.MinDistance)
	r.RegisterCalculator("spring", func(p config.Params) forces.Calculator { return forces.NewSpring(p) },
		config.Attraction, config.Repulsion, config.MinDistance)
	r.RegisterCalculator("gravity", func(p config.Params) forces.Calculator { return forces.NewGravity(p) },
		config.Attraction, config.Repulsion, config.MinDistance)

	r.RegisterIntegrator("euler", func(p config.Params) integrators.Integrator {
		return integrators.NewEuler(p.Get(config.MaxSpeed, 0))
	})
	r.RegisterIntegrator("damped", func(p config.Params) integrators.Integrator {
		return integrators.NewDamped(p.Get(config.MaxSpeed, 0), p.Get(config.Damping, 1))
	})

	r.RegisterHook("damping", func(p config.Params) hooks.Hook {
		return hooks.NewDamping(p.Get(config.Damping, 0.85))
	})
	r.RegisterHook("pin", func(config.Params) hooks.Hook { return hooks.NewPin() })
	r.RegisterHook("settle", func(p config.Params) hooks.Hook {
		return hooks.NewSettle(p.Get(config.SettleFrequency, 6), p.Get(config.SettleDamping, 1))
	})
	r.RegisterHook("separate", func(p config.Params) hooks.Hook {
		return hooks.NewSeparate(p.Get(config.MinDistance, 1))
	})
	r.RegisterHook("clamp_speed", func(p config.Params) hooks.Hook {
		return hooks.NewClampSpeed(p.Get(config.MaxSpeed, 0))
	})
	r.RegisterHook("bounds", func(p config.Params) hooks.Hook {
		return hooks.NewBounds(p.Get(config.BoundsWidth, 0), p.Get(config.BoundsHeight, 0))
	})
	r.RegisterHook("jitter", func(p config.Params) hooks.Hook {
		return hooks.NewJitter(int64(p.Get(config.JitterSeed, 1)), p.Get(config.Jitter, 0), p.Get(config.JitterScale, 0.01))
	})
	r.RegisterHook("trail", func(p config.Params) hooks.Hook {
		return hooks.NewTrail(int(p.Get(config.TrailLength, 16)))
	})

	return r
}

// RegisterCalculator adds or replaces a force model. required names the
// parameters a config must carry for it.
func (r *Registry) RegisterCalculator(name string, fn CalculatorFactory, required ...string) {
	r.calculators[name] = fn
	r.required[name] = required
}

func (r *Registry) RegisterIntegrator(name string, fn IntegratorFactory) {
	r.integrators[name] = fn
}

func (r *Registry) RegisterHook(name string, fn HookFactory) {
	r.hooks[name] = fn
}

func (r *Registry) Calculator(name string, p config.Params) (forces.Calculator, error) {
	fn, ok := r.calculators[name]
	if !ok {
		return nil, unknown("model", name, r.Calculators())
	}
	return fn(p), nil
}

// Required returns the parameters the named force model needs.
func (r *Registry) Required(name string) []string {
	return r.required[name]
}

func (r *Registry) Integrator(name string, p config.Params) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, unknown("integrator", name, r.Integrators())
	}
	return fn(p), nil
}

// Hook builds a fresh instance of the named hook. Stateful hooks are never
// shared between table slots.
func (r *Registry) Hook(name string, p config.Params) (hooks.Hook, error) {
	fn, ok := r.hooks[name]
	if !ok {
		return nil, unknown("hook", name, r.Hooks())
	}
	return fn(p), nil
}

// Table builds the hook table described by hc.
func (r *Registry) Table(hc config.HookConfig, p config.Params) (*hooks.Table, error) {
	t := hooks.NewTable()
	phases := []struct {
		phase hooks.Phase
		names config.KindHooks
	}{
		{hooks.Relax, hc.Relax},
		{hooks.Update, hc.Update},
	}
	for _, ph := range phases {
		for _, kind := range entity.Kinds() {
			for _, name := range ph.names.For(kind) {
				h, err := r.Hook(name, p)
				if err != nil {
					return nil, err
				}
				t.Add(ph.phase, kind, h)
			}
		}
	}
	return t, nil
}

func (r *Registry) Calculators() []string { return sortedKeys(r.calculators) }
func (r *Registry) Integrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) Hooks() []string       { return sortedKeys(r.hooks) }

func unknown(what, name string, available []string) error {
	return &config.Error{
		Param:   what,
		Wrapped: fmt.Errorf("%w: %s %q (available: %v)", config.ErrUnknownName, what, name, available),
	}
}

func sortedKeys[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
