// Package config holds the engine configuration: the force model, the
// integrator, the phase hooks per entity kind and a flat set of named numeric
// parameters. A Config is loaded once, validated at engine construction and
// treated as read-only afterwards.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swarmsim/internal/entity"
)

const (
	DefaultModel      = "legacy"
	DefaultIntegrator = "euler"
)

// Recognised parameter names.
const (
	Attraction      = "attraction"
	Repulsion       = "repulsion"
	RepulsionPower  = "repulsion_power"
	EdgeLength      = "edge_length"
	MinDistance     = "min_distance"
	MaxDistance     = "max_distance"
	Damping         = "damping"
	MaxSpeed        = "max_speed"
	DefaultMass     = "default_mass"
	BoundsWidth     = "bounds_width"
	BoundsHeight    = "bounds_height"
	Jitter          = "jitter"
	JitterScale     = "jitter_scale"
	JitterSeed      = "jitter_seed"
	SettleFrequency = "settle_frequency"
	SettleDamping   = "settle_damping"
	TrailLength     = "trail_length"
)

// Params is the flat name -> value parameter mapping.
type Params map[string]float64

// Get returns the named value or def when it is absent.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// KindHooks lists hook names for each entity kind.
type KindHooks struct {
	Source []string `yaml:"source,omitempty"`
	Target []string `yaml:"target,omitempty"`
}

// For returns the hook names configured for kind k.
func (h KindHooks) For(k entity.Kind) []string {
	switch k {
	case entity.Source:
		return h.Source
	case entity.Target:
		return h.Target
	}
	return nil
}

func (h KindHooks) clone() KindHooks {
	return KindHooks{
		Source: append([]string(nil), h.Source...),
		Target: append([]string(nil), h.Target...),
	}
}

func (h KindHooks) empty() bool { return len(h.Source) == 0 && len(h.Target) == 0 }

type HookConfig struct {
	Relax  KindHooks `yaml:"relax"`
	Update KindHooks `yaml:"update"`
}

type Config struct {
	Model      string     `yaml:"model"`
	Integrator string     `yaml:"integrator"`
	Workers    int        `yaml:"workers,omitempty"`
	Debug      bool       `yaml:"debug,omitempty"`
	Hooks      HookConfig `yaml:"hooks"`
	Params     Params     `yaml:"params"`
}

// DefaultConfig returns the legacy model preset.
func DefaultConfig() *Config {
	cfg, _ := ForModel(DefaultModel)
	return cfg
}

// ForModel returns a fresh copy of the preset for the named force model.
func ForModel(model string) (*Config, error) {
	p := GetPreset(model)
	if p == nil {
		return nil, &Error{Param: "model", Wrapped: fmt.Errorf("%w: %q (available: %v)", ErrUnknownName, model, ListPresets())}
	}
	return p.Clone(), nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Params = c.Params.Clone()
	cp.Hooks = HookConfig{Relax: c.Hooks.Relax.clone(), Update: c.Hooks.Update.clone()}
	return &cp
}

// Load reads a yaml config file. Values missing from the file are filled from
// the preset of the model it names (the default model when it names none).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes yaml config data and applies preset defaults.
func Parse(data []byte) (*Config, error) {
	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return raw.withDefaults()
}

func (c *Config) withDefaults() (*Config, error) {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	base, err := ForModel(model)
	if err != nil {
		return nil, err
	}
	if c.Integrator != "" {
		base.Integrator = c.Integrator
	}
	if c.Workers != 0 {
		base.Workers = c.Workers
	}
	base.Debug = base.Debug || c.Debug
	if !c.Hooks.Relax.empty() {
		base.Hooks.Relax = c.Hooks.Relax.clone()
	}
	if !c.Hooks.Update.empty() {
		base.Hooks.Update = c.Hooks.Update.clone()
	}
	for k, v := range c.Params {
		base.Params[k] = v
	}
	return base, nil
}

// Save writes cfg to path as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
