package config

import "sort"

var Presets = map[string]*Config{
	"legacy": {
		Model: "legacy", Integrator: "euler",
		Hooks: HookConfig{
			Relax:  KindHooks{Source: []string{"damping"}, Target: []string{"damping", "pin"}},
			Update: KindHooks{Source: []string{"clamp_speed", "bounds"}, Target: []string{"clamp_speed", "bounds", "trail"}},
		},
		Params: Params{
			Attraction: 0.02, Repulsion: 200, RepulsionPower: 2, EdgeLength: 40,
			MinDistance: 5, MaxDistance: 150, Damping: 0.85, MaxSpeed: 7, DefaultMass: 1,
			BoundsWidth: 640, BoundsHeight: 480, TrailLength: 16,
		},
	},
	"spring": {
		Model: "spring", Integrator: "damped",
		Hooks: HookConfig{
			Relax:  KindHooks{Source: []string{"settle", "separate"}, Target: []string{"settle", "separate"}},
			Update: KindHooks{Source: []string{"clamp_speed", "bounds"}, Target: []string{"clamp_speed", "bounds"}},
		},
		Params: Params{
			Attraction: 0.05, Repulsion: 60, RepulsionPower: 1, EdgeLength: 0,
			MinDistance: 2, MaxDistance: 200, Damping: 0.8, MaxSpeed: 6, DefaultMass: 1,
			BoundsWidth: 640, BoundsHeight: 480, SettleFrequency: 6, SettleDamping: 1,
		},
	},
	"gravity": {
		Model: "gravity", Integrator: "euler",
		Hooks: HookConfig{
			Relax:  KindHooks{Source: []string{"damping"}, Target: []string{"damping"}},
			Update: KindHooks{Source: []string{"clamp_speed", "jitter", "bounds"}, Target: []string{"clamp_speed", "jitter", "bounds"}},
		},
		Params: Params{
			Attraction: 2, Repulsion: 0.5, RepulsionPower: 2,
			MinDistance: 4, MaxDistance: 0, Damping: 0.9, MaxSpeed: 5, DefaultMass: 1,
			BoundsWidth: 640, BoundsHeight: 480, Jitter: 0.3, JitterScale: 0.01,
		},
	},
}

// GetPreset returns the shared preset for model, or nil. Callers that intend
// to modify it must Clone it first.
func GetPreset(model string) *Config {
	cfg, ok := Presets[model]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
