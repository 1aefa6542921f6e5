// Package scenario builds synthetic bipartite snapshots: people on an inner
// ring, files on an outer ring, and seeded weighted edges between them.
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/vector"
)

type Spec struct {
	Sources        int     `yaml:"sources"`
	Targets        int     `yaml:"targets"`
	EdgesPerSource int     `yaml:"edges_per_source"`
	Radius         float64 `yaml:"radius"`
	Mass           float64 `yaml:"mass"`
	// PinFraction of the targets start pinned.
	PinFraction float64 `yaml:"pin_fraction"`
	Seed        int64   `yaml:"seed"`
}

var Presets = map[string]Spec{
	"small":  {Sources: 4, Targets: 12, EdgesPerSource: 3, Radius: 120, Mass: 1, Seed: 1},
	"medium": {Sources: 20, Targets: 120, EdgesPerSource: 8, Radius: 200, Mass: 1, PinFraction: 0.05, Seed: 1},
	"dense":  {Sources: 60, Targets: 600, EdgesPerSource: 25, Radius: 220, Mass: 1, PinFraction: 0.02, Seed: 1},
}

func Get(name string) (Spec, error) {
	s, ok := Presets[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown scenario %q (available: %v)", name, List())
	}
	return s, nil
}

func List() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Center is where both rings are centred.
var Center = vector.New(320, 240)

// Generate builds the snapshot described by s. The same spec always yields
// the same positions, edges and weights; only node IDs differ.
func Generate(s Spec) *entity.Snapshot {
	rng := rand.New(rand.NewSource(s.Seed))
	snap := entity.NewSnapshot()

	sources := ring(snap, rng, entity.Source, s.Sources, s.Radius*0.4, s.Mass)
	targets := ring(snap, rng, entity.Target, s.Targets, s.Radius, s.Mass)

	for _, h := range targets {
		if rng.Float64() < s.PinFraction {
			snap.Node(h).Pinned = true
		}
	}

	if len(targets) == 0 {
		return snap
	}
	per := s.EdgesPerSource
	if per > len(targets) {
		per = len(targets)
	}
	for _, src := range sources {
		for _, i := range rng.Perm(len(targets))[:per] {
			// weights model touch counts: mostly 1, sometimes more
			w := 1 + math.Floor(rng.ExpFloat64())
			_ = snap.AddEdge(src, targets[i], w)
		}
	}
	return snap
}

// ring places n nodes evenly on a circle with a little radial noise.
func ring(snap *entity.Snapshot, rng *rand.Rand, kind entity.Kind, n int, radius, mass float64) []entity.Handle {
	hs := make([]entity.Handle, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (0.9 + 0.2*rng.Float64())
		pos := Center.Add(vector.New(math.Cos(a), math.Sin(a)).Scale(r))
		hs = append(hs, snap.AddNode(kind, pos, mass))
	}
	return hs
}
