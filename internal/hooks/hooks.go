// Package hooks provides per-entity post-processing for the two simulation
// phases. Relax hooks run once integration has moved every node (settling,
// pinning, drag); update hooks run after every node of every kind has
// relaxed (speed limits, bounds, jitter, trails).
//
// A hook sees the node it processes plus a read-only [entity.Collection] of
// every node of the same kind. It may rewrite that node's position and
// velocity but must not assume any traversal order across nodes.
package hooks

import (
	"fmt"

	"github.com/san-kum/swarmsim/internal/entity"
)

type Phase uint8

const (
	Relax Phase = iota
	Update
	numPhases
)

func (p Phase) String() string {
	switch p {
	case Relax:
		return "relax"
	case Update:
		return "update"
	}
	return fmt.Sprintf("phase(%d)", p)
}

// Pass describes the phase pass a hook is invoked from.
type Pass struct {
	Phase Phase
	Frame int
	// Self is the arena handle of the node being processed.
	Self  entity.Handle
	Peers entity.Collection
}

type Hook interface {
	Name() string
	Apply(p *Pass, n *entity.Node)
}

type funcHook struct {
	name string
	fn   func(p *Pass, n *entity.Node)
}

func (f funcHook) Name() string                  { return f.name }
func (f funcHook) Apply(p *Pass, n *entity.Node) { f.fn(p, n) }

// Func adapts a function to the Hook interface.
func Func(name string, fn func(p *Pass, n *entity.Node)) Hook {
	return funcHook{name: name, fn: fn}
}

// Table holds the hooks for every (phase, kind) combination, run in the
// order they were added.
type Table struct {
	hooks [numPhases][entity.NumKinds][]Hook
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Add(phase Phase, kind entity.Kind, h Hook) {
	if phase >= numPhases || !kind.Valid() || h == nil {
		return
	}
	t.hooks[phase][kind] = append(t.hooks[phase][kind], h)
}

// Hooks returns the hooks registered for phase and kind.
func (t *Table) Hooks(phase Phase, kind entity.Kind) []Hook {
	if phase >= numPhases || !kind.Valid() {
		return nil
	}
	return t.hooks[phase][kind]
}

// Run applies every hook registered for the pass's phase and peer kind.
func (t *Table) Run(p *Pass, n *entity.Node) {
	for _, h := range t.Hooks(p.Phase, p.Peers.Kind()) {
		h.Apply(p, n)
	}
}

// Len returns the total number of registered hooks.
func (t *Table) Len() int {
	total := 0
	for ph := range t.hooks {
		for k := range t.hooks[ph] {
			total += len(t.hooks[ph][k])
		}
	}
	return total
}
