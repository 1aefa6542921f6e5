// Package entity defines the bipartite graph snapshot the layout engine works on.
//
// The graph model collaborator owns entity lifecycles; each frame it hands
// the engine a [Snapshot]: an arena of [Node] values addressed by stable
// [Handle] indices, plus the [Edge] list referencing them. The engine only
// ever mutates node position and velocity in place.
//
//   - [Kind]: source (people) or target (files)
//   - [Node]: position, velocity, mass, pin flag
//   - [Edge]: weighted source -> target relationship
//   - [Collection]: read-only same-kind view handed to phase hooks
package entity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/san-kum/swarmsim/internal/vector"
)

// MinMass is the floor applied to every node mass.
const MinMass = 1e-3

type Kind uint8

const (
	Source Kind = iota
	Target
	numKinds
)

// NumKinds is the number of entity kinds.
const NumKinds = int(numKinds)

var kindNames = [...]string{Source: "source", Target: "target"}

// Kinds returns every kind in processing order.
func Kinds() []Kind { return []Kind{Source, Target} }

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (k Kind) Valid() bool { return k < numKinds }

// ParseKind converts "source"/"target" (or the aliases "person"/"file") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "source", "person", "people":
		return Source, nil
	case "target", "file", "files":
		return Target, nil
	}
	return 0, fmt.Errorf("entity: unknown kind %q", s)
}

// Handle addresses a node inside a Snapshot.
type Handle int

// Node is one graph participant.
type Node struct {
	ID     string
	Kind   Kind
	Pos    vector.Vector2
	Vel    vector.Vector2
	Mass   float64
	Pinned bool
}

// Edge links a source-kind node to a target-kind node.
type Edge struct {
	Source Handle
	Target Handle
	Weight float64
}

func clampMass(m float64) float64 {
	if !(m >= MinMass) { // also catches NaN
		return MinMass
	}
	return m
}

// NewID returns a fresh node identifier.
func NewID() string { return uuid.NewString() }
