package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/swarmsim/internal/vector"
)

var (
	// ErrBadHandle indicates a handle outside the snapshot arena.
	ErrBadHandle = errors.New("entity: handle out of range")

	// ErrKindMismatch indicates an edge endpoint of the wrong kind.
	ErrKindMismatch = errors.New("entity: edge endpoint has wrong kind")

	// ErrBadWeight indicates a non-positive or non-finite edge weight.
	ErrBadWeight = errors.New("entity: edge weight must be positive and finite")
)

// Snapshot is the per-frame view of the graph. Nodes is an arena; a Handle
// is an index into it and stays valid for the snapshot's lifetime.
type Snapshot struct {
	Nodes []Node
	Edges []Edge

	byKind [NumKinds][]Handle
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// AddNode appends a node with a generated ID and returns its handle.
func (s *Snapshot) AddNode(kind Kind, pos vector.Vector2, mass float64) Handle {
	return s.AddNodeWithID(NewID(), kind, pos, mass)
}

// AddNodeWithID appends a node with a caller-supplied ID.
func (s *Snapshot) AddNodeWithID(id string, kind Kind, pos vector.Vector2, mass float64) Handle {
	h := Handle(len(s.Nodes))
	s.Nodes = append(s.Nodes, Node{
		ID:   id,
		Kind: kind,
		Pos:  pos,
		Mass: clampMass(mass),
	})
	if kind.Valid() {
		s.byKind[kind] = append(s.byKind[kind], h)
	}
	return h
}

// AddEdge links src (source kind) to tgt (target kind).
func (s *Snapshot) AddEdge(src, tgt Handle, weight float64) error {
	e := Edge{Source: src, Target: tgt, Weight: weight}
	if err := s.Check(e); err != nil {
		return err
	}
	s.Edges = append(s.Edges, e)
	return nil
}

// Check reports whether e references two in-range nodes of the right kinds
// and carries a usable weight.
func (s *Snapshot) Check(e Edge) error {
	if !s.InRange(e.Source) || !s.InRange(e.Target) {
		return fmt.Errorf("%w: edge %d -> %d (%d nodes)", ErrBadHandle, e.Source, e.Target, len(s.Nodes))
	}
	if s.Nodes[e.Source].Kind != Source || s.Nodes[e.Target].Kind != Target {
		return fmt.Errorf("%w: edge %d -> %d is %s -> %s", ErrKindMismatch,
			e.Source, e.Target, s.Nodes[e.Source].Kind, s.Nodes[e.Target].Kind)
	}
	if !(e.Weight > 0) || math.IsInf(e.Weight, 0) {
		return fmt.Errorf("%w: %v", ErrBadWeight, e.Weight)
	}
	return nil
}

func (s *Snapshot) InRange(h Handle) bool {
	return h >= 0 && int(h) < len(s.Nodes)
}

// Node returns a pointer into the arena for in-place mutation.
func (s *Snapshot) Node(h Handle) *Node {
	return &s.Nodes[h]
}

// Handles returns the handles of every node of kind k in insertion order.
// The slice must not be modified.
func (s *Snapshot) Handles(k Kind) []Handle {
	s.reindex()
	if !k.Valid() {
		return nil
	}
	return s.byKind[k]
}

// Collection returns a read-only view of every node of kind k.
func (s *Snapshot) Collection(k Kind) Collection {
	return Collection{snap: s, kind: k, handles: s.Handles(k)}
}

// Len returns the total node count.
func (s *Snapshot) Len() int { return len(s.Nodes) }

// Clone returns a deep copy, which is what a graph model hands the engine
// when its own collections may change during the frame.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	copy(c.Nodes, s.Nodes)
	copy(c.Edges, s.Edges)
	c.reindex()
	return c
}

// reindex rebuilds the per-kind handle lists when Nodes was populated
// directly rather than through AddNode.
func (s *Snapshot) reindex() {
	total := 0
	for k := range s.byKind {
		total += len(s.byKind[k])
	}
	if total == len(s.Nodes) {
		return
	}
	for k := range s.byKind {
		s.byKind[k] = s.byKind[k][:0]
	}
	for i := range s.Nodes {
		if k := s.Nodes[i].Kind; k.Valid() {
			s.byKind[k] = append(s.byKind[k], Handle(i))
		}
	}
}

// Collection is a read-only view of the nodes of one kind. At returns copies,
// so hooks can inspect neighbours without structurally mutating them.
type Collection struct {
	snap    *Snapshot
	kind    Kind
	handles []Handle
	// frozen, when set, holds the nodes as they were at Freeze time.
	frozen []Node
}

// Freeze returns a view whose At reports the nodes as they are now, unaffected
// by later writes to the snapshot. buf is reused when it is large enough.
func (c Collection) Freeze(buf []Node) Collection {
	if cap(buf) < len(c.handles) {
		buf = make([]Node, len(c.handles))
	}
	buf = buf[:len(c.handles)]
	for i, h := range c.handles {
		buf[i] = c.snap.Nodes[h]
	}
	c.frozen = buf
	return c
}

func (c Collection) Kind() Kind { return c.kind }

func (c Collection) Len() int { return len(c.handles) }

// At returns a copy of the i-th node of the collection.
func (c Collection) At(i int) Node {
	if c.frozen != nil {
		return c.frozen[i]
	}
	return c.snap.Nodes[c.handles[i]]
}

// Handle returns the arena handle of the i-th node.
func (c Collection) Handle(i int) Handle { return c.handles[i] }

// Contains reports whether h addresses a node of this collection.
func (c Collection) Contains(h Handle) bool {
	return c.snap != nil && c.snap.InRange(h) && c.snap.Nodes[h].Kind == c.kind
}
