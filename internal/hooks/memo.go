package hooks

// memo keeps per-node state keyed by node ID. Entries for nodes the graph
// model has dropped are forgotten one frame after they were last seen.
type memo[T any] struct {
	entries map[string]*memoEntry[T]
	frame   int
}

type memoEntry[T any] struct {
	value T
	seen  int
}

func newMemo[T any]() *memo[T] {
	return &memo[T]{entries: make(map[string]*memoEntry[T]), frame: -1}
}

// touch returns the entry for id, creating it with init when absent.
func (m *memo[T]) touch(frame int, id string, init func() T) *T {
	if frame != m.frame {
		m.prune(frame)
	}
	e, ok := m.entries[id]
	if !ok {
		e = &memoEntry[T]{value: init()}
		m.entries[id] = e
	}
	e.seen = frame
	return &e.value
}

func (m *memo[T]) get(id string) (T, bool) {
	e, ok := m.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (m *memo[T]) forget(id string) { delete(m.entries, id) }

func (m *memo[T]) prune(frame int) {
	m.frame = frame
	for id, e := range m.entries {
		if e.seen < frame-1 {
			delete(m.entries, id)
		}
	}
}

func (m *memo[T]) len() int { return len(m.entries) }
