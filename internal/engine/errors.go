package engine

import (
	"fmt"

	"github.com/san-kum/swarmsim/internal/entity"
)

// ContractViolation reports an edge or handle that does not belong to the
// snapshot it was handed with. It means the graph model lost referential
// integrity. In debug mode the engine panics with it; otherwise the work is
// skipped and counted.
type ContractViolation struct {
	Frame   int
	Edge    entity.Edge
	Wrapped error
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("engine: contract violation at frame %d: %v", e.Frame, e.Wrapped)
}

func (e *ContractViolation) Unwrap() error {
	return e.Wrapped
}

// violate panics in debug mode. Otherwise it counts the violation and logs
// the first one of each frame.
func (e *Engine) violate(edge entity.Edge, err error) {
	v := &ContractViolation{Frame: e.frame, Edge: edge, Wrapped: err}
	if e.cfg.Debug {
		panic(v)
	}
	e.stats.SkippedEdges++
	if e.loggedAt != e.frame {
		e.loggedAt = e.frame
		e.logger.Printf("%v (further violations this frame are counted, not logged)", v)
	}
}
