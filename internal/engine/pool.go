package engine

import (
	"sync"

	"github.com/san-kum/swarmsim/internal/vector"
)

// bufferPool recycles force accumulators between frames. Buffers come back
// zeroed and sized to the request.
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]vector.Vector2)
			},
		},
	}
}

func (p *bufferPool) get(n int) []vector.Vector2 {
	bp := p.pool.Get().(*[]vector.Vector2)
	buf := *bp
	if cap(buf) < n {
		return make([]vector.Vector2, n)
	}
	buf = buf[:n]
	for i := range buf {
		buf[i] = vector.Zero
	}
	return buf
}

func (p *bufferPool) put(buf []vector.Vector2) {
	if buf == nil {
		return
	}
	p.pool.Put(&buf)
}
