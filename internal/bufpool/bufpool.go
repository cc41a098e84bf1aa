// Package bufpool adapts the teacher's fixed-size buffer ring: a set of
// reusable buffers handed out and returned through a channel of free slot
// indices. No other package of this module imports it; the parallel
// decode/encode jobs allocate their own buffers.
package bufpool

// FixedSizeBufferPool hands out fixed-length []byte windows from one arena
// allocation and recycles them via a channel of free slot indices, exactly
// the ring the teacher uses for slab header buffers.
type FixedSizeBufferPool struct {
	buffers [][]byte
	free    chan uint16

	arena   []byte
	bufSize int
}

func NewFixedSizeBufferPool(n int, bufSize int) *FixedSizeBufferPool {
	arena := make([]byte, n*bufSize)

	buffers := make([][]byte, n)
	for i := 0; i < n; i++ {
		start := i * bufSize
		end := start + bufSize
		buffers[i] = arena[start:end:end]
	}

	free := make(chan uint16, n)
	for i := 0; i < n; i++ {
		free <- uint16(i)
	}

	return &FixedSizeBufferPool{
		arena:   arena,
		buffers: buffers,
		free:    free,
		bufSize: bufSize,
	}
}

func (p *FixedSizeBufferPool) Get() ([]byte, uint16) {
	id := <-p.free
	return p.buffers[id], id
}

func (p *FixedSizeBufferPool) Return(id uint16) {
	p.free <- id
}

// TypedRingBuffer recycles fixed-capacity value slots of type T, used for
// pooling decode result structs (e.g. per-block scratch state) instead of
// raw bytes.
type TypedRingBuffer[T any] struct {
	buffers []T
	free    chan uint16
}

func NewTypedRingBuffer[T any](n int) *TypedRingBuffer[T] {
	buffers := make([]T, n)

	free := make(chan uint16, n)
	for i := 0; i < n; i++ {
		free <- uint16(i)
	}

	return &TypedRingBuffer[T]{
		buffers: buffers,
		free:    free,
	}
}

func (p *TypedRingBuffer[T]) Get() (*T, uint16) {
	id := <-p.free
	return &p.buffers[id], id
}

func (p *TypedRingBuffer[T]) Return(id uint16) {
	p.free <- id
}
