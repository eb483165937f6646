// Package arrowmem exposes a heap as an Apache Arrow memory.Allocator, so
// Arrow buffers and builders can draw their storage from a heap region.
//
//	h, _ := heap.New(heap.Config{Size: 1 << 20})
//	defer h.Close()
//
//	mem := arrowmem.New(h)
//	b := array.NewInt64Builder(mem)
//	defer b.Release()
//
// Arrow prefers 64-byte aligned buffers; heap payloads carry no alignment
// guarantee, which Arrow tolerates at some cost on vectorized kernels.
package arrowmem

import (
	"fmt"
	"sync"

	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/joshuapare/heapkit/heap"
)

var _ memory.Allocator = (*Allocator)(nil)

// Allocator adapts a *heap.Heap to memory.Allocator. Calls are serialized
// with a mutex, so one Allocator may be shared by concurrent Arrow code as
// long as nothing else touches the heap.
//
// memory.Allocator has no error return. When the heap is exhausted Allocate
// and Reallocate panic with an error wrapping heap.ErrNoSpace, the way the Go
// runtime panics when make cannot be satisfied.
type Allocator struct {
	mu sync.Mutex
	h  *heap.Heap
}

// New wraps h. The caller keeps ownership of h and must close it after every
// Arrow object using the Allocator has been released.
func New(h *heap.Heap) *Allocator {
	return &Allocator{h: h}
}

// Heap returns the wrapped heap.
func (a *Allocator) Heap() *heap.Heap { return a.h }

// Allocate returns a size-byte payload.
func (a *Allocator) Allocate(size int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.h.Alloc(size)
	if err != nil {
		panic(fmt.Errorf("arrowmem: allocate %d bytes: %w", size, err))
	}
	return p
}

// Reallocate resizes b, copying its contents when the payload moves.
func (a *Allocator) Reallocate(size int, b []byte) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.h.Reallocate(size, b)
	if out == nil {
		panic(fmt.Errorf("arrowmem: reallocate %d to %d bytes: %w", len(b), size, heap.ErrNoSpace))
	}
	return out
}

// Free releases b back to the heap. A nil b is ignored.
func (a *Allocator) Free(b []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.h.Free(b)
}
