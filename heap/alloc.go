package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Alloc returns an n-byte payload carved from the first available block with
// room for n bytes plus one block overhead.
//
// On ErrNoSpace the heap is left exactly as it was. The returned slice has
// length and capacity n; it stays valid until passed to Free or the heap is
// closed.
func (h *Heap) Alloc(n int) ([]byte, error) {
	if h.mem == nil {
		return nil, ErrClosed
	}
	h.counters.Allocs++

	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	need, ok := buf.AddOverflowSafe(n, format.Overhead)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}

	b := h.findFirstAvail(need)
	if b == NoBlock {
		h.counters.AllocFailures++
		h.log.Debug("alloc failed",
			"request", n,
			"available_blocks", h.avail.length,
			"available_bytes", h.avail.bytes)
		return nil, fmt.Errorf("%w: request %d bytes", ErrNoSpace, n)
	}
	h.avail.remove(b)

	rest := h.splitBlock(b, n)

	h.setState(b, format.StateUsed)
	h.used.addFront(b)
	if rest != NoBlock {
		h.counters.Splits++
		h.setState(rest, format.StateAvailable)
		h.avail.addFront(rest)
		h.log.Debug("split",
			"block", int(b),
			"size", n,
			"remainder", int(rest),
			"remainder_size", h.Size(rest))
	}
	return h.payload(b, n), nil
}

// Allocate is Alloc with a nil result in place of an error.
func (h *Heap) Allocate(n int) []byte {
	p, err := h.Alloc(n)
	if err != nil {
		return nil
	}
	return p
}

// Reallocate resizes p to n bytes. It returns p unchanged when the length
// already matches. Otherwise it allocates a new payload, copies the common
// prefix and frees p; when no space is available it returns nil and p stays
// allocated.
func (h *Heap) Reallocate(n int, p []byte) []byte {
	if len(p) == n {
		return p
	}
	q := h.Allocate(n)
	if q == nil {
		return nil
	}
	copy(q, p)
	h.Free(p)
	return q
}

// findFirstAvail scans the available list front to back for the first block
// whose payload is at least need bytes.
func (h *Heap) findFirstAvail(need int) Block {
	for _, b := range h.avail.All() {
		if h.Size(b) >= need {
			return b
		}
	}
	return NoBlock
}

// splitBlock shrinks b to a payload of size bytes and formats the leftover
// space above it as a new block, which is returned unlinked. When b is too
// small to hold size bytes plus a second block's overhead nothing changes
// and NoBlock is returned.
func (h *Heap) splitBlock(b Block, size int) Block {
	original := h.Size(b)
	if original < size+format.Overhead {
		return NoBlock
	}

	h.setSize(b, size)
	h.setFooterSize(h.FooterOf(b), size)

	rest := h.BlockAbove(b)
	restSize := original - size - format.Overhead
	h.setSize(rest, restSize)
	h.setFooterSize(h.FooterOf(rest), restSize)
	return rest
}
