package heap

import "github.com/joshuapare/heapkit/internal/format"

// Free returns the block behind p to the available list and coalesces it
// with any available physical neighbors.
//
// p must be a payload returned by Alloc, Allocate or Reallocate on this heap
// and not freed since; nothing else is validated. A nil p, or any p once
// the heap is closed, is ignored.
func (h *Heap) Free(p []byte) {
	if p == nil || h.mem == nil {
		return
	}
	h.counters.Frees++

	b := h.blockOf(p)
	h.used.remove(b)
	h.setState(b, format.StateAvailable)
	h.avail.addFront(b)

	// b absorbs its upper neighbor first, so the downward attempt only has
	// to look at what now sits directly below b.
	h.mergeWithAbove(b)
	h.mergeWithAbove(h.BlockBelow(b))
}

// mergeWithAbove joins lower and the block physically above it into one
// available block at lower's address. It does nothing unless both exist and
// are available.
func (h *Heap) mergeWithAbove(lower Block) {
	if lower == NoBlock || h.State(lower) != format.StateAvailable {
		return
	}
	higher := h.BlockAbove(lower)
	if higher == NoBlock || h.State(higher) != format.StateAvailable {
		return
	}

	h.avail.remove(lower)
	h.avail.remove(higher)

	foot := h.FooterOf(higher)
	size := h.Size(lower) + h.Size(higher) + format.Overhead
	h.setSize(lower, size)
	h.setFooterSize(foot, size)

	h.avail.addFront(lower)
	h.counters.Merges++
	h.log.Debug("merge", "lower", int(lower), "higher", int(higher), "size", size)
}
