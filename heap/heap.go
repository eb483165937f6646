package heap

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/mmregion"
)

// Heap is one managed region plus its available and used block lists.
//
// A Heap is not safe for concurrent use. Callers sharing one across
// goroutines must serialize every method call.
type Heap struct {
	mem     []byte
	start   uintptr
	end     uintptr
	bytes   int
	release func() error

	// Sentinel records for both lists, indexed by sentinelIndex.
	sentinels [numSentinels]sentinel

	avail BlockList
	used  BlockList

	counters Counters
	log      *slog.Logger
}

// Counters accumulates operation totals over the life of a heap.
type Counters struct {
	Allocs        int `json:"allocs"`
	AllocFailures int `json:"alloc_failures"`
	Frees         int `json:"frees"`
	Splits        int `json:"splits"`
	Merges        int `json:"merges"`
}

// New reserves cfg.Size bytes and formats them as a single available block.
//
// New fails with ErrHeapTooSmall when cfg.Size cannot hold one block's
// overhead, and with ErrBaseAddress when cfg.BaseAddress is non-zero and the
// region was placed elsewhere.
func New(cfg Config) (*Heap, error) {
	if cfg.Size < format.Overhead {
		return nil, fmt.Errorf("%w: heap size %d, block overhead %d",
			ErrHeapTooSmall, cfg.Size, format.Overhead)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.FromEnv()
	}

	mem, release, err := mmregion.Map(cfg.Size, cfg.BaseAddress)
	if err != nil {
		return nil, fmt.Errorf("heap: reserve %d bytes: %w", cfg.Size, err)
	}
	start := mmregion.Addr(mem)
	if mmregion.FixedAddress && cfg.BaseAddress != 0 && start != cfg.BaseAddress {
		_ = release()
		return nil, fmt.Errorf("%w: want 0x%x, got 0x%x", ErrBaseAddress, cfg.BaseAddress, start)
	}

	h := &Heap{
		mem:     mem,
		start:   start,
		end:     start + uintptr(len(mem)),
		bytes:   len(mem),
		release: release,
		log:     log,
	}
	h.avail.init(h, availBeg, availEnd)
	h.used.init(h, usedBeg, usedEnd)

	first := Block(0)
	size := h.bytes - format.Overhead
	h.setState(first, format.StateAvailable)
	h.setSize(first, size)
	h.setFooterSize(h.FooterOf(first), size)
	h.avail.addFront(first)

	h.log.Debug("heap initialized",
		"start", fmt.Sprintf("0x%x", h.start),
		"bytes", h.bytes,
		"payload", size)
	return h, nil
}

// Close releases the region back to the operating system and clears the
// heap bounds. Calling Close on a closed heap is a no-op. No payload slice
// returned by the heap may be touched afterwards.
func (h *Heap) Close() error {
	if h.mem == nil {
		return nil
	}
	err := h.release()
	h.log.Debug("heap released", "start", fmt.Sprintf("0x%x", h.start), "bytes", h.bytes)

	h.mem = nil
	h.release = nil
	h.start, h.end = 0, 0
	h.bytes = 0
	if err != nil {
		return fmt.Errorf("heap: release region: %w", err)
	}
	return nil
}

// Closed reports whether Close has been called.
func (h *Heap) Closed() bool { return h.mem == nil }

// HeapStart returns the address of the first heap byte, or 0 once closed.
func (h *Heap) HeapStart() uintptr { return h.start }

// HeapEnd returns the address one past the last heap byte, or 0 once closed.
func (h *Heap) HeapEnd() uintptr { return h.end }

// TotalBytes returns the size of the managed region.
func (h *Heap) TotalBytes() int { return h.bytes }

// Available returns the list of free blocks.
func (h *Heap) Available() *BlockList { return &h.avail }

// Used returns the list of allocated blocks.
func (h *Heap) Used() *BlockList { return &h.used }

// Counters returns the operation totals accumulated so far.
func (h *Heap) Counters() Counters { return h.counters }
