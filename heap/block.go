package heap

import (
	"unsafe"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Block is a handle to one block: the byte offset of its header from the
// heap start. Negative handles name list sentinels, which live in the Heap
// value rather than in the region.
type Block int

// NoBlock is returned by geometry and search functions when no block exists.
const NoBlock Block = -1

const (
	availBeg Block = -2 - iota
	availEnd
	usedBeg
	usedEnd

	numSentinels = 4
)

// sentinel is the out-of-region record behind a sentinel handle.
type sentinel struct {
	state byte
	size  int
	next  Block
	prev  Block
}

func (h *Heap) sentinel(b Block) *sentinel {
	return &h.sentinels[-int(b)-2]
}

// Contains reports whether b names a header lying entirely inside the region.
func (h *Heap) Contains(b Block) bool {
	return b >= 0 && buf.Has(len(h.mem), int(b), format.HeaderSize)
}

// Addr returns the absolute address of byte offset off within the region.
func (h *Heap) Addr(off int) uintptr {
	return h.start + uintptr(off)
}

// Header fields. Sentinel handles are redirected to their records so list
// code never branches on list boundaries.

// State returns the state tag of b.
func (h *Heap) State(b Block) byte {
	if b < NoBlock {
		return h.sentinel(b).state
	}
	return byte(format.ReadU64(h.mem, int(b)+format.HeaderStateOffset))
}

func (h *Heap) setState(b Block, state byte) {
	if b < NoBlock {
		h.sentinel(b).state = state
		return
	}
	format.PutU64(h.mem, int(b)+format.HeaderStateOffset, uint64(state))
}

// Size returns the payload size recorded in b's header.
func (h *Heap) Size(b Block) int {
	if b < NoBlock {
		return h.sentinel(b).size
	}
	return int(format.ReadI64(h.mem, int(b)+format.HeaderSizeOffset))
}

func (h *Heap) setSize(b Block, size int) {
	if b < NoBlock {
		h.sentinel(b).size = size
		return
	}
	format.PutI64(h.mem, int(b)+format.HeaderSizeOffset, int64(size))
}

func (h *Heap) next(b Block) Block {
	if b < NoBlock {
		return h.sentinel(b).next
	}
	return Block(format.ReadI64(h.mem, int(b)+format.HeaderNextOffset))
}

func (h *Heap) setNext(b, next Block) {
	if b < NoBlock {
		h.sentinel(b).next = next
		return
	}
	format.PutI64(h.mem, int(b)+format.HeaderNextOffset, int64(next))
}

func (h *Heap) prev(b Block) Block {
	if b < NoBlock {
		return h.sentinel(b).prev
	}
	return Block(format.ReadI64(h.mem, int(b)+format.HeaderPrevOffset))
}

func (h *Heap) setPrev(b, prev Block) {
	if b < NoBlock {
		h.sentinel(b).prev = prev
		return
	}
	format.PutI64(h.mem, int(b)+format.HeaderPrevOffset, int64(prev))
}

// Footer fields. A footer is addressed by its byte offset in the region.

// FooterSize returns the payload size recorded in the footer at foot.
func (h *Heap) FooterSize(foot int) int {
	return int(format.ReadI64(h.mem, foot+format.FooterSizeOffset))
}

func (h *Heap) setFooterSize(foot, size int) {
	format.PutI64(h.mem, foot+format.FooterSizeOffset, int64(size))
}

// Geometry. These follow physical adjacency only and never consult list links.

// FooterOf returns the offset of b's footer, computed from b's header size.
func (h *Heap) FooterOf(b Block) int {
	return int(b) + format.HeaderSize + h.Size(b)
}

// HeaderOf returns the block whose footer sits at foot, computed from the
// footer's own size field.
func (h *Heap) HeaderOf(foot int) Block {
	return Block(foot - format.HeaderSize - h.FooterSize(foot))
}

// BlockAbove returns the block physically following b, or NoBlock when b is
// the last block in the region.
func (h *Heap) BlockAbove(b Block) Block {
	higher := int(b) + h.Size(b) + format.Overhead
	if higher >= len(h.mem) {
		return NoBlock
	}
	return Block(higher)
}

// BlockBelow returns the block physically preceding b, or NoBlock when b is
// the first block in the region. It steps back over the preceding footer and
// uses that footer's size to find its header.
func (h *Heap) BlockBelow(b Block) Block {
	if b == 0 {
		return NoBlock
	}
	return h.HeaderOf(int(b) - format.FooterSize)
}

// First returns the lowest block in the region, or NoBlock once closed.
func (h *Heap) First() Block {
	if len(h.mem) == 0 {
		return NoBlock
	}
	return 0
}

// payload returns the n bytes following b's header. The slice keeps its
// data pointer even when n is zero so blockOf can recover the header.
func (h *Heap) payload(b Block, n int) []byte {
	return unsafe.Slice(&h.mem[int(b)+format.HeaderSize], n)
}

// blockOf recovers the block whose payload starts at p's first byte.
func (h *Heap) blockOf(p []byte) Block {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	return Block(int(addr-h.start) - format.HeaderSize)
}
