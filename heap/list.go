package heap

import (
	"iter"

	"github.com/joshuapare/heapkit/internal/format"
)

// BlockList is a doubly linked list of blocks between two permanent
// sentinels. Length and Bytes track the real members, where each member
// contributes its payload size plus format.Overhead.
type BlockList struct {
	h      *Heap
	beg    Block
	end    Block
	length int
	bytes  int
}

// init wires the sentinels to each other and zeroes the accounting.
func (l *BlockList) init(h *Heap, beg, end Block) {
	l.h = h
	l.beg = beg
	l.end = end

	h.setState(beg, format.StateBegin)
	h.setSize(beg, format.Uninitialized)
	h.setState(end, format.StateEnd)
	h.setSize(end, format.Uninitialized)

	h.setNext(beg, end)
	h.setPrev(beg, NoBlock)
	h.setNext(end, NoBlock)
	h.setPrev(end, beg)

	l.length = 0
	l.bytes = 0
}

// addFront links b immediately after the begin sentinel.
func (l *BlockList) addFront(b Block) {
	h := l.h
	first := h.next(l.beg)
	h.setNext(b, first)
	h.setPrev(b, l.beg)
	h.setPrev(first, b)
	h.setNext(l.beg, b)

	l.length++
	l.bytes += h.Size(b) + format.Overhead
}

// remove unlinks b. The caller guarantees b is a member of l.
func (l *BlockList) remove(b Block) {
	h := l.h
	prev, next := h.prev(b), h.next(b)
	h.setNext(prev, next)
	h.setPrev(next, prev)

	l.length--
	l.bytes -= h.Size(b) + format.Overhead
}

// Len returns the number of real blocks in the list.
func (l *BlockList) Len() int { return l.length }

// Bytes returns the payload plus overhead bytes of every real block.
func (l *BlockList) Bytes() int { return l.bytes }

// All yields the real blocks front to back with their list position.
//
// Iteration stops at the end sentinel, at a link that leaves the region, or
// after more steps than the region could hold blocks, so a corrupted chain
// cannot loop forever.
func (l *BlockList) All() iter.Seq2[int, Block] {
	return l.walk(l.beg, l.end, l.h.next)
}

// Backward yields the real blocks back to front, starting at the end sentinel.
func (l *BlockList) Backward() iter.Seq2[int, Block] {
	return l.walk(l.end, l.beg, l.h.prev)
}

func (l *BlockList) walk(from, stop Block, step func(Block) Block) iter.Seq2[int, Block] {
	return func(yield func(int, Block) bool) {
		limit := l.h.maxBlocks()
		b := step(from)
		for i := 0; b != stop && i <= limit; i++ {
			if !yield(i, b) || !l.h.Contains(b) {
				return
			}
			b = step(b)
		}
	}
}

// maxBlocks is the number of empty blocks the region could hold.
func (h *Heap) maxBlocks() int {
	return len(h.mem) / format.Overhead
}
