// Package heap implements an explicit-list, boundary-tag memory allocator over
// one contiguous region reserved from the operating system at bootstrap.
//
// # Overview
//
// A Heap owns a single region and never asks the operating system for more.
// Every byte of the region belongs to exactly one block:
//
//	+--------+-----------------+--------+
//	| header |     payload     | footer |
//	+--------+-----------------+--------+
//	  32 B       size bytes       8 B
//
// The header records the block state, its payload size and the list links;
// the footer mirrors the payload size so the block below any header can be
// found by stepping back over its footer. Blocks sit back to back: the block
// above b starts size(b) + Overhead bytes after b.
//
// # Lists
//
// Each block is linked into one of two lists, available or used. Both lists
// have permanent begin/end sentinels so insertion and removal never special
// case an empty list, and both keep an O(1) count of members and of their
// bytes (payload plus overhead).
//
// # Allocation
//
// Alloc scans the available list front to back and takes the first block
// whose payload is at least n + Overhead bytes. The block is shrunk to n bytes
// and the leftover space becomes a new available block above it. The used
// block and the remainder both go to the front of their lists.
//
//	h, err := heap.New(heap.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	p, err := h.Alloc(100)
//	if errors.Is(err, heap.ErrNoSpace) {
//	    // free something and retry
//	}
//	copy(p, data)
//	h.Free(p)
//
// # Release
//
// Free moves the block back to the available list, then merges it with the
// block above when that block is available, then offers the block below the
// same merge. Two attempts suffice because a release creates at most one new
// available block with at most two physical neighbors.
//
// # Handles
//
// Blocks are addressed by their offset from the heap start (Block). Payloads
// are handed out as []byte views into the region, and Free recovers the
// header from the slice's data pointer. Header and footer fields are read and
// written through internal/format, so no Go struct is ever overlaid on the
// region.
//
// # Thread Safety
//
// A Heap is not safe for concurrent use. Wrap every call in an external lock
// when sharing one between goroutines.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/verify: invariant checks over a live heap
//   - github.com/joshuapare/heapkit/heap/printer: statistics reports
//   - github.com/joshuapare/heapkit/heap/arrowmem: Apache Arrow allocator adapter
package heap
