package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes one broken heap invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(h *heap.Heap) error {
	checks := []func(*heap.Heap) error{
		Partition,
		Mirror,
		Accounting,
		Ownership,
		RoundTrip,
		Coalesced,
	}
	for _, check := range checks {
		if err := check(h); err != nil {
			return err
		}
	}
	return nil
}

// Partition validates that blocks tile the region exactly: walking upward
// from the first block by header sizes must land on the region end with
// no block running past it.
func Partition(h *heap.Heap) error {
	if h.Closed() {
		return &ValidationError{Type: "Partition", Message: "heap is closed", Offset: -1}
	}

	total := h.TotalBytes()
	limit := total/format.Overhead + 1
	pos := 0
	blocks := 0

	for pos < total {
		if blocks > limit {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("more than %d blocks in a %d byte region", limit, total),
				Offset:  pos,
			}
		}
		if !buf.Has(total, pos, format.HeaderSize) {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("gap of %d bytes before region end", total-pos),
				Offset:  pos,
			}
		}

		size := h.Size(heap.Block(pos))
		if size < 0 {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("negative block size: %d", size),
				Offset:  pos,
			}
		}
		end, ok := buf.AddOverflowSafe(pos, size+format.Overhead)
		if !ok || end > total {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("block extends beyond region: size=%d, available=%d", size, total-pos),
				Offset:  pos,
				Details: map[string]interface{}{
					"size":      size,
					"available": total - pos,
				},
			}
		}

		pos = end
		blocks++
	}

	return nil
}

// Mirror validates that every listed block's footer repeats its header size.
func Mirror(h *heap.Heap) error {
	return eachListed(h, "Mirror", func(_ string, b heap.Block) error {
		foot := h.FooterOf(b)
		if !buf.Has(h.TotalBytes(), foot, format.FooterSize) {
			return &ValidationError{
				Type:    "Mirror",
				Message: fmt.Sprintf("footer outside region: 0x%X", foot),
				Offset:  int(b),
			}
		}
		header, footer := h.Size(b), h.FooterSize(foot)
		if header != footer {
			return &ValidationError{
				Type:    "Mirror",
				Message: fmt.Sprintf("header size %d != footer size %d", header, footer),
				Offset:  int(b),
				Details: map[string]interface{}{
					"header": header,
					"footer": footer,
				},
			}
		}
		return nil
	})
}

// Accounting validates each list's length and byte totals against its
// members, and that the forward and backward chains visit the same blocks.
func Accounting(h *heap.Heap) error {
	for _, nl := range lists(h) {
		name, l := nl.name, nl.list
		var forward []heap.Block
		bytes := 0
		for _, b := range l.All() {
			if !h.Contains(b) {
				return &ValidationError{
					Type:    "Accounting",
					Message: fmt.Sprintf("%s list links outside region: %d", name, b),
					Offset:  -1,
				}
			}
			forward = append(forward, b)
			bytes += h.Size(b) + format.Overhead
		}

		if len(forward) != l.Len() || bytes != l.Bytes() {
			return &ValidationError{
				Type: "Accounting",
				Message: fmt.Sprintf("%s list totals: recorded length=%d bytes=%d, linked length=%d bytes=%d",
					name, l.Len(), l.Bytes(), len(forward), bytes),
				Offset: -1,
				Details: map[string]interface{}{
					"list":            name,
					"recorded_length": l.Len(),
					"recorded_bytes":  l.Bytes(),
					"linked_length":   len(forward),
					"linked_bytes":    bytes,
				},
			}
		}

		i := len(forward) - 1
		for _, b := range l.Backward() {
			if i < 0 || forward[i] != b {
				return &ValidationError{
					Type:    "Accounting",
					Message: fmt.Sprintf("%s list backward chain diverges", name),
					Offset:  int(b),
				}
			}
			i--
		}
		if i != -1 {
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("%s list backward chain is %d blocks short", name, i+1),
				Offset:  -1,
			}
		}
	}
	return nil
}

// Ownership validates that every physical block is linked into exactly one
// list and carries that list's state tag. The physical walk trusts header
// sizes, so run Partition first on a heap that may be damaged.
func Ownership(h *heap.Heap) error {
	owner := map[heap.Block]string{}
	err := eachListed(h, "Ownership", func(name string, b heap.Block) error {
		if prev, dup := owner[b]; dup {
			return &ValidationError{
				Type:    "Ownership",
				Message: fmt.Sprintf("block linked in both %s and %s lists", prev, name),
				Offset:  int(b),
			}
		}
		owner[b] = name

		want := format.StateAvailable
		if name == "used" {
			want = format.StateUsed
		}
		if got := h.State(b); got != want {
			return &ValidationError{
				Type:    "Ownership",
				Message: fmt.Sprintf("block on %s list has state %q", name, got),
				Offset:  int(b),
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for b := h.First(); b != heap.NoBlock; b = h.BlockAbove(b) {
		if _, ok := owner[b]; !ok {
			return &ValidationError{
				Type:    "Ownership",
				Message: fmt.Sprintf("block not linked into any list (state %q)", h.State(b)),
				Offset:  int(b),
			}
		}
		delete(owner, b)
	}
	for b, name := range owner {
		return &ValidationError{
			Type:    "Ownership",
			Message: fmt.Sprintf("%s list links a non-block offset", name),
			Offset:  int(b),
		}
	}
	return nil
}

// RoundTrip validates that stepping from each block to its footer and back
// lands on the same block. Like Ownership it assumes Partition holds.
func RoundTrip(h *heap.Heap) error {
	for b := h.First(); b != heap.NoBlock; b = h.BlockAbove(b) {
		if back := h.HeaderOf(h.FooterOf(b)); back != b {
			return &ValidationError{
				Type:    "RoundTrip",
				Message: fmt.Sprintf("footer leads back to 0x%X", int(back)),
				Offset:  int(b),
			}
		}
	}
	return nil
}

// Coalesced validates that no two physically adjacent blocks are both available.
func Coalesced(h *heap.Heap) error {
	for b := h.First(); b != heap.NoBlock; b = h.BlockAbove(b) {
		above := h.BlockAbove(b)
		if above == heap.NoBlock {
			break
		}
		if h.State(b) == format.StateAvailable && h.State(above) == format.StateAvailable {
			return &ValidationError{
				Type:    "Coalesced",
				Message: fmt.Sprintf("adjacent available blocks at 0x%X and 0x%X", int(b), int(above)),
				Offset:  int(b),
			}
		}
	}
	return nil
}

type namedList struct {
	name string
	list *heap.BlockList
}

func lists(h *heap.Heap) []namedList {
	return []namedList{
		{name: "available", list: h.Available()},
		{name: "used", list: h.Used()},
	}
}

// eachListed calls fn for every block linked into either list, stopping at
// links that leave the region.
func eachListed(h *heap.Heap, kind string, fn func(name string, b heap.Block) error) error {
	for _, nl := range lists(h) {
		name := nl.name
		for _, b := range nl.list.All() {
			if !h.Contains(b) {
				return &ValidationError{
					Type:    kind,
					Message: fmt.Sprintf("%s list links outside region: %d", name, b),
					Offset:  -1,
				}
			}
			if err := fn(name, b); err != nil {
				return err
			}
		}
	}
	return nil
}
