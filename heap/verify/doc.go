// Package verify provides validation functions for live heap structures.
//
// # Overview
//
// The checks here walk a heap's region and block lists and report the first
// broken invariant they find. They are used by the heap property tests after
// every operation and by `heapctl run --check` and `heapctl validate`.
//
// Validation categories:
//   - Partition: blocks tile the region with no gap and no overlap
//   - Mirror: every listed block's footer repeats its header size
//   - Accounting: list length and byte totals match the linked blocks
//   - Ownership: each block is on exactly one list with a matching state tag
//   - RoundTrip: footer_of and header_of invert each other
//   - Coalesced: no two physically adjacent blocks are both available
//
// # Quick Start
//
//	h, _ := heap.New(heap.DefaultConfig())
//	defer h.Close()
//
//	p, _ := h.Alloc(100)
//	h.Free(p)
//
//	if err := verify.AllInvariants(h); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return *ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string                 // Check name (e.g., "Mirror")
//	    Message string                 // Human-readable description
//	    Offset  int                    // Block offset from heap start (-1 if N/A)
//	    Details map[string]interface{} // Additional context
//	}
//
// Example:
//
//	var verr *verify.ValidationError
//	if errors.As(verify.Accounting(h), &verr) {
//	    fmt.Printf("list %v recorded %v bytes, linked %v\n",
//	        verr.Details["list"], verr.Details["recorded_bytes"], verr.Details["linked_bytes"])
//	}
//
// # Order
//
// AllInvariants runs Partition first. Ownership, RoundTrip and Coalesced
// follow physical adjacency by header sizes and may misbehave on a region
// whose sizes are already inconsistent, so call them on their own only when
// Partition is known to hold.
package verify
