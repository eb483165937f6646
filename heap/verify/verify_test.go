package verify

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

func newHeap(t *testing.T, size int) *heap.Heap {
	t.Helper()
	h, err := heap.New(heap.Config{Size: size, Logger: logger.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// header returns the header bytes in front of payload p.
func header(p []byte) []byte {
	start := unsafe.Add(unsafe.Pointer(unsafe.SliceData(p)), -format.HeaderSize)
	return unsafe.Slice((*byte)(start), format.HeaderSize)
}

// footer returns the footer bytes following payload p.
func footer(p []byte) []byte {
	return unsafe.Slice(unsafe.SliceData(p), len(p)+format.FooterSize)[len(p):]
}

func requireValidation(t *testing.T, err error, kind string) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want *ValidationError, got %T", err)
	require.Equal(t, kind, verr.Type)
	return verr
}

// TestAllInvariants_Fresh tests a newly formatted heap passes every check.
func TestAllInvariants_Fresh(t *testing.T) {
	h := newHeap(t, 4096)
	require.NoError(t, AllInvariants(h))
}

// TestAllInvariants_AfterOperations tests a mix of allocations and frees.
func TestAllInvariants_AfterOperations(t *testing.T) {
	h := newHeap(t, 8192)

	var live [][]byte
	for _, n := range []int{0, 1, 17, 100, 256, 999} {
		p, err := h.Alloc(n)
		require.NoError(t, err)
		live = append(live, p)
		require.NoError(t, AllInvariants(h))
	}
	for _, i := range []int{1, 3, 5, 0, 4, 2} {
		h.Free(live[i])
		require.NoError(t, AllInvariants(h), "after freeing %d", i)
	}
}

// TestAllInvariants_Closed tests a closed heap is reported.
func TestAllInvariants_Closed(t *testing.T) {
	h, err := heap.New(heap.Config{Size: 1024, Logger: logger.Discard()})
	require.NoError(t, err)
	require.NoError(t, h.Close())

	requireValidation(t, AllInvariants(h), "Partition")
}

// TestPartition_Overrun tests detection of a block running past the region end.
func TestPartition_Overrun(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(64)
	require.NoError(t, err)

	format.PutI64(header(p), format.HeaderSizeOffset, 4096)

	verr := requireValidation(t, Partition(h), "Partition")
	require.Equal(t, 0, verr.Offset)
	require.Contains(t, verr.Message, "extends beyond region")
	require.Equal(t, 4096, verr.Details["size"])
}

// TestPartition_Gap tests detection of a tiling that stops short of the end.
func TestPartition_Gap(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(64)
	require.NoError(t, err)

	// Shrinking the block leaves slack that no header can cover exactly.
	format.PutI64(header(p), format.HeaderSizeOffset, 1024-format.Overhead-10)

	verr := requireValidation(t, Partition(h), "Partition")
	require.Contains(t, verr.Message, "gap of 10 bytes")
}

// TestPartition_Negative tests detection of a negative header size.
func TestPartition_Negative(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(8)
	require.NoError(t, err)

	format.PutI64(header(p), format.HeaderSizeOffset, -5)

	verr := requireValidation(t, Partition(h), "Partition")
	require.Contains(t, verr.Message, "negative block size")
}

// TestMirror_FooterMismatch tests detection of a footer disagreeing with its header.
func TestMirror_FooterMismatch(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(32)
	require.NoError(t, err)

	format.PutI64(footer(p), format.FooterSizeOffset, 31)

	require.NoError(t, Partition(h), "partition follows headers only")
	verr := requireValidation(t, Mirror(h), "Mirror")
	require.Equal(t, 32, verr.Details["header"])
	require.Equal(t, 31, verr.Details["footer"])

	requireValidation(t, RoundTrip(h), "RoundTrip")
	requireValidation(t, AllInvariants(h), "Mirror")
}

// TestAccounting_BrokenLink tests detection of a list link leaving the region.
func TestAccounting_BrokenLink(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(32)
	require.NoError(t, err)

	format.PutI64(header(p), format.HeaderNextOffset, 1<<40)

	verr := requireValidation(t, Accounting(h), "Accounting")
	require.Contains(t, verr.Message, "used list links outside region")
}

// TestAccounting_Totals tests detection of a size change that bypassed the list totals.
func TestAccounting_Totals(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(32)
	require.NoError(t, err)
	_, err = h.Alloc(32)
	require.NoError(t, err)

	// Grow p behind the used list's back.
	format.PutI64(header(p), format.HeaderSizeOffset, 40)

	verr := requireValidation(t, Accounting(h), "Accounting")
	require.Equal(t, "used", verr.Details["list"])
	require.Equal(t, 2*(32+format.Overhead), verr.Details["recorded_bytes"])
	require.Equal(t, 2*(32+format.Overhead)+8, verr.Details["linked_bytes"])
}

// TestOwnership_StateMismatch tests detection of a used-list block tagged available.
func TestOwnership_StateMismatch(t *testing.T) {
	h := newHeap(t, 1024)
	p, err := h.Alloc(32)
	require.NoError(t, err)

	format.PutU64(header(p), format.HeaderStateOffset, uint64(format.StateAvailable))

	verr := requireValidation(t, Ownership(h), "Ownership")
	require.Equal(t, 0, verr.Offset)
	require.Contains(t, verr.Message, "used list")
}

// TestCoalesced_AdjacentAvailable tests detection of two neighboring available blocks.
func TestCoalesced_AdjacentAvailable(t *testing.T) {
	h := newHeap(t, 1024)
	require.NoError(t, Coalesced(h))

	p, err := h.Alloc(32)
	require.NoError(t, err)
	require.NoError(t, Coalesced(h))

	// The remainder above p is available; retagging p makes a pair.
	format.PutU64(header(p), format.HeaderStateOffset, uint64(format.StateAvailable))

	verr := requireValidation(t, Coalesced(h), "Coalesced")
	require.Equal(t, 0, verr.Offset)
}

// TestValidationError_Error tests message formatting with and without an offset.
func TestValidationError_Error(t *testing.T) {
	withOffset := &ValidationError{Type: "Mirror", Message: "bad", Offset: 0x28}
	require.Equal(t, "Mirror at offset 0x28: bad", withOffset.Error())

	without := &ValidationError{Type: "Accounting", Message: "bad", Offset: -1}
	require.Equal(t, "Accounting: bad", without.Error())
}
