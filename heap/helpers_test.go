package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// newTestHeap creates a heap of size bytes wherever the OS places it and
// closes it when the test ends.
func newTestHeap(t testing.TB, size int) *Heap {
	t.Helper()
	h, err := New(Config{Size: size, Logger: logger.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, h.Close())
	})
	return h
}

// newPayloadHeap creates a heap whose single initial block has the given payload.
func newPayloadHeap(t testing.TB, payload int) *Heap {
	t.Helper()
	return newTestHeap(t, payload+format.Overhead)
}

// requireListConsistent checks the forward and backward chains of l agree and
// that the running totals match the linked blocks.
func requireListConsistent(t testing.TB, h *Heap, l *BlockList) {
	t.Helper()

	var forward []Block
	bytes := 0
	for _, b := range l.All() {
		require.True(t, h.Contains(b), "block %d outside region", b)
		forward = append(forward, b)
		bytes += h.Size(b) + format.Overhead
	}
	var backward []Block
	for _, b := range l.Backward() {
		backward = append(backward, b)
	}
	require.Len(t, backward, len(forward))
	for i := range forward {
		require.Equal(t, forward[i], backward[len(backward)-1-i], "chain mismatch at %d", i)
	}
	require.Equal(t, len(forward), l.Len(), "length")
	require.Equal(t, bytes, l.Bytes(), "bytes")
}

// requireMirrored checks header and footer sizes agree for every listed block.
func requireMirrored(t testing.TB, h *Heap) {
	t.Helper()
	for _, l := range []*BlockList{h.Available(), h.Used()} {
		for _, b := range l.All() {
			require.Equal(t, h.Size(b), h.FooterSize(h.FooterOf(b)), "block %d", b)
		}
	}
}

// listBlocks returns the blocks of l front to back.
func listBlocks(l *BlockList) []Block {
	var out []Block
	for _, b := range l.All() {
		out = append(out, b)
	}
	return out
}
