package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestBlockAboveAndBelow(t *testing.T) {
	h := newPayloadHeap(t, 4096)

	_, err := h.Alloc(100)
	require.NoError(t, err)
	_, err = h.Alloc(50)
	require.NoError(t, err)

	// Physical layout: [0: used 100][140: used 50][230: avail rest]
	a, b, rest := Block(0), Block(140), Block(230)
	require.Equal(t, 100, h.Size(a))
	require.Equal(t, 50, h.Size(b))
	require.Equal(t, 4096-100-50-2*format.Overhead, h.Size(rest))

	require.Equal(t, b, h.BlockAbove(a))
	require.Equal(t, rest, h.BlockAbove(b))
	require.Equal(t, NoBlock, h.BlockAbove(rest))

	require.Equal(t, NoBlock, h.BlockBelow(a))
	require.Equal(t, a, h.BlockBelow(b))
	require.Equal(t, b, h.BlockBelow(rest))
}

func TestFooterHeaderRoundTrip(t *testing.T) {
	h := newPayloadHeap(t, 2048)

	for _, n := range []int{1, 7, 0, 33, 250, 3} {
		_, err := h.Alloc(n)
		require.NoError(t, err)
	}

	count := 0
	for b := h.First(); b != NoBlock; b = h.BlockAbove(b) {
		foot := h.FooterOf(b)
		require.Equal(t, int(b)+format.HeaderSize+h.Size(b), foot)
		require.Equal(t, b, h.HeaderOf(foot), "round trip for block %d", b)
		count++
	}
	require.Equal(t, 7, count, "six allocations plus the remainder")
}

func TestBlockBelowUsesFooterSize(t *testing.T) {
	h := newPayloadHeap(t, 1024)

	_, err := h.Alloc(13)
	require.NoError(t, err)

	// The remainder header starts at an odd offset; stepping back must land on
	// the preceding footer and use its recorded size.
	rest := h.BlockAbove(h.First())
	require.Equal(t, Block(13+format.Overhead), rest)
	require.Equal(t, int(rest)-format.FooterSize, h.FooterOf(h.First()))
	require.Equal(t, h.First(), h.BlockBelow(rest))
}

func TestSentinelRecords(t *testing.T) {
	h := newTestHeap(t, 256)

	for _, l := range []*BlockList{h.Available(), h.Used()} {
		require.Equal(t, format.StateBegin, h.State(l.beg))
		require.Equal(t, format.StateEnd, h.State(l.end))
		require.Equal(t, format.Uninitialized, h.Size(l.beg))
		require.Equal(t, format.Uninitialized, h.Size(l.end))
		require.Equal(t, NoBlock, h.prev(l.beg))
		require.Equal(t, NoBlock, h.next(l.end))
		require.False(t, h.Contains(l.beg))
	}
	require.Equal(t, h.used.end, h.next(h.used.beg), "empty list links sentinels directly")
}

func TestContains(t *testing.T) {
	h := newTestHeap(t, 256)

	require.True(t, h.Contains(0))
	require.True(t, h.Contains(Block(256-format.HeaderSize)))
	require.False(t, h.Contains(Block(256-format.HeaderSize+1)))
	require.False(t, h.Contains(NoBlock))
}

func TestPayloadRecoversBlock(t *testing.T) {
	h := newPayloadHeap(t, 512)

	p, err := h.Alloc(0)
	require.NoError(t, err)
	require.Len(t, p, 0)
	require.Equal(t, Block(0), h.blockOf(p))

	q, err := h.Alloc(16)
	require.NoError(t, err)
	require.Equal(t, Block(format.Overhead), h.blockOf(q))
	require.Equal(t, 16, cap(q))
}
