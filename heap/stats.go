package heap

import (
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Stats is a read-only snapshot of a heap's bounds and both block lists.
type Stats struct {
	Overhead   int       `json:"overhead"`
	HeapStart  uintptr   `json:"heap_start"`
	HeapEnd    uintptr   `json:"heap_end"`
	TotalBytes int       `json:"total_bytes"`
	Available  ListStats `json:"available"`
	Used       ListStats `json:"used"`
	Counters   Counters  `json:"counters"`
}

// ListStats describes one block list in list order.
type ListStats struct {
	Length int         `json:"length"`
	Bytes  int         `json:"bytes"`
	Blocks []BlockInfo `json:"blocks"`
}

// BlockInfo describes one listed block.
type BlockInfo struct {
	Header     uintptr `json:"header"`
	Footer     uintptr `json:"footer"`
	State      string  `json:"state"`
	Size       int     `json:"size"`
	FooterSize int     `json:"footer_size"`
}

// Stats captures the current heap state. A closed heap reports zero bounds
// and empty lists.
func (h *Heap) Stats() Stats {
	s := Stats{
		Overhead:   format.Overhead,
		HeapStart:  h.start,
		HeapEnd:    h.end,
		TotalBytes: h.bytes,
		Counters:   h.counters,
	}
	if h.mem == nil {
		s.Available.Blocks = []BlockInfo{}
		s.Used.Blocks = []BlockInfo{}
		return s
	}
	s.Available = h.listStats(&h.avail)
	s.Used = h.listStats(&h.used)
	return s
}

func (h *Heap) listStats(l *BlockList) ListStats {
	ls := ListStats{
		Length: l.length,
		Bytes:  l.bytes,
		Blocks: make([]BlockInfo, 0, l.length),
	}
	for _, b := range l.All() {
		if !h.Contains(b) {
			break
		}
		foot := h.FooterOf(b)
		info := BlockInfo{
			Header: h.Addr(int(b)),
			Footer: h.Addr(foot),
			State:  string(rune(h.State(b))),
			Size:   h.Size(b),
		}
		if buf.Has(len(h.mem), foot, format.FooterSize) {
			info.FooterSize = h.FooterSize(foot)
		}
		ls.Blocks = append(ls.Blocks, info)
	}
	return ls
}
