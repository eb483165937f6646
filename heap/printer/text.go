package printer

import (
	"bufio"
	"fmt"

	"github.com/joshuapare/heapkit/heap"
)

// printStatsText writes the report block by block:
//
//	HEAP STATS (overhead per node: 40)
//	heap_start:  0x600000000000
//	heap_end:    0x600000001000
//	total_bytes: 4096
//	AVAILABLE LIST: {length:   1  bytes:  4096}
//	  [  0] head @ 0x600000000000 {state: a  size:  4056}
//	        foot @ 0x600000000ff8 {size:  4056}
//	USED LIST: {length:   0  bytes:     0}
func (p *Printer) printStatsText(s heap.Stats) error {
	w := bufio.NewWriter(p.writer)

	fmt.Fprintf(w, "HEAP STATS (overhead per node: %d)\n", s.Overhead)
	fmt.Fprintf(w, "heap_start:  %s\n", addr(s.HeapStart))
	fmt.Fprintf(w, "heap_end:    %s\n", addr(s.HeapEnd))
	fmt.Fprintf(w, "total_bytes: %d\n", s.TotalBytes)

	fmt.Fprint(w, "AVAILABLE LIST: ")
	p.printListText(w, s.Available)
	fmt.Fprint(w, "USED LIST: ")
	p.printListText(w, s.Used)

	if p.opts.ShowCounters {
		c := s.Counters
		fmt.Fprintf(w, "COUNTERS: {allocs: %d  failures: %d  frees: %d  splits: %d  merges: %d}\n",
			c.Allocs, c.AllocFailures, c.Frees, c.Splits, c.Merges)
	}

	return w.Flush()
}

func (p *Printer) printListText(w *bufio.Writer, l heap.ListStats) {
	fmt.Fprintf(w, "{length: %3d  bytes: %5d}\n", l.Length, l.Bytes)
	if !p.opts.ShowBlocks {
		return
	}
	for i, b := range l.Blocks {
		fmt.Fprintf(w, "  [%3d] head @ %s {state: %s  size: %5d}\n", i, addr(b.Header), b.State, b.Size)
		fmt.Fprintf(w, "%6s  foot @ %s {size: %5d}\n", "", addr(b.Footer), b.FooterSize)
	}
}

func addr(a uintptr) string {
	return fmt.Sprintf("0x%x", a)
}
