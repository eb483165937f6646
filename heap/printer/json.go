package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapkit/heap"
)

// Report mirrors heap.Stats with addresses rendered as hex strings. It is
// the document FormatJSON prints, and can be embedded in larger outputs.
type Report struct {
	Overhead   int           `json:"overhead"`
	HeapStart  string        `json:"heap_start"`
	HeapEnd    string        `json:"heap_end"`
	TotalBytes int           `json:"total_bytes"`
	Available  ReportList    `json:"available"`
	Used       ReportList    `json:"used"`
	Counters   heap.Counters `json:"counters"`
}

// ReportList is one block list within a Report.
type ReportList struct {
	Length int           `json:"length"`
	Bytes  int           `json:"bytes"`
	Blocks []ReportBlock `json:"blocks,omitempty"`
}

// ReportBlock is one listed block within a Report.
type ReportBlock struct {
	Header     string `json:"header"`
	Footer     string `json:"footer"`
	State      string `json:"state"`
	Size       int    `json:"size"`
	FooterSize int    `json:"footer_size"`
}

// NewReport converts a snapshot, omitting per-block entries unless
// opts.ShowBlocks is set.
func NewReport(s heap.Stats, opts Options) Report {
	return Report{
		Overhead:   s.Overhead,
		HeapStart:  addr(s.HeapStart),
		HeapEnd:    addr(s.HeapEnd),
		TotalBytes: s.TotalBytes,
		Available:  reportList(s.Available, opts.ShowBlocks),
		Used:       reportList(s.Used, opts.ShowBlocks),
		Counters:   s.Counters,
	}
}

// printStatsJSON prints the snapshot as one indented JSON document.
func (p *Printer) printStatsJSON(s heap.Stats) error {
	data, err := json.MarshalIndent(NewReport(s, p.opts), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func reportList(l heap.ListStats, withBlocks bool) ReportList {
	out := ReportList{Length: l.Length, Bytes: l.Bytes}
	if !withBlocks {
		return out
	}
	for _, b := range l.Blocks {
		out.Blocks = append(out.Blocks, ReportBlock{
			Header:     addr(b.Header),
			Footer:     addr(b.Footer),
			State:      b.State,
			Size:       b.Size,
			FooterSize: b.FooterSize,
		})
	}
	return out
}
