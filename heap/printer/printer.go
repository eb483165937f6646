// Package printer renders heap statistics snapshots as text or JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/heap"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the classic heap statistics report.
	FormatText Format = "text"

	// FormatJSON outputs an indented JSON document.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowBlocks lists every block under its list summary.
	// Default: true
	ShowBlocks bool

	// ShowCounters appends the operation counters (text format only;
	// JSON always carries them).
	// Default: false
	ShowCounters bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		ShowBlocks:   true,
		ShowCounters: false,
	}
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Printer handles formatted output of heap statistics.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintHeap(h)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// PrintHeap captures h's statistics and prints them.
func (p *Printer) PrintHeap(h *heap.Heap) error {
	return p.PrintStats(h.Stats())
}

// PrintStats prints a snapshot previously captured with Heap.Stats.
func (p *Printer) PrintStats(s heap.Stats) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printStatsJSON(s)
	case FormatText:
		return p.printStatsText(s)
	default:
		return p.printStatsText(s)
	}
}
