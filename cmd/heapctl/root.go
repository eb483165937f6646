package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logAlloc bool
	heapSize string
	heapBase string
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Drive and inspect an explicit-list heap allocator",
	Long: `heapctl reserves a heap region, formats it as a single available
block and lets you allocate and release payloads from trace scripts while
watching the available and used block lists.

The heap size and base address come from --size and --base, falling back to
HEAPKIT_SIZE and HEAPKIT_BASE, then to 4 KiB at 0x600000000000.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&logAlloc, "log-alloc", false, "Log allocator activity to stderr")
	rootCmd.PersistentFlags().
		StringVar(&heapSize, "size", "", "Heap size in bytes, e.g. 4096 or 64KiB (default $HEAPKIT_SIZE or 4096)")
	rootCmd.PersistentFlags().
		StringVar(&heapBase, "base", "", "Heap base address, 0 lets the OS choose (default $HEAPKIT_BASE or 0x600000000000)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(_ *cobra.Command, _ []string) error {
	if logAlloc || os.Getenv(logger.EnvLogAlloc) != "" {
		logger.Init(logger.Options{Enabled: true, Level: slog.LevelDebug})
	}
	return nil
}

// heapConfig resolves the heap configuration: flags, then environment,
// then built-in defaults.
func heapConfig() (heap.Config, error) {
	cfg, err := heap.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	if heapSize != "" {
		n, err := humanize.ParseBytes(heapSize)
		if err != nil {
			return cfg, fmt.Errorf("%w: --size %q: %w", heap.ErrBadConfig, heapSize, err)
		}
		cfg.Size = int(n)
	}
	if heapBase != "" {
		addr, err := heap.ParseAddress(heapBase)
		if err != nil {
			return cfg, fmt.Errorf("%w: --base %q: %w", heap.ErrBadConfig, heapBase, err)
		}
		cfg.BaseAddress = addr
	}
	cfg.Logger = logger.L
	return cfg, nil
}

// openHeap bootstraps a heap from the resolved configuration.
func openHeap() (*heap.Heap, error) {
	cfg, err := heapConfig()
	if err != nil {
		return nil, err
	}
	printVerbose("Reserving %s at 0x%x\n", formatBytes(cfg.Size), cfg.BaseAddress)

	h, err := heap.New(cfg)
	if err != nil {
		return nil, err
	}
	printVerbose("Heap ready: 0x%x-0x%x (%s bytes)\n", h.HeapStart(), h.HeapEnd(), formatNumber(h.TotalBytes()))
	return h, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var numbers = message.NewPrinter(language.English)

// formatNumber renders n with thousands separators.
func formatNumber(n int) string {
	return numbers.Sprintf("%d", n)
}

// formatBytes renders n in IEC units, e.g. "4.0 KiB".
func formatBytes(n int) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(uint64(n))
}
