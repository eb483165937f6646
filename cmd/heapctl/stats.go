package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/printer"
)

var (
	statsNoBlocks bool
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsNoBlocks, "no-blocks", false, "Show list totals only")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Bootstrap a heap and print its statistics",
		Long: `The stats command reserves a fresh heap, prints the heap bounds and
both block lists, then releases the region.

Example:
  heapctl stats
  heapctl stats --size 64KiB --base 0
  heapctl stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(_ []string) error {
	h, err := openHeap()
	if err != nil {
		return err
	}
	defer h.Close()

	opts := printer.DefaultOptions()
	opts.ShowBlocks = !statsNoBlocks

	if jsonOut {
		return printJSON(printer.NewReport(h.Stats(), opts))
	}
	if quiet {
		return nil
	}
	return printer.New(os.Stdout, opts).PrintHeap(h)
}
