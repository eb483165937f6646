package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runCheck    bool
	runCounters bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runCheck, "check", false, "Validate heap invariants after every operation")
	cmd.Flags().BoolVar(&runCounters, "counters", false, "Include operation counters in text reports")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Replay an allocation trace script",
		Long: `The run command bootstraps a heap and replays a trace script against
it, one operation per line:

  alloc <name> <size>   allocate and bind the payload to name
  free <name>           release the named payload
  print                 print heap statistics
  check                 validate heap invariants

Blank lines and lines starting with # are ignored. A final report is
printed after the last operation.

Example:
  heapctl run scenario.trace
  heapctl run scenario.trace --check -v
  heapctl run scenario.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

// runReport is the --json output of run.
type runReport struct {
	Script string         `json:"script"`
	Result trace.Result   `json:"result"`
	Error  string         `json:"error,omitempty"`
	Heap   printer.Report `json:"heap"`
}

func runRun(args []string) error {
	scriptPath := args[0]

	printVerbose("Parsing script: %s\n", scriptPath)
	ops, err := trace.ParseFile(scriptPath)
	if err != nil {
		return err
	}
	printVerbose("Parsed %s operations\n", formatNumber(len(ops)))

	h, err := openHeap()
	if err != nil {
		return err
	}
	defer h.Close()

	opts := printer.DefaultOptions()
	opts.ShowCounters = runCounters
	report := func(h *heap.Heap) error {
		if jsonOut || quiet {
			return nil
		}
		return printer.New(os.Stdout, opts).PrintHeap(h)
	}

	runner := trace.NewRunner(h, trace.Options{
		CheckEach: runCheck,
		OnEvent:   printEvent,
		OnPrint:   report,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, runErr := runner.Run(ctx, ops)

	if jsonOut {
		out := runReport{
			Script: scriptPath,
			Result: res,
			Heap:   printer.NewReport(h.Stats(), opts),
		}
		if runErr != nil {
			out.Error = runErr.Error()
		}
		if err := printJSON(out); err != nil {
			return err
		}
		return runErr
	}

	if runErr == nil {
		printInfo("\nFinal heap state:\n")
		if err := report(h); err != nil {
			return err
		}
	}
	printSummary(res)
	return runErr
}

func printEvent(ev trace.Event) {
	switch {
	case errors.Is(ev.Err, heap.ErrNoSpace):
		printInfo("line %d: alloc %s %s: no space\n", ev.Op.Line, ev.Op.Name, formatBytes(ev.Op.Size))
	case ev.Op.Kind == trace.KindAlloc:
		printVerbose("line %d: alloc %s %s -> 0x%x\n", ev.Op.Line, ev.Op.Name, formatBytes(ev.Op.Size), ev.Addr)
	case ev.Op.Kind == trace.KindFree:
		printVerbose("line %d: free %s (0x%x)\n", ev.Op.Line, ev.Op.Name, ev.Addr)
	}
}

func printSummary(res trace.Result) {
	live := "none"
	if len(res.Live) > 0 {
		live = strings.Join(res.Live, ", ")
	}
	printInfo("\nReplayed %s operations: %s allocs (%s failed), %s frees, %s checks\n",
		formatNumber(res.Ops), formatNumber(res.Allocs), formatNumber(res.FailedAllocs),
		formatNumber(res.Frees), formatNumber(res.Checks))
	printInfo("Live payloads: %s\n", live)
}
