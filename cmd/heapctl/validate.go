package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/trace"
)

// errValidation marks a script whose replay broke a heap invariant or the
// script contract.
var errValidation = errors.New("validation failed")

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Replay a trace script and check every heap invariant",
		Long: `The validate command replays a trace script silently, checking the
heap partition, header/footer mirroring, list accounting, list ownership and
coalescing after every operation, and reports PASS or FAIL.

Example:
  heapctl validate scenario.trace
  heapctl validate scenario.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(args []string) error {
	scriptPath := args[0]

	printVerbose("Validating script: %s\n", scriptPath)

	ops, err := trace.ParseFile(scriptPath)
	if err != nil {
		return err
	}

	h, err := openHeap()
	if err != nil {
		return err
	}
	defer h.Close()

	runner := trace.NewRunner(h, trace.Options{CheckEach: true})
	res, runErr := runner.Run(context.Background(), ops)
	if runErr == nil {
		runner.Release()
		if err := verify.AllInvariants(h); err != nil {
			runErr = fmt.Errorf("after releasing live payloads: %w", err)
		}
	}

	// Prepare result
	result := map[string]interface{}{
		"file":   scriptPath,
		"ops":    res.Ops,
		"checks": res.Checks,
		"valid":  runErr == nil,
	}
	if runErr != nil {
		result["error"] = runErr.Error()
	}

	if jsonOut {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printInfo("Validating %s: %s operations, %s checks\n",
			scriptPath, formatNumber(res.Ops), formatNumber(res.Checks))
		if runErr != nil {
			printInfo("Result: FAIL\n")
		} else {
			printInfo("Result: PASS\n")
		}
	}

	if runErr != nil {
		var verr *verify.ValidationError
		if errors.As(runErr, &verr) {
			printVerbose("  check:  %s\n", verr.Type)
			printVerbose("  offset: 0x%x\n", verr.Offset)
		}
		return fmt.Errorf("%w: %w", errValidation, runErr)
	}
	return nil
}
