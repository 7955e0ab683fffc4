package cli

import (
	"flag"
	"fmt"
	"io"

	"dispenser/internal/batch"
	"dispenser/internal/submission"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		inputPath := flags.String("input", "", "Path to a submission file (JSON or YAML)")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if *inputPath == "" {
			fmt.Fprintln(stderr, "--input is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		sub, err := submission.Load(*inputPath)
		if err == nil {
			err = batch.ValidateOrders(sub.Orders)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
			return ExitError
		}

		fmt.Fprintf(stdout, "Submission OK: %d outlets, %d items, %d beverages\n", sub.Outlets, len(sub.Totals), len(sub.Orders))
		return ExitOK
	}
}
