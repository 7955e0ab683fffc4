package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"dispenser/internal/machine"
	"dispenser/internal/render"
	"dispenser/internal/submission"
	"dispenser/pkg/dispenser"
	"dispenser/pkg/dispenser/httpclient"
)

const requestTimeout = 30 * time.Second

var newMachine = func() *machine.Machine {
	return machine.New(machine.Config{})
}

// batchView is what the run command prints for one submission.
type batchView struct {
	batchID  string
	outcomes []dispenser.Outcome
	items    dispenser.Stock
	low      []dispenser.Resource
}

// dispenseFunc serves one submission file.
type dispenseFunc func(ctx context.Context, path string) (batchView, error)

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var inputs stringList
		fs.Var(&inputs, "input", "Submission file (repeatable; the first fills the machine, later ones refill it)")
		server := fs.String("server", "", "Base URL of a dispenserd server (default: run in-process)")
		noColor := fs.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if len(inputs) == 0 {
			fmt.Fprintln(stderr, "at least one --input is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		plain := *noColor || !render.IsTerminal(stdout)

		ctx := context.Background()
		var dispense dispenseFunc
		if *server != "" {
			dispense = remoteDispenser(httpclient.NewWithTimeout(*server, requestTimeout))
		} else {
			m := newMachine()
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = m.Close(closeCtx)
			}()
			dispense = localDispenser(m)
		}

		for i, path := range inputs {
			view, err := dispense(ctx, path)
			if err != nil {
				fmt.Fprintf(stderr, "Batch %d (%s) failed:\n%v\n", i+1, path, err)
				return ExitError
			}
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			printBatch(stdout, i+1, view, plain)
		}
		return ExitOK
	}
}

func localDispenser(m *machine.Machine) dispenseFunc {
	return func(ctx context.Context, path string) (batchView, error) {
		sub, err := submission.Load(path)
		if err != nil {
			return batchView{}, err
		}
		res, err := m.ProcessData(ctx, sub)
		if err != nil {
			return batchView{}, err
		}
		return batchView{
			batchID:  res.BatchID,
			outcomes: res.Outcomes,
			items:    res.Stock,
			low:      m.LowItemIndicator(),
		}, nil
	}
}

func remoteDispenser(client *httpclient.Client) dispenseFunc {
	return func(ctx context.Context, path string) (batchView, error) {
		document, err := os.ReadFile(path)
		if err != nil {
			return batchView{}, fmt.Errorf("read submission: %w", err)
		}
		res, err := client.SubmitBatch(ctx, document)
		if err != nil {
			return batchView{}, err
		}
		low, err := client.LowItems(ctx)
		if err != nil {
			return batchView{}, err
		}
		return batchView{batchID: res.BatchID, outcomes: res.Outcomes, items: res.Items, low: low}, nil
	}
}

func printBatch(w io.Writer, n int, view batchView, plain bool) {
	fmt.Fprintf(w, "Batch %d %s\n", n, view.batchID)
	render.Outcomes(w, view.outcomes, plain)
	fmt.Fprintln(w)
	fmt.Fprintln(w, render.Inventory(view.items, view.low, plain))
	fmt.Fprintln(w, render.LowItems(view.low, plain))
}
