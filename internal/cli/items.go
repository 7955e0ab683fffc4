package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dispenser/internal/render"
	"dispenser/pkg/dispenser/httpclient"
)

func runItems(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		server := fs.String("server", "", "Base URL of a dispenserd server")
		noColor := fs.Bool("no-color", false, "Disable colored output")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if *server == "" {
			fmt.Fprintln(stderr, "--server is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		plain := *noColor || !render.IsTerminal(stdout)

		client := httpclient.NewWithTimeout(*server, requestTimeout)
		ctx := context.Background()
		items, err := client.Items(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to fetch items: %v\n", err)
			return ExitError
		}
		low, err := client.LowItems(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to fetch low items: %v\n", err)
			return ExitError
		}
		fmt.Fprintln(stdout, render.Inventory(items, low, plain))
		fmt.Fprintln(stdout, render.LowItems(low, plain))
		return ExitOK
	}
}
