package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is one dispenser subcommand.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

type runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int

var commands = []*Command{
	newCommand("run", "Serve submissions and print outcomes", runRun,
		"dispenser run --input <file> [--input <file>...] [--server <url>] [--no-color]"),
	newCommand("validate", "Validate a submission file", runValidate,
		"dispenser validate --input <file>"),
	newCommand("items", "Show a remote machine's inventory", runItems,
		"dispenser items --server <url> [--no-color]"),
}

func newCommand(name, summary string, build runner, usage ...string) *Command {
	cmd := &Command{Name: name, Summary: summary, Usage: usage}
	cmd.Run = build(cmd)
	return cmd
}

// Run dispatches args to a subcommand and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	name, rest := args[0], args[1:]
	switch name {
	case "-h", "--help":
		printUsage(stdout)
		return ExitOK
	case "help":
		if len(rest) == 0 {
			printUsage(stdout)
			return ExitOK
		}
		name, rest = rest[0], []string{"--help"}
	}

	cmd := lookupCommand(name)
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
		printUsage(stderr)
		return ExitUsage
	}
	return cmd.Run(rest, stdout, stderr)
}

func lookupCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, "Usage:\n  dispenser <command> [options]\n\nCommands:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Name, cmd.Summary)
	}
	tw.Flush()
	fmt.Fprint(w, "\nRun \"dispenser help <command>\" for command options.\n")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintln(w, "  "+line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}
