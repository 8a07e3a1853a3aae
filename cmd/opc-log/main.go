// Command opc-log views and analyzes OPC protocol capture files.
//
// Capture files are written by opc-console with the -capture flag, or by
// any program that passes a log.StreamLogger to the session registry.
//
// Usage:
//
//	opc-log <command> [flags] <file.olog>
//
// Commands:
//
//	view     View a capture in human-readable form
//	export   Export a capture to JSONL or CSV
//	filter   Filter a capture into a new file
//	stats    Show statistics about a capture
//
// Examples:
//
//	# View only command traffic
//	opc-log view -layer command scanner.olog
//
//	# View only dropped frames
//	opc-log view -category error scanner.olog
//
//	# View only scans
//	opc-log view -kind barcode scanner.olog
//
//	# Keep one device and save to a new file
//	opc-log filter -device-id AA:BB:CC:DD:EE:FF -o one.olog scanner.olog
//
//	# Show statistics
//	opc-log stats scanner.olog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/opticonnect/opc-go/cmd/opc-log/commands"
)

const usage = `opc-log - OPC Protocol Capture Analyzer

Usage:
  opc-log <command> [flags] <file.olog>

Commands:
  view     View a capture in human-readable form
  export   Export a capture to JSONL or CSV
  filter   Filter a capture into a new file
  stats    Show statistics about a capture

Use "opc-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet returns a flag set whose usage text names the command.
func newFlagSet(name, summary, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "opc-log %s - %s\n\nUsage:\n  opc-log %s\n\nFlags:\n", name, summary, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses args and returns the capture path.
func parseArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View a capture in human-readable form", "view [flags] <file.olog>")
	opts := commands.FilterOptions{}
	fs.StringVar(&opts.DeviceID, "device-id", "", "Filter by device ID")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (link, frame, command, session)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by payload (chunk, frame, command, barcode, battery, state, error)")
	path := parseArgs(fs, args)

	filter, err := opts.Filter()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export a capture to JSONL or CSV", "export [flags] <file.olog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := parseArgs(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter a capture into a new file", "filter [flags] -o <out.olog> <file.olog>")
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.ConnID, "conn-id", "", "Filter by connection ID")
	fs.StringVar(&opts.DeviceID, "device-id", "", "Filter by device ID")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (link, frame, command, session)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by payload (chunk, frame, command, barcode, battery, state, error)")
	path := parseArgs(fs, args)

	if opts.Output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	n, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, opts.Output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about a capture", "stats <file.olog>")
	path := parseArgs(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
