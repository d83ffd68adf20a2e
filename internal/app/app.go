// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"

	"simpleaf/internal/chemapp"
	"simpleaf/internal/indexapp"
	"simpleaf/internal/inspectapp"
	"simpleaf/internal/pathsapp"
	"simpleaf/internal/quantapp"
	"simpleaf/internal/version"
	"simpleaf/internal/workflowapp"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w,
		`simpleaf: a friendly single-cell processing pipeline

Version: %s

Usage: simpleaf <command> [flags]

Commands:
  index          build the (expanded) reference and index
  quant          map and quantify a single-cell sample
  run-workflow   replay recorded index/quant commands from JSON files
  set-paths      probe and persist the external tool executables
  add-chemistry  register a custom chemistry name to geometry mapping
  inspect        print the persisted configuration

Run 'simpleaf <command> -h' for command-specific flags.
`, version.Version)
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		usage(stdout)
		return 0
	}
	sub, rest := argv[0], argv[1:]
	switch sub {
	case "index":
		return indexapp.RunContext(parent, rest, stdout, stderr)
	case "quant":
		return quantapp.RunContext(parent, rest, stdout, stderr)
	case "run-workflow":
		return workflowapp.RunContext(parent, rest, stdout, stderr)
	case "set-paths":
		return pathsapp.RunContext(parent, rest, stdout, stderr)
	case "add-chemistry":
		return chemapp.RunContext(parent, rest, stdout, stderr)
	case "inspect":
		return inspectapp.RunContext(parent, rest, stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	case "-v", "--version", "version":
		_, _ = fmt.Fprintf(stdout, "simpleaf version %s\n", version.Version)
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "unknown command %q\n", sub)
	usage(stderr)
	return 2
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
