// internal/chemapp/chemapp.go
package chemapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"simpleaf-core/geometry"

	"simpleaf/internal/chemcli"
	"simpleaf/internal/cmdutil"
	"simpleaf/internal/home"
)

func RunContext(_ context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := chemcli.NewFlagSet("simpleaf add-chemistry")
	fs.SetOutput(io.Discard)

	opts, err := chemcli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return 2
	}

	// Reject malformed geometries before anything is persisted.
	if _, err := geometry.Parse(opts.Geometry); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := home.Resolve()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	replaced, err := h.AddCustomChemistry(opts.Name, opts.Geometry)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if replaced {
		cmdutil.Infof(stderr, opts.Quiet, "replaced the existing geometry for chemistry %q with %s", opts.Name, opts.Geometry)
	} else {
		cmdutil.Infof(stderr, opts.Quiet, "registered chemistry %q with geometry %s", opts.Name, opts.Geometry)
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
