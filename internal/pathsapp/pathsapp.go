// internal/pathsapp/pathsapp.go
package pathsapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"simpleaf/internal/cmdutil"
	"simpleaf/internal/home"
	"simpleaf/internal/jsonutil"
	"simpleaf/internal/pathscli"
	"simpleaf/internal/progs"
)

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := pathscli.NewFlagSet("simpleaf set-paths")
	fs.SetOutput(io.Discard)

	opts, err := pathscli.ParseArgs(fs, argv)
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

	h, err := home.Resolve()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	var rp progs.ReqProgs
	probeOne := func(explicit, fallback, label string, dst **progs.Prog) error {
		pathOrName := explicit
		if pathOrName == "" {
			pathOrName = fallback
		}
		p, err := progs.Probe(ctx, pathOrName)
		if err != nil {
			// An explicitly requested tool must resolve; a $PATH fallback
			// miss just leaves the tool unconfigured.
			if explicit != "" {
				return err
			}
			cmdutil.Infof(stderr, opts.Quiet, "no %s found on $PATH", label)
			return nil
		}
		*dst = p
		return nil
	}

	for _, t := range []struct {
		explicit, fallback, label string
		dst                       **progs.Prog
	}{
		{opts.Salmon, "salmon", "salmon", &rp.Salmon},
		{opts.Piscem, "piscem", "piscem", &rp.Piscem},
		{opts.AlevinFry, "alevin-fry", "alevin-fry", &rp.AlevinFry},
		{opts.Pyroe, "pyroe", "pyroe", &rp.Pyroe},
	} {
		if err := probeOne(t.explicit, t.fallback, t.label, t.dst); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if rp.Salmon == nil && rp.Piscem == nil {
		_, _ = fmt.Fprintln(stderr, "at least one mapper (salmon or piscem) is required")
		return 1
	}
	if rp.AlevinFry == nil {
		_, _ = fmt.Fprintln(stderr, "an alevin-fry executable is required")
		return 1
	}
	if rp.Pyroe == nil {
		cmdutil.Warnf(stderr, opts.Quiet, "no pyroe found; reference construction will be unavailable")
	}

	if err := h.SaveProgs(rp); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	cmdutil.Infof(stderr, opts.Quiet, "tool paths written to %s", h.InfoPath())
	if err := jsonutil.EncodePretty(stdout, rp); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
