// internal/quantapp/quantapp.go
package quantapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"simpleaf-core/chemistry"
	"simpleaf-core/geometry"

	"simpleaf/internal/cmdutil"
	"simpleaf/internal/execute"
	"simpleaf/internal/home"
	"simpleaf/internal/permitlist"
	"simpleaf/internal/plan"
	"simpleaf/internal/progs"
	"simpleaf/internal/provenance"
	"simpleaf/internal/quantcli"
	"simpleaf/internal/resolve"
)

// LogFileName is the provenance record written next to the quant output.
const LogFileName = "simpleaf_quant_log.json"

const (
	mapDirName   = "af_map"
	quantDirName = "af_quant"
)

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := quantcli.NewFlagSet("simpleaf quant")
	fs.SetOutput(io.Discard)

	opts, err := quantcli.ParseArgs(fs, argv)
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
	rp, err := h.LoadProgs()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	customChem, err := h.LoadCustomChemistries()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	cfg, err := resolve.Quant(resolve.Inputs{
		IndexDir:    opts.Index,
		UsePiscem:   opts.UsePiscem,
		MapDir:      opts.MapDir,
		Chemistry:   opts.Chemistry,
		ExpectedOri: opts.ExpectedOri,
		Threads:     opts.Threads,
		T2GMap:      opts.T2GMap,
		Filter:      opts.FilterSpec(),
	}, customChem, func(chem chemistry.Chemistry) (string, error) {
		p, status, err := permitlist.Fetch(h, chem)
		if err != nil {
			return "", err
		}
		if status == permitlist.Downloaded {
			cmdutil.Infof(stderr, opts.Quiet, "downloaded the %s permit list to %s", chem, p)
		}
		return p, nil
	})
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	if cfg.ThreadsClamped {
		cmdutil.Warnf(stderr, opts.Quiet, "requested %d threads but only %d are available; using %d",
			opts.Threads, cfg.Threads, cfg.Threads)
	}

	verbosity := execute.Verbose
	if opts.Quiet {
		verbosity = execute.Quiet
	}

	outDir := opts.Output
	quantDir := filepath.Join(outDir, quantDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(stderr, "could not create %s: %v\n", outDir, err)
		return 3
	}

	rec := provenance.New()
	var stages []plan.Stage

	mapDir := cfg.MapDir
	if cfg.Index.Kind != resolve.IndexNone {
		mapDir = filepath.Join(outDir, mapDirName)
		ms, err := mapStage(rp, cfg, opts, mapDir, verbosity)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		stages = append(stages, ms)
		rec.SetMapInfo(cfg.Index.Kind.String(), ms.CmdLine(), mapDir)
	}

	fry, err := rp.Require("alevin_fry")
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	stages = append(stages, fryStages(fry, cfg, opts.Resolution, mapDir, quantDir, verbosity)...)

	runner := &execute.Runner{Stdout: stdout, Stderr: stderr}
	execErr := plan.Plan{Stages: stages}.Execute(ctx, runner, rec)
	if werr := rec.Write(filepath.Join(outDir, LogFileName)); werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		if execErr == nil {
			return 3
		}
	}
	if execErr != nil {
		_, _ = fmt.Fprintln(stderr, execErr)
		return 1
	}

	cmdutil.Infof(stderr, opts.Quiet, "quantification written to %s", quantDir)
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// fryStages builds the three alevin-fry invocations of a quant run. collate
// re-reads the RAD input, so the map directory is a precondition of both the
// permit-list and collate stages.
func fryStages(fry *progs.Prog, cfg resolve.Config, resolution, mapDir, quantDir string, v execute.Verbosity) []plan.Stage {
	gplArgs := []string{"generate-permit-list", "-i", mapDir, "-d", cfg.Ori, "-o", quantDir}
	gplArgs = cfg.Filter.AppendArgs(gplArgs)
	return []plan.Stage{
		{
			Name:      "gpl",
			Exe:       fry.ExePath,
			Args:      gplArgs,
			Inputs:    []string{mapDir},
			Verbosity: v,
		},
		{
			Name: "collate",
			Exe:  fry.ExePath,
			Args: []string{
				"collate", "-i", quantDir, "-r", mapDir,
				"-t", strconv.Itoa(cfg.Threads),
			},
			Inputs:    []string{quantDir, mapDir},
			Verbosity: v,
		},
		{
			Name: "quant",
			Exe:  fry.ExePath,
			Args: []string{
				"quant", "-i", quantDir, "-o", quantDir,
				"-t", strconv.Itoa(cfg.Threads),
				"-m", cfg.T2G,
				"-r", resolution,
			},
			Inputs:    []string{quantDir, cfg.T2G},
			Verbosity: v,
		},
	}
}

// mapStage builds the mapping invocation for the resolved index kind.
func mapStage(rp progs.ReqProgs, cfg resolve.Config, opts quantcli.Options, mapDir string, v execute.Verbosity) (plan.Stage, error) {
	inputs := append([]string{}, opts.Reads1...)
	inputs = append(inputs, opts.Reads2...)

	switch cfg.Index.Kind {
	case resolve.IndexPiscem:
		piscem, err := rp.Require("piscem")
		if err != nil {
			return plan.Stage{}, err
		}
		geo, err := piscemGeometry(cfg.Chem)
		if err != nil {
			return plan.Stage{}, err
		}
		// The stem alone is not a file; verify the index component files.
		inputs = append(inputs,
			cfg.Index.Path+".ctab",
			cfg.Index.Path+".refinfo",
			cfg.Index.Path+".sshash",
		)
		return plan.Stage{
			Name: "map",
			Exe:  piscem.ExePath,
			Args: []string{
				"map-sc",
				"--index", cfg.Index.Path,
				"--geometry", geo,
				"-1", strings.Join(opts.Reads1, ","),
				"-2", strings.Join(opts.Reads2, ","),
				"--threads", strconv.Itoa(cfg.Threads),
				"-o", mapDir,
			},
			Inputs:    inputs,
			Verbosity: v,
		}, nil
	case resolve.IndexSalmon:
		salmon, err := rp.Require("salmon")
		if err != nil {
			return plan.Stage{}, err
		}
		// Library type is left on auto-detect; forcing an orientation here
		// would fight the expected-ori handling downstream.
		args := []string{"alevin", "-i", cfg.Index.Path, "-l", "A"}
		switch cfg.Chem.Kind {
		case chemistry.TenxV2:
			args = append(args, "--chromium")
		case chemistry.TenxV3:
			args = append(args, "--chromiumV3")
		default:
			g, err := geometry.Parse(cfg.Chem.Raw)
			if err != nil {
				return plan.Stage{}, fmt.Errorf("chemistry %q is not usable with salmon: %w", cfg.Chem, err)
			}
			args = append(args,
				"--bc-geometry", g.SalmonBarcodeGeometry(),
				"--umi-geometry", g.SalmonUMIGeometry(),
				"--read-geometry", g.SalmonReadGeometry(),
			)
		}
		args = append(args, "-1")
		args = append(args, opts.Reads1...)
		args = append(args, "-2")
		args = append(args, opts.Reads2...)
		if opts.UseSelectiveAlignment {
			args = append(args, "--rad")
		} else {
			args = append(args, "--sketch")
		}
		args = append(args, "-p", strconv.Itoa(cfg.Threads), "-o", mapDir)
		inputs = append(inputs, cfg.Index.Path)
		return plan.Stage{
			Name:      "map",
			Exe:       salmon.ExePath,
			Args:      args,
			Inputs:    inputs,
			Verbosity: v,
		}, nil
	}
	return plan.Stage{}, errors.New("no index available to map against")
}

// piscemGeometry maps a chemistry onto piscem's --geometry vocabulary. The
// built-in chemistries have named geometries; anything else must carry a
// parseable geometry descriptor, which piscem accepts verbatim.
func piscemGeometry(chem chemistry.Chemistry) (string, error) {
	switch chem.Kind {
	case chemistry.TenxV2:
		return "chromium_v2", nil
	case chemistry.TenxV3:
		return "chromium_v3", nil
	default:
		if _, err := geometry.Parse(chem.Raw); err != nil {
			return "", fmt.Errorf("chemistry %q is not usable with piscem: %w", chem, err)
		}
		return chem.Raw, nil
	}
}
