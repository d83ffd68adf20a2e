// internal/indexapp/indexapp.go
package indexapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"simpleaf-core/refs"

	"simpleaf/internal/cmdutil"
	"simpleaf/internal/execute"
	"simpleaf/internal/home"
	"simpleaf/internal/indexcli"
	"simpleaf/internal/jsonutil"
	"simpleaf/internal/plan"
	"simpleaf/internal/progs"
	"simpleaf/internal/provenance"
	"simpleaf/internal/resolve"
	"simpleaf/internal/version"
)

// pyroe grew make-spliceu in 0.8.1; earlier releases silently build splici.
const spliceuPyroeConstraint = ">=0.8.1, <1.0.0"

// LogFileName is the provenance record written next to the index output.
const LogFileName = "simpleaf_index_log.json"

// InfoFileName records the build arguments and tool versions up front, before
// any external tool runs.
const InfoFileName = "index_info.json"

type salmonParams struct {
	K              int    `json:"k"`
	KeepDuplicates bool   `json:"keep_duplicates"`
	Sparse         bool   `json:"sparse"`
	Overwrite      bool   `json:"overwrite"`
	Threads        int    `json:"threads"`
	Ref            string `json:"ref"`
}

type piscemParams struct {
	K         int    `json:"k"`
	M         int    `json:"m"`
	Overwrite bool   `json:"overwrite"`
	Threads   int    `json:"threads"`
	Ref       string `json:"ref"`
}

// indexRecord is the simpleaf_index.json written into the index directory;
// its cmd/index_type/t2g_file fields are the ones quant reads back through
// resolve.LoadIndexMetadata.
type indexRecord struct {
	Cmd          string        `json:"cmd"`
	IndexType    string        `json:"index_type"`
	T2GFile      *string       `json:"t2g_file"`
	SalmonParams *salmonParams `json:"salmon_index_parameters,omitempty"`
	PiscemParams *piscemParams `json:"piscem_index_parameters,omitempty"`
}

type indexInfo struct {
	Command      string            `json:"command"`
	Version      string            `json:"simpleaf_version"`
	IndexType    string            `json:"index_type"`
	RefType      string            `json:"ref_type,omitempty"`
	RefSeq       string            `json:"ref_seq,omitempty"`
	Fasta        string            `json:"fasta,omitempty"`
	Gtf          string            `json:"gtf,omitempty"`
	Rlen         int               `json:"rlen,omitempty"`
	Threads      int               `json:"threads"`
	ToolVersions map[string]string `json:"tool_versions"`
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := indexcli.NewFlagSet("simpleaf index")
	fs.SetOutput(io.Discard)

	opts, err := indexcli.ParseArgs(fs, argv)
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

	threads, clamped := execute.ClampThreads(opts.Threads)
	if clamped {
		cmdutil.Warnf(stderr, opts.Quiet, "requested %d threads but only %d are available; using %d",
			opts.Threads, threads, threads)
	}

	verbosity := execute.Verbose
	if opts.Quiet {
		verbosity = execute.Quiet
	}

	outDir := opts.Output
	indexDir := filepath.Join(outDir, "index")
	if !opts.Overwrite {
		if ents, err := os.ReadDir(indexDir); err == nil && len(ents) > 0 {
			_, _ = fmt.Fprintf(stderr, "the index directory %s already has content; pass --overwrite to rebuild\n", indexDir)
			return 1
		}
	}
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(stderr, "could not create %s: %v\n", indexDir, err)
		return 3
	}

	var stages []plan.Stage
	var refFile, t2gFile string
	toolVersions := map[string]string{}

	if opts.RefSeq != "" {
		refFile = opts.RefSeq
	} else {
		pyroe, err := rp.Require("pyroe")
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		toolVersions["pyroe"] = pyroe.Version
		if opts.RefType == refs.SplicedUnspliced {
			if err := progs.CheckVersionConstraint("pyroe", spliceuPyroeConstraint, pyroe.Version); err != nil {
				_, _ = fmt.Fprintln(stderr, err)
				return 1
			}
		}
		if opts.RefType.NeedsReadLength() && opts.Rlen <= 0 {
			_, _ = fmt.Fprintln(stderr, "--rlen is required when building a spliced+intronic reference")
			return 2
		}

		refDir := filepath.Join(outDir, "ref")
		if err := os.MkdirAll(refDir, 0o755); err != nil {
			_, _ = fmt.Fprintf(stderr, "could not create %s: %v\n", refDir, err)
			return 3
		}

		args := []string{opts.RefType.MakeCommand(), opts.Fasta, opts.Gtf}
		inputs := []string{opts.Fasta, opts.Gtf}
		if opts.RefType.NeedsReadLength() {
			args = append(args, strconv.Itoa(opts.Rlen))
		}
		args = append(args, refDir)
		if opts.Dedup {
			args = append(args, "--dedup-seqs")
		}
		if opts.Spliced != "" {
			args = append(args, "--extra-spliced", opts.Spliced)
			inputs = append(inputs, opts.Spliced)
		}
		if opts.Unspliced != "" {
			args = append(args, "--extra-unspliced", opts.Unspliced)
			inputs = append(inputs, opts.Unspliced)
		}
		stages = append(stages, plan.Stage{
			Name:      "pyroe",
			Exe:       pyroe.ExePath,
			Args:      args,
			Inputs:    inputs,
			Verbosity: verbosity,
		})
		refFile = filepath.Join(refDir, opts.RefType.RefFileName(opts.Rlen))
		t2gFile = filepath.Join(refDir, opts.RefType.T2GFileName(opts.Rlen))
	}

	var indexType string
	var sp *salmonParams
	var pp *piscemParams
	var idxStage plan.Stage
	if opts.UsePiscem {
		piscem, err := rp.Require("piscem")
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		toolVersions["piscem"] = piscem.Version
		indexType = "piscem"
		pp = &piscemParams{
			K:         opts.KmerLength,
			M:         opts.MinimizerLength,
			Overwrite: opts.Overwrite,
			Threads:   threads,
			Ref:       refFile,
		}
		stem := filepath.Join(indexDir, "piscem_idx")
		args := []string{
			"build",
			"-k", strconv.Itoa(opts.KmerLength),
			"-m", strconv.Itoa(opts.MinimizerLength),
			"-o", stem,
			"-s", refFile,
			"--threads", strconv.Itoa(threads),
		}
		// piscem refuses to clobber an existing index stem on its own.
		if opts.Overwrite {
			args = append(args, "--overwrite")
		}
		idxStage = plan.Stage{
			Name:      "index",
			Exe:       piscem.ExePath,
			Args:      args,
			Inputs:    []string{refFile},
			Verbosity: verbosity,
		}
	} else {
		salmon, err := rp.Require("salmon")
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		toolVersions["salmon"] = salmon.Version
		indexType = "salmon"
		sp = &salmonParams{
			K:              opts.KmerLength,
			KeepDuplicates: opts.KeepDuplicates,
			Sparse:         opts.Sparse,
			Overwrite:      opts.Overwrite,
			Threads:        threads,
			Ref:            refFile,
		}
		args := []string{
			"index",
			"-k", strconv.Itoa(opts.KmerLength),
			"-i", indexDir,
			"-t", refFile,
			"-p", strconv.Itoa(threads),
		}
		if opts.KeepDuplicates {
			args = append(args, "--keepDuplicates")
		}
		if opts.Sparse {
			args = append(args, "--sparse")
		}
		idxStage = plan.Stage{
			Name:      "index",
			Exe:       salmon.ExePath,
			Args:      args,
			Inputs:    []string{refFile},
			Verbosity: verbosity,
		}
	}
	stages = append(stages, idxStage)

	info := indexInfo{
		Command:      "index",
		Version:      version.Version,
		IndexType:    indexType,
		RefSeq:       opts.RefSeq,
		Fasta:        opts.Fasta,
		Gtf:          opts.Gtf,
		Rlen:         opts.Rlen,
		Threads:      threads,
		ToolVersions: toolVersions,
	}
	if opts.RefSeq == "" {
		info.RefType = opts.RefType.String()
	}
	if err := jsonutil.WriteFile(filepath.Join(outDir, InfoFileName), info); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	rec := provenance.New()
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

	record := indexRecord{
		Cmd:          idxStage.CmdLine(),
		IndexType:    indexType,
		SalmonParams: sp,
		PiscemParams: pp,
	}
	if t2gFile != "" {
		dest := filepath.Join(indexDir, "t2g_3col.tsv")
		if err := copyFile(t2gFile, dest); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		name := filepath.Base(dest)
		record.T2GFile = &name
	}
	if err := jsonutil.WriteFile(filepath.Join(indexDir, resolve.MetadataFileName), record); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}

	cmdutil.Infof(stderr, opts.Quiet, "index written to %s", indexDir)
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("could not write %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("could not write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", dst, err)
	}
	return nil
}
