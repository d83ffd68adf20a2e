// internal/indexcli/options.go
package indexcli

import (
	"errors"
	"flag"
	"fmt"

	"simpleaf-core/refs"

	"simpleaf/internal/version"
)

// Options holds all index flags and arguments.
type Options struct {
	// Expanded reference
	RefType   refs.Type
	Fasta     string
	Gtf       string
	Rlen      int
	Dedup     bool
	Spliced   string
	Unspliced string

	// Direct reference
	RefSeq string

	// Index construction
	UsePiscem       bool
	MinimizerLength int
	KmerLength      int
	KeepDuplicates  bool
	Sparse          bool

	Output    string
	Overwrite bool
	Threads   int
	Quiet     bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: build the (expanded) reference and index

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all index flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	var refType string

	fs.StringVar(&refType, "ref-type", "spliced+intronic", "expanded reference type: spliced+intronic (splici) | spliced+unspliced (spliceu)")
	fs.StringVar(&o.Fasta, "fasta", "", "reference genome FASTA for expanded reference construction")
	fs.StringVar(&o.Gtf, "gtf", "", "reference GTF annotation for expanded reference construction")
	fs.IntVar(&o.Rlen, "rlen", 0, "target read length the splici reference is built for")
	fs.BoolVar(&o.Dedup, "dedup", false, "deduplicate identical sequences when building the expanded reference [false]")
	fs.StringVar(&o.Spliced, "spliced", "", "FASTA with extra spliced sequence to add to the reference")
	fs.StringVar(&o.Unspliced, "unspliced", "", "FASTA with extra unspliced sequence to add to the reference")

	fs.StringVar(&o.RefSeq, "ref-seq", "", "target sequences to index directly, skipping reference construction")

	fs.BoolVar(&o.UsePiscem, "use-piscem", false, "use piscem instead of salmon for indexing [false]")
	fs.IntVar(&o.MinimizerLength, "minimizer-length", 19, "minimizer length m for the piscem index (must be < k) [19]")
	fs.IntVar(&o.KmerLength, "kmer-length", 31, "k-mer length k for the index [31]")
	fs.BoolVar(&o.KeepDuplicates, "keep-duplicates", false, "keep duplicated identical sequences when indexing [false]")
	fs.BoolVar(&o.Sparse, "sparse", false, "build the sparse rather than dense salmon index [false]")

	fs.StringVar(&o.Output, "output", "", "path to output directory (created if needed) [*]")
	fs.BoolVar(&o.Overwrite, "overwrite", false, "overwrite existing files in a populated output directory [false]")
	fs.IntVar(&o.Threads, "threads", 16, "number of threads to use when running [16]")
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if help {
		fs.Usage()
		return o, flag.ErrHelp
	}

	var err error
	o.RefType, err = refs.Parse(refType)
	if err != nil {
		return o, err
	}

	// Validation
	if o.Output == "" {
		return o, errors.New("--output is required")
	}
	switch {
	case o.Fasta == "" && o.RefSeq == "":
		return o, errors.New("provide --fasta (with --gtf) or --ref-seq")
	case o.Fasta != "" && o.RefSeq != "":
		return o, errors.New("--fasta conflicts with --ref-seq")
	}
	if o.RefSeq != "" {
		if o.Gtf != "" || o.Rlen != 0 || o.Dedup || o.Spliced != "" || o.Unspliced != "" {
			return o, errors.New("expanded-reference options conflict with --ref-seq")
		}
	}
	if o.Fasta != "" && o.Gtf == "" {
		return o, errors.New("--gtf is required with --fasta")
	}
	if o.Sparse && o.UsePiscem {
		return o, errors.New("--sparse conflicts with --use-piscem")
	}
	if o.UsePiscem && o.MinimizerLength >= o.KmerLength {
		return o, fmt.Errorf("minimizer length (%d) must be < k-mer length (%d)", o.MinimizerLength, o.KmerLength)
	}
	if o.KmerLength < 1 {
		return o, errors.New("--kmer-length must be >= 1")
	}
	if o.Threads < 1 {
		return o, errors.New("--threads must be >= 1")
	}
	if o.Rlen < 0 {
		return o, errors.New("--rlen must be >= 0")
	}
	return o, nil
}
