// internal/quantcli/options.go
package quantcli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"simpleaf-core/filter"

	"simpleaf/internal/version"
)

// Resolution modes accepted by alevin-fry quant.
var resolutionModes = map[string]bool{
	"cr-like":           true,
	"cr-like-em":        true,
	"parsimony":         true,
	"parsimony-em":      true,
	"parsimony-gene":    true,
	"parsimony-gene-em": true,
}

// Options holds all quant flags and arguments.
type Options struct {
	// What to quantify
	Chemistry string
	Output    string
	Threads   int

	// Mapping
	Index                 string
	Reads1                []string
	Reads2                []string
	UseSelectiveAlignment bool
	UsePiscem             bool
	MapDir                string

	// Permit-list generation
	Knee           bool
	Unfiltered     filter.UnfilteredMode
	UnfilteredFile string
	ForcedCells    int
	ExpectCells    int
	ExplicitPL     string
	ExpectedOri    string
	MinReads       int

	// UMI resolution
	T2GMap     string
	Resolution string

	Quiet bool
}

// FilterSpec converts the parsed filter flags into the core representation.
func (o Options) FilterSpec() filter.Spec {
	return filter.Spec{
		Unfiltered:     o.Unfiltered,
		UnfilteredFile: o.UnfilteredFile,
		ExplicitPL:     o.ExplicitPL,
		ForcedCells:    o.ForcedCells,
		ExpectCells:    o.ExpectCells,
		Knee:           o.Knee,
		MinReads:       o.MinReads,
	}
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: map and quantify a single-cell sample

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all quant flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool

	fs.StringVar(&o.Chemistry, "chemistry", "", "chemistry of the sample (10xv2, 10xv3, a registered custom name, or a geometry string) [*]")
	fs.StringVar(&o.Output, "output", "", "path to output directory [*]")
	fs.IntVar(&o.Threads, "threads", 16, "number of threads to use when running [16]")

	fs.StringVar(&o.Index, "index", "", "path to a salmon or piscem index directory")
	var reads1, reads2 commaList
	fs.Var(&reads1, "reads1", "comma-separated list of read 1 files")
	fs.Var(&reads2, "reads2", "comma-separated list of read 2 files")
	fs.BoolVar(&o.UseSelectiveAlignment, "use-selective-alignment", false, "use selective-alignment instead of sketch mode (salmon only) [false]")
	fs.BoolVar(&o.UsePiscem, "use-piscem", false, "use piscem for mapping (index must point at a piscem index) [false]")
	fs.StringVar(&o.MapDir, "map-dir", "", "path to a mapped output directory containing a RAD file; skips mapping")

	fs.BoolVar(&o.Knee, "knee", false, "use knee filtering mode [false]")
	var upl unfilteredFlag
	fs.Var(&upl, "unfiltered-pl", "use an unfiltered permit list; pass a path with --unfiltered-pl=FILE or omit the value to fetch the canonical list for the chemistry")
	fs.IntVar(&o.ForcedCells, "forced-cells", 0, "use a forced number of cells")
	fs.IntVar(&o.ExpectCells, "expect-cells", 0, "use an expected number of cells")
	fs.StringVar(&o.ExplicitPL, "explicit-pl", "", "use a filtered, explicit permit list")
	fs.StringVar(&o.ExpectedOri, "expected-ori", "", "expected orientation of alignments: fw | rc | both (defaults by chemistry)")
	fs.IntVar(&o.MinReads, "min-reads", 10, "minimum read count for a cell to be retained; only used with --unfiltered-pl [10]")

	fs.StringVar(&o.T2GMap, "t2g-map", "", "transcript-to-gene map file (inferred from the index when omitted)")
	fs.StringVar(&o.Resolution, "resolution", "", "UMI resolution mode: cr-like | cr-like-em | parsimony | parsimony-em | parsimony-gene | parsimony-gene-em [*]")

	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if help {
		fs.Usage()
		return o, flag.ErrHelp
	}
	o.Reads1 = reads1
	o.Reads2 = reads2
	o.Unfiltered = upl.mode
	o.UnfilteredFile = upl.path

	// Validation
	if o.Chemistry == "" {
		return o, errors.New("--chemistry is required")
	}
	if o.Output == "" {
		return o, errors.New("--output is required")
	}
	if o.Resolution == "" {
		return o, errors.New("--resolution is required")
	}
	if !resolutionModes[o.Resolution] {
		return o, fmt.Errorf("invalid --resolution %q", o.Resolution)
	}
	switch {
	case o.Index == "" && o.MapDir == "":
		return o, errors.New("provide --index (with reads) or --map-dir")
	case o.Index != "" && o.MapDir != "":
		return o, errors.New("--index conflicts with --map-dir")
	}
	if o.MapDir != "" && (len(o.Reads1) > 0 || len(o.Reads2) > 0) {
		return o, errors.New("--reads1/--reads2 conflict with --map-dir")
	}
	if o.Index != "" {
		if len(o.Reads1) == 0 || len(o.Reads2) == 0 {
			return o, errors.New("--reads1 and --reads2 are required when mapping against --index")
		}
		if len(o.Reads1) != len(o.Reads2) {
			return o, fmt.Errorf("%d read1 files and %d read2 files were given; cannot proceed", len(o.Reads1), len(o.Reads2))
		}
	}
	nFilters := 0
	if o.Knee {
		nFilters++
	}
	if o.Unfiltered != filter.UnfilteredAbsent {
		nFilters++
	}
	if o.ForcedCells > 0 {
		nFilters++
	}
	if o.ExpectCells > 0 {
		nFilters++
	}
	if o.ExplicitPL != "" {
		nFilters++
	}
	if nFilters == 0 {
		return o, errors.New("one of --knee, --unfiltered-pl, --forced-cells, --expect-cells or --explicit-pl is required")
	}
	if nFilters > 1 {
		return o, errors.New("--knee, --unfiltered-pl, --forced-cells, --expect-cells and --explicit-pl are mutually exclusive")
	}
	if o.ForcedCells < 0 || o.ExpectCells < 0 {
		return o, errors.New("cell counts must be positive")
	}
	if o.MinReads < 1 {
		return o, errors.New("--min-reads must be >= 1")
	}
	if o.Threads < 1 {
		return o, errors.New("--threads must be >= 1")
	}
	if o.ExpectedOri != "" && o.ExpectedOri != "fw" && o.ExpectedOri != "rc" && o.ExpectedOri != "both" {
		return o, fmt.Errorf("invalid --expected-ori %q", o.ExpectedOri)
	}
	return o, nil
}

// commaList parses comma-separated (or repeated) file-list flags.
type commaList []string

func (s *commaList) String() string { return strings.Join(*s, ",") }
func (s *commaList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// unfilteredFlag models the three-state --unfiltered-pl option: absent,
// present without a value (auto-fetch by chemistry), or present with a path.
// As a boolean-style flag it consumes no following argument; an explicit
// path must be attached with '='.
type unfilteredFlag struct {
	mode filter.UnfilteredMode
	path string
}

func (u *unfilteredFlag) String() string { return u.path }
func (u *unfilteredFlag) IsBoolFlag() bool { return true }
func (u *unfilteredFlag) Set(v string) error {
	if v == "true" {
		u.mode = filter.UnfilteredAuto
		u.path = ""
		return nil
	}
	u.mode = filter.UnfilteredPath
	u.path = v
	return nil
}
