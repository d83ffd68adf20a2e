// internal/pathscli/options.go
package pathscli

import (
	"flag"
	"fmt"

	"simpleaf/internal/version"
)

// Options holds the set-paths flags. Empty fields fall back to $PATH lookup
// under the tool's conventional name.
type Options struct {
	Salmon    string
	Piscem    string
	AlevinFry string
	Pyroe     string
	Quiet     bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: probe and persist the external tool executables simpleaf uses

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses the set-paths flags.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool

	fs.StringVar(&o.Salmon, "salmon", "", "path to the salmon executable to use")
	fs.StringVar(&o.Piscem, "piscem", "", "path to the piscem executable to use")
	fs.StringVar(&o.AlevinFry, "alevin-fry", "", "path to the alevin-fry executable to use")
	fs.StringVar(&o.Pyroe, "pyroe", "", "path to the pyroe executable to use")
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if help {
		fs.Usage()
		return o, flag.ErrHelp
	}
	return o, nil
}
