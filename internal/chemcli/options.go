// internal/chemcli/options.go
package chemcli

import (
	"errors"
	"flag"
	"fmt"

	"simpleaf/internal/version"
)

// Options holds the add-chemistry flags.
type Options struct {
	Name     string
	Geometry string
	Quiet    bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: register a custom chemistry name to geometry mapping

Geometries look like B1[1-16]U1[17-28]R2[1-end]: a barcode, UMI and read
segment, each placed on mate 1 or 2 with a 1-based inclusive range.

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses the add-chemistry flags.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool

	fs.StringVar(&o.Name, "name", "", "name to give the chemistry [*]")
	fs.StringVar(&o.Geometry, "geometry", "", "geometry the chemistry maps to [*]")
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if help {
		fs.Usage()
		return o, flag.ErrHelp
	}
	if o.Name == "" {
		return o, errors.New("--name is required")
	}
	if o.Geometry == "" {
		return o, errors.New("--geometry is required")
	}
	return o, nil
}
