// internal/workflowcli/options.go
package workflowcli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"simpleaf/internal/version"
)

// Options holds the run-workflow flags.
type Options struct {
	Jsons []string
	Quiet bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: replay recorded index and quant commands from workflow JSON files

Each workflow file maps record names to objects carrying a "cmd" string under
optional top-level "index" and "quant" keys. Commands are whitespace
tokenized, so paths inside recorded commands must not contain spaces.

Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses the run-workflow flags.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	var jsons commaList

	fs.Var(&jsons, "jsons", "comma-separated list of workflow JSON files [*]")
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress non-essential messages [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return o, err
	}
	if help {
		fs.Usage()
		return o, flag.ErrHelp
	}
	o.Jsons = jsons
	if len(o.Jsons) == 0 {
		return o, errors.New("at least one --jsons file is required")
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
