// internal/quantcli/options_test.go
package quantcli

import (
	"flag"
	"testing"

	"simpleaf-core/filter"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	o, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return o
}

func mustFail(t *testing.T, args ...string) {
	t.Helper()
	if _, err := ParseArgs(newFS(), args); err == nil {
		t.Fatalf("expected parse error for %v", args)
	}
}

func TestMappedRunOK(t *testing.T) {
	o := mustParse(t,
		"--chemistry", "10xv3",
		"--output", "out",
		"--index", "idx",
		"--reads1", "a_1.fq.gz,b_1.fq.gz",
		"--reads2", "a_2.fq.gz,b_2.fq.gz",
		"--knee",
		"--resolution", "cr-like",
	)
	if o.Index != "idx" || len(o.Reads1) != 2 || len(o.Reads2) != 2 {
		t.Errorf("bad mapping options %+v", o)
	}
	if !o.Knee || o.Threads != 16 || o.MinReads != 10 {
		t.Errorf("bad defaults %+v", o)
	}
}

func TestMapDirRunOK(t *testing.T) {
	o := mustParse(t,
		"--chemistry", "10xv2",
		"--output", "out",
		"--map-dir", "af_map",
		"--forced-cells", "500",
		"--resolution", "cr-like",
	)
	if o.MapDir != "af_map" || o.ForcedCells != 500 {
		t.Errorf("bad map-dir options %+v", o)
	}
}

func TestUnfilteredThreeState(t *testing.T) {
	o := mustParse(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m",
		"--resolution", "cr-like", "--unfiltered-pl",
	)
	if o.Unfiltered != filter.UnfilteredAuto || o.UnfilteredFile != "" {
		t.Errorf("bare flag should auto-fetch: %+v", o)
	}

	o = mustParse(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m",
		"--resolution", "cr-like", "--unfiltered-pl=mylist.txt",
	)
	if o.Unfiltered != filter.UnfilteredPath || o.UnfilteredFile != "mylist.txt" {
		t.Errorf("valued flag should carry the path: %+v", o)
	}

	o = mustParse(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m",
		"--resolution", "cr-like", "--knee",
	)
	if o.Unfiltered != filter.UnfilteredAbsent {
		t.Errorf("absent flag should stay absent: %+v", o)
	}
}

func TestFilterGroupRequiredAndExclusive(t *testing.T) {
	// none set
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m",
		"--resolution", "cr-like",
	)
	// two set
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m",
		"--resolution", "cr-like", "--knee", "--forced-cells", "100",
	)
}

func TestInputGroup(t *testing.T) {
	// neither index nor map-dir
	mustFail(t, "--chemistry", "10xv3", "--output", "out", "--knee", "--resolution", "cr-like")
	// both
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--knee", "--resolution", "cr-like",
		"--index", "idx", "--reads1", "r1", "--reads2", "r2", "--map-dir", "m",
	)
	// index without reads
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--knee", "--resolution", "cr-like",
		"--index", "idx",
	)
	// unequal read lists
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--knee", "--resolution", "cr-like",
		"--index", "idx", "--reads1", "a,b", "--reads2", "c",
	)
	// reads with map-dir
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--knee", "--resolution", "cr-like",
		"--map-dir", "m", "--reads1", "a",
	)
}

func TestResolutionValidation(t *testing.T) {
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m", "--knee",
		"--resolution", "banana",
	)
	mustFail(t,
		"--chemistry", "10xv3", "--output", "out", "--map-dir", "m", "--knee",
	)
}
