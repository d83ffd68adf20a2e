package chemcli

import (
	"flag"
	"io"
	"strings"
	"testing"
)

func newFS() *flag.FlagSet {
	fs := NewFlagSet("add-chemistry")
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseArgsValid(t *testing.T) {
	o, err := ParseArgs(newFS(), []string{
		"--name", "flarb-v1",
		"--geometry", "B1[1-16]U1[17-28]R2[1-end]",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if o.Name != "flarb-v1" {
		t.Errorf("Name = %q", o.Name)
	}
	if o.Geometry != "B1[1-16]U1[17-28]R2[1-end]" {
		t.Errorf("Geometry = %q", o.Geometry)
	}
}

func TestParseArgsMissingRequired(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--geometry", "B1[1-16]U1[17-28]R2[1-end]"}); err == nil || !strings.Contains(err.Error(), "--name") {
		t.Fatalf("want --name error, got %v", err)
	}
	if _, err := ParseArgs(newFS(), []string{"--name", "x"}); err == nil || !strings.Contains(err.Error(), "--geometry") {
		t.Fatalf("want --geometry error, got %v", err)
	}
}

func TestParseArgsHelp(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); err != flag.ErrHelp {
		t.Fatalf("want flag.ErrHelp, got %v", err)
	}
}
