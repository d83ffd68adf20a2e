// internal/progs/progs_test.go
package progs

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire(t *testing.T) {
	rp := ReqProgs{Salmon: &Prog{ExePath: "/opt/salmon", Version: "1.10.1"}}

	p, err := rp.Require("salmon")
	require.NoError(t, err)
	assert.Equal(t, "/opt/salmon", p.ExePath)

	_, err = rp.Require("piscem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set-paths")

	_, err = rp.Require("bowtie2")
	require.Error(t, err)
}

func TestCheckVersionConstraint(t *testing.T) {
	require.NoError(t, CheckVersionConstraint("pyroe", ">=0.8.1, <1.0.0", "0.8.1"))
	require.NoError(t, CheckVersionConstraint("pyroe", ">=0.8.1, <1.0.0", "0.9.4"))
	assert.Error(t, CheckVersionConstraint("pyroe", ">=0.8.1, <1.0.0", "0.8.0"))
	assert.Error(t, CheckVersionConstraint("pyroe", ">=0.8.1, <1.0.0", "1.0.0"))
	assert.Error(t, CheckVersionConstraint("pyroe", ">=0.8.1, <1.0.0", "not-a-version"))
}

func TestParseVersionOutput(t *testing.T) {
	cases := map[string]string{
		"salmon 1.10.1\n":      "1.10.1",
		"piscem 0.6.0":         "0.6.0",
		"alevin-fry 0.8.2\nxyz": "0.8.2",
		"pyroe v0.9.2\n":       "0.9.2",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, parseVersionOutput(in), "input %q", in)
	}
}

func TestProbeScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "salmon")
	script := "#!/bin/sh\necho \"salmon 1.10.1\"\n"
	require.NoError(t, os.WriteFile(exe, []byte(script), 0o755))

	p, err := Probe(context.Background(), exe)
	require.NoError(t, err)
	assert.Equal(t, "1.10.1", p.Version)
	assert.True(t, strings.HasSuffix(p.ExePath, "salmon"))
}

func TestProbeMissing(t *testing.T) {
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
