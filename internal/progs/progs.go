// internal/progs/progs.go
package progs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Prog is one located external tool.
type Prog struct {
	ExePath string `json:"exe_path"`
	Version string `json:"version"`
}

// ReqProgs is the registry of tools a run may need. A nil entry means the
// tool was not found when paths were last set. The registry is loaded once
// at the start of every command and read-only thereafter.
type ReqProgs struct {
	Salmon    *Prog `json:"salmon"`
	Piscem    *Prog `json:"piscem"`
	AlevinFry *Prog `json:"alevin_fry"`
	Pyroe     *Prog `json:"pyroe"`
}

// Require returns the named tool or a descriptive error pointing the user at
// set-paths. Stages call this before building their invocation so a missing
// tool fails the run before anything is spawned.
func (rp ReqProgs) Require(name string) (*Prog, error) {
	var p *Prog
	switch name {
	case "salmon":
		p = rp.Salmon
	case "piscem":
		p = rp.Piscem
	case "alevin_fry":
		p = rp.AlevinFry
	case "pyroe":
		p = rp.Pyroe
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	if p == nil {
		return nil, fmt.Errorf("a %s executable is required but none is configured; set one with `simpleaf set-paths`", name)
	}
	return p, nil
}

// CheckVersionConstraint verifies that the tool's recorded version satisfies
// a semver constraint like ">=0.8.1, <1.0.0".
func CheckVersionConstraint(tool, constraint, version string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("bad version constraint %q for %s: %w", constraint, tool, err)
	}
	v, err := semver.NewVersion(strings.TrimSpace(version))
	if err != nil {
		return fmt.Errorf("could not parse %s version %q: %w", tool, version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%s version %s does not satisfy the required constraint %q", tool, v, constraint)
	}
	return nil
}

// Probe locates a tool (absolute path or $PATH lookup) and asks it for its
// version by running `<exe> --version`. The version is taken as the last
// whitespace-separated token of the first output line, which matches the
// `tool x.y.z` convention of all four supported tools.
func Probe(ctx context.Context, pathOrName string) (*Prog, error) {
	exePath, err := exec.LookPath(pathOrName)
	if err != nil {
		return nil, fmt.Errorf("could not locate executable %q: %w", pathOrName, err)
	}
	out, err := probeOutput(ctx, exePath)
	if err != nil {
		return nil, err
	}
	ver := parseVersionOutput(out)
	if ver == "" {
		return nil, fmt.Errorf("could not parse version output of %s (%q)", exePath, out)
	}
	return &Prog{ExePath: exePath, Version: ver}, nil
}

func probeOutput(ctx context.Context, exePath string) (string, error) {
	cmd := exec.CommandContext(ctx, exePath, "--version")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s --version failed: %w", exePath, err)
	}
	return string(out), nil
}

func parseVersionOutput(out string) string {
	line := out
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	v := fields[len(fields)-1]
	return strings.TrimPrefix(v, "v")
}
