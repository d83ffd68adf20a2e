// internal/execute/execute.go
package execute

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Verbosity controls where a child process's output goes.
type Verbosity int

const (
	// Quiet captures child output and surfaces it only on failure.
	Quiet Verbosity = iota
	// Verbose streams child output to the runner's writers as it runs.
	Verbose
)

// Result describes one completed (or failed) external invocation.
type Result struct {
	CmdLine  string
	Duration time.Duration
	ExitCode int
}

// ExitError reports a child process that ran but exited non-zero.
type ExitError struct {
	Stage   string
	CmdLine string
	Code    int
	Output  string // captured combined output, empty in Verbose mode
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed with exit status %d (cmd: %s)", e.Stage, e.Code, e.CmdLine)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

// Runner invokes external tools one at a time, blocking on completion.
// There is deliberately no timeout: the tools are long-running batch
// computations and cancellation comes from the caller's context.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CmdLine renders an argv the way it would be typed at a shell prompt.
// Used for logging and provenance only; execution always passes the
// structured argv.
func CmdLine(exe string, args []string) string {
	if len(args) == 0 {
		return exe
	}
	return exe + " " + strings.Join(args, " ")
}

// Run spawns exe with args and waits for it. The returned Result carries the
// rendered command line and wall-clock duration even when the invocation
// fails, so provenance can record attempts.
func (r *Runner) Run(ctx context.Context, stage, exe string, args []string, v Verbosity) (Result, error) {
	cmd := exec.CommandContext(ctx, exe, args...)
	res := Result{CmdLine: CmdLine(exe, args)}

	var captured strings.Builder
	if v == Verbose {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)

	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s interrupted: %w", stage, ctx.Err())
	}
	if ee, ok := err.(*exec.ExitError); ok {
		res.ExitCode = ee.ExitCode()
		return res, &ExitError{
			Stage:   stage,
			CmdLine: res.CmdLine,
			Code:    ee.ExitCode(),
			Output:  strings.TrimSpace(captured.String()),
		}
	}
	return res, fmt.Errorf("could not execute %s (%s): %w", stage, exe, err)
}

// CheckFilesExist verifies every path exists before a stage is started.
func CheckFilesExist(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("required input %s does not exist: %w", p, err)
		}
	}
	return nil
}

// ClampThreads limits requested to the host's available parallelism and
// reports whether clamping happened. Requests at or below the ceiling pass
// through unchanged; a clamped request is a warning, never an error.
func ClampThreads(requested int) (int, bool) {
	max := runtime.NumCPU()
	if requested > max {
		return max, true
	}
	return requested, false
}
