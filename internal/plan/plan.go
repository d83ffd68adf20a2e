// internal/plan/plan.go
package plan

import (
	"context"
	"fmt"
	"time"

	"simpleaf/internal/execute"
)

// Stage is one external-tool invocation in a run plan: a structured argv
// plus the input paths that must exist immediately before it is spawned.
type Stage struct {
	Name      string
	Exe       string
	Args      []string
	Inputs    []string
	Verbosity execute.Verbosity
}

// CmdLine renders the stage's command for logs and provenance.
func (s Stage) CmdLine() string { return execute.CmdLine(s.Exe, s.Args) }

// Plan is the fully resolved, ordered list of stages for one command
// invocation. It is built once and only executed, never mutated.
type Plan struct {
	Stages []Stage
}

// Recorder receives each stage's command line and duration as it completes
// (or fails). Satisfied by provenance.Recorder.
type Recorder interface {
	Record(stage, cmd string, d time.Duration)
}

// Execute runs the stages strictly in order, verifying each stage's declared
// inputs exist before spawning it and halting on the first failure. The
// failing stage's attempt is still recorded so provenance reflects the point
// of failure. Already-produced outputs of earlier stages are left in place.
func (p Plan) Execute(ctx context.Context, r *execute.Runner, rec Recorder) error {
	for _, st := range p.Stages {
		if err := execute.CheckFilesExist(st.Inputs); err != nil {
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}
		res, err := r.Run(ctx, st.Name, st.Exe, st.Args, st.Verbosity)
		rec.Record(st.Name, res.CmdLine, res.Duration)
		if err != nil {
			return err
		}
	}
	return nil
}
