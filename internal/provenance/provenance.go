// internal/provenance/provenance.go
package provenance

import (
	"time"

	"github.com/google/uuid"

	"simpleaf/internal/jsonutil"
	"simpleaf/internal/version"
)

// MapInfo summarizes which mapper produced the mapped output consumed by the
// quantification stages.
type MapInfo struct {
	Mapper    string `json:"mapper"`
	MapCmd    string `json:"map_cmd"`
	MapOutdir string `json:"map_outdir"`
}

// Recorder accumulates per-stage command strings and wall-clock durations as
// the pipeline proceeds. It is append-only with a single writer; the record
// is flushed once at the end of the run, or at the point of failure.
type Recorder struct {
	runID   string
	order   []string
	times   map[string]time.Duration
	cmds    map[string]string
	mapInfo *MapInfo
}

func New() *Recorder {
	return &Recorder{
		runID: uuid.NewString(),
		times: map[string]time.Duration{},
		cmds:  map[string]string{},
	}
}

// RunID is the unique identifier stamped into the persisted record.
func (r *Recorder) RunID() string { return r.runID }

// Record stores the command line and duration for one stage. Recording the
// same stage twice keeps the latest values.
func (r *Recorder) Record(stage, cmd string, d time.Duration) {
	if _, seen := r.times[stage]; !seen {
		r.order = append(r.order, stage)
	}
	r.times[stage] = d
	r.cmds[stage] = cmd
}

// SetMapInfo attaches the mapper summary for quant runs.
func (r *Recorder) SetMapInfo(mapper, mapCmd, mapOutdir string) {
	r.mapInfo = &MapInfo{Mapper: mapper, MapCmd: mapCmd, MapOutdir: mapOutdir}
}

// Stages returns the recorded stage names in completion order.
func (r *Recorder) Stages() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

type record struct {
	RunID    string             `json:"run_id"`
	Version  string             `json:"simpleaf_version"`
	TimeInfo map[string]float64 `json:"time_info"`
	CmdInfo  map[string]string  `json:"cmd_info"`
	MapInfo  *MapInfo           `json:"map_info,omitempty"`
}

// Write serializes the record to path as JSON. Durations are stored as
// fractional seconds under "<stage>_time" keys, command lines under
// "<stage>_cmd".
func (r *Recorder) Write(path string) error {
	rec := record{
		RunID:    r.runID,
		Version:  version.Version,
		TimeInfo: map[string]float64{},
		CmdInfo:  map[string]string{},
		MapInfo:  r.mapInfo,
	}
	for _, stage := range r.order {
		rec.TimeInfo[stage+"_time"] = r.times[stage].Seconds()
		rec.CmdInfo[stage+"_cmd"] = r.cmds[stage]
	}
	return jsonutil.WriteFile(path, rec)
}
