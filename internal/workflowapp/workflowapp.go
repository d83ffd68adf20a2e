// internal/workflowapp/workflowapp.go
package workflowapp

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"simpleaf/internal/cmdutil"
	"simpleaf/internal/indexapp"
	"simpleaf/internal/quantapp"
	"simpleaf/internal/workflowcli"
)

// Record is one replayable command from a workflow file.
type Record struct {
	Name string
	Cmd  string
}

// Workflow holds the records of one file, in file order within each section.
type Workflow struct {
	Index []Record
	Quant []Record
}

// LoadFile parses one workflow JSON file. Go maps do not preserve key order,
// so the file is walked token by token to keep the records in the order they
// were written.
func LoadFile(path string) (Workflow, error) {
	var wf Workflow
	f, err := os.Open(path)
	if err != nil {
		return wf, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := expectDelim(dec, '{'); err != nil {
		return wf, fmt.Errorf("could not parse %s: %w", path, err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return wf, fmt.Errorf("could not parse %s: %w", path, err)
		}
		section, _ := tok.(string)
		// Sections other than index/quant are auxiliary metadata; skip them.
		if section != "index" && section != "quant" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return wf, fmt.Errorf("could not parse %s: %w", path, err)
			}
			continue
		}
		recs, err := parseSection(dec)
		if err != nil {
			return wf, fmt.Errorf("could not parse %s: %w", path, err)
		}
		if section == "index" {
			wf.Index = append(wf.Index, recs...)
		} else {
			wf.Quant = append(wf.Quant, recs...)
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return wf, fmt.Errorf("could not parse %s: %w", path, err)
	}
	return wf, nil
}

func parseSection(dec *json.Decoder) ([]Record, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var recs []Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var body struct {
			Cmd string `json:"cmd"`
		}
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		if body.Cmd == "" {
			return nil, fmt.Errorf("record %q has no cmd", name)
		}
		recs = append(recs, Record{Name: name, Cmd: body.Cmd})
	}
	return recs, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, found %v", want, tok)
	}
	return nil
}

// splitCmd tokenizes a recorded command and strips the leading program name.
// Tokenization is plain whitespace splitting; recorded paths must not
// contain spaces.
func splitCmd(cmd, section string) ([]string, error) {
	fields := strings.Fields(cmd)
	if len(fields) > 0 && fields[0] == "simpleaf" {
		fields = fields[1:]
	}
	if len(fields) == 0 || fields[0] != section {
		return nil, fmt.Errorf("expected a %q command, found %q", section, cmd)
	}
	return fields[1:], nil
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := workflowcli.NewFlagSet("simpleaf run-workflow")
	fs.SetOutput(io.Discard)

	opts, err := workflowcli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return 2
	}

	// Parse every file before running anything so a malformed later file
	// cannot abort a half-executed queue.
	var index, quant []Record
	for _, path := range opts.Jsons {
		wf, err := LoadFile(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
		index = append(index, wf.Index...)
		quant = append(quant, wf.Quant...)
	}

	run := func(section string, recs []Record, sub func(context.Context, []string, io.Writer, io.Writer) int) int {
		for _, rec := range recs {
			subArgv, err := splitCmd(rec.Cmd, section)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "workflow record %q: %v\n", rec.Name, err)
				return 1
			}
			cmdutil.Infof(stderr, opts.Quiet, "running %s record %q", section, rec.Name)
			if code := sub(ctx, subArgv, stdout, stderr); code != 0 {
				_, _ = fmt.Fprintf(stderr, "workflow record %q failed; aborting the remaining records\n", rec.Name)
				return code
			}
		}
		return 0
	}

	// All index records run before any quant record, across all files.
	if code := run("index", index, indexapp.RunContext); code != 0 {
		return code
	}
	if code := run("quant", quant, quantapp.RunContext); code != 0 {
		return code
	}
	cmdutil.Infof(stderr, opts.Quiet, "workflow complete: %d index and %d quant records", len(index), len(quant))
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
