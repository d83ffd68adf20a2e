// internal/home/home.go
package home

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"simpleaf/internal/jsonutil"
	"simpleaf/internal/progs"
)

// EnvVar names the environment variable holding the simpleaf home directory.
const EnvVar = "ALEVIN_FRY_HOME"

const (
	infoFileName       = "simpleaf_info.json"
	customChemFileName = "custom_chemistries.json"
	permitDirName      = "plist"
)

type envConfig struct {
	Dir string `env:"ALEVIN_FRY_HOME"`
}

// Home is the well-known writable directory shared by all commands of a
// process run. It is resolved once at startup and threaded explicitly
// through every command entry point.
type Home struct {
	Dir string
}

// Resolve reads $ALEVIN_FRY_HOME. The variable must be set; nothing else in
// the environment is consulted.
func Resolve() (Home, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return Home{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Dir == "" {
		return Home{}, fmt.Errorf("$%s is unset, please set this environment variable to continue", EnvVar)
	}
	return Home{Dir: cfg.Dir}, nil
}

func (h Home) InfoPath() string       { return filepath.Join(h.Dir, infoFileName) }
func (h Home) CustomChemPath() string { return filepath.Join(h.Dir, customChemFileName) }
func (h Home) PermitDir() string      { return filepath.Join(h.Dir, permitDirName) }

// EnsureExists creates the home directory if needed.
func (h Home) EnsureExists() error {
	return os.MkdirAll(h.Dir, 0o755)
}

// info is the envelope persisted in simpleaf_info.json.
type info struct {
	ProgInfo progs.ReqProgs `json:"prog_info"`
}

// LoadProgs reads the tool registry persisted by set-paths.
func (h Home) LoadProgs() (progs.ReqProgs, error) {
	var v info
	if err := jsonutil.ReadFile(h.InfoPath(), &v); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return progs.ReqProgs{}, fmt.Errorf("%s does not exist; run `simpleaf set-paths` first: %w", h.InfoPath(), err)
		}
		return progs.ReqProgs{}, err
	}
	return v.ProgInfo, nil
}

// SaveProgs persists the tool registry, creating the home directory first.
func (h Home) SaveProgs(rp progs.ReqProgs) error {
	if err := h.EnsureExists(); err != nil {
		return fmt.Errorf("could not create %s: %w", h.Dir, err)
	}
	return jsonutil.WriteFile(h.InfoPath(), info{ProgInfo: rp})
}

// LoadInfoRaw returns the persisted configuration as generic JSON for
// inspection. Absence is an error here: inspect is only meaningful after
// set-paths has run.
func (h Home) LoadInfoRaw() (map[string]json.RawMessage, error) {
	var v map[string]json.RawMessage
	if err := jsonutil.ReadFile(h.InfoPath(), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadCustomChemistries reads the custom name to geometry mapping. A missing
// file is benign and yields an empty mapping.
func (h Home) LoadCustomChemistries() (map[string]string, error) {
	var m map[string]string
	if err := jsonutil.ReadFile(h.CustomChemPath(), &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

// AddCustomChemistry inserts or overwrites one custom chemistry mapping and
// persists the whole file. It reports whether an existing entry was replaced.
func (h Home) AddCustomChemistry(name, geometry string) (replaced bool, err error) {
	if err := h.EnsureExists(); err != nil {
		return false, fmt.Errorf("could not create %s: %w", h.Dir, err)
	}
	m, err := h.LoadCustomChemistries()
	if err != nil {
		return false, err
	}
	_, replaced = m[name]
	m[name] = geometry
	return replaced, jsonutil.WriteFile(h.CustomChemPath(), m)
}
