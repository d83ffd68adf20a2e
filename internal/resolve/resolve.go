// internal/resolve/resolve.go
package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"simpleaf-core/chemistry"
	"simpleaf-core/filter"

	"simpleaf/internal/execute"
	"simpleaf/internal/jsonutil"
)

// IndexKind identifies which mapper's index a quant run maps against.
type IndexKind int

const (
	IndexNone IndexKind = iota
	IndexSalmon
	IndexPiscem
)

func (k IndexKind) String() string {
	switch k {
	case IndexSalmon:
		return "salmon"
	case IndexPiscem:
		return "piscem"
	default:
		return "none"
	}
}

// IndexRef is a resolved index: its kind plus the path the mapper should be
// pointed at (the directory for salmon, the index stem for piscem).
type IndexRef struct {
	Kind IndexKind
	Path string
}

// MetadataFileName is the per-index record written at index-build time and
// consulted at quant time.
const MetadataFileName = "simpleaf_index.json"

// IndexMetadata mirrors the persisted simpleaf_index.json record.
type IndexMetadata struct {
	Cmd       string  `json:"cmd"`
	IndexType string  `json:"index_type"`
	T2GFile   *string `json:"t2g_file"`
}

// LoadIndexMetadata reads the metadata record from an index directory.
// Absence of the record is not an error; it simply yields nil.
func LoadIndexMetadata(indexDir string) (*IndexMetadata, error) {
	var meta IndexMetadata
	if err := jsonutil.ReadFile(filepath.Join(indexDir, MetadataFileName), &meta); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// ResolveIndex determines the index kind and mapper path. An explicit piscem
// request always wins over persisted metadata; otherwise the metadata's
// index_type is trusted when present, and salmon is assumed when it is not.
// No index directory at all resolves to IndexNone, which is only legal when
// a pre-mapped directory is supplied instead of raw reads.
func ResolveIndex(indexDir string, usePiscem bool, meta *IndexMetadata) (IndexRef, error) {
	if indexDir == "" {
		return IndexRef{Kind: IndexNone}, nil
	}
	if usePiscem {
		return IndexRef{Kind: IndexPiscem, Path: indexDir}, nil
	}
	if meta != nil {
		switch meta.IndexType {
		case "salmon":
			return IndexRef{Kind: IndexSalmon, Path: indexDir}, nil
		case "piscem":
			return IndexRef{Kind: IndexPiscem, Path: filepath.Join(indexDir, "piscem_idx")}, nil
		default:
			return IndexRef{}, fmt.Errorf("unknown index type %q present in %s", meta.IndexType, MetadataFileName)
		}
	}
	return IndexRef{Kind: IndexSalmon, Path: indexDir}, nil
}

// ResolveT2G returns the transcript-to-gene map to use: the explicit path if
// given, else the path recorded in the index metadata (resolved relative to
// the index directory). A t2g map is mandatory for quantification.
func ResolveT2G(explicit, indexDir string, meta *IndexMetadata) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if meta != nil && meta.T2GFile != nil && *meta.T2GFile != "" {
		return filepath.Join(indexDir, *meta.T2GFile), nil
	}
	return "", errors.New("a transcript-to-gene map (t2g) file was not provided via --t2g-map and could not be inferred from the index; please provide one explicitly")
}

// ResolveOrientation applies the explicit value when given (validated), and
// otherwise defaults by chemistry.
func ResolveOrientation(explicit string, chem chemistry.Chemistry) (string, error) {
	if explicit == "" {
		return chem.DefaultOrientation(), nil
	}
	if !chemistry.ValidOrientation(explicit) {
		return "", fmt.Errorf("invalid expected orientation %q (must be fw, rc or both)", explicit)
	}
	return explicit, nil
}

// Inputs are the raw, possibly partial quant options to resolve.
type Inputs struct {
	IndexDir    string
	UsePiscem   bool
	MapDir      string
	Chemistry   string
	ExpectedOri string
	Threads     int
	T2GMap      string
	Filter      filter.Spec
}

// Config is the fully resolved quant configuration. Built once per command
// invocation and consumed immediately; never mutated afterwards.
type Config struct {
	Index          IndexRef
	MapDir         string
	T2G            string
	Chem           chemistry.Chemistry
	Ori            string
	Filter         filter.Method
	Threads        int
	ThreadsClamped bool
}

// Quant resolves the whole quant configuration or fails with a descriptive
// error before any external process is spawned. customChem is the persisted
// name to geometry mapping (may be empty) and fetchAuto obtains the canonical
// permit list for a chemistry in the unfiltered auto-fetch case.
func Quant(in Inputs, customChem map[string]string, fetchAuto func(chemistry.Chemistry) (string, error)) (Config, error) {
	var cfg Config

	var meta *IndexMetadata
	var err error
	if in.IndexDir != "" {
		meta, err = LoadIndexMetadata(in.IndexDir)
		if err != nil {
			return cfg, err
		}
	}
	cfg.Index, err = ResolveIndex(in.IndexDir, in.UsePiscem, meta)
	if err != nil {
		return cfg, err
	}
	if cfg.Index.Kind == IndexNone && in.MapDir == "" {
		return cfg, errors.New("either an index (with reads) or a mapped output directory must be provided")
	}
	cfg.MapDir = in.MapDir

	cfg.T2G, err = ResolveT2G(in.T2GMap, in.IndexDir, meta)
	if err != nil {
		return cfg, err
	}
	if err := execute.CheckFilesExist([]string{cfg.T2G}); err != nil {
		return cfg, err
	}

	cfg.Chem = chemistry.Resolve(in.Chemistry, customChem)

	cfg.Ori, err = ResolveOrientation(in.ExpectedOri, cfg.Chem)
	if err != nil {
		return cfg, err
	}

	if in.Filter.Unfiltered == filter.UnfilteredPath {
		if st, err := os.Stat(in.Filter.UnfilteredFile); err != nil || st.IsDir() {
			return cfg, fmt.Errorf("the provided permit list path %s does not exist as a regular file", in.Filter.UnfilteredFile)
		}
	}
	cfg.Filter, err = in.Filter.Resolve(func() (string, error) { return fetchAuto(cfg.Chem) })
	if err != nil {
		return cfg, err
	}

	cfg.Threads, cfg.ThreadsClamped = execute.ClampThreads(in.Threads)
	return cfg, nil
}
