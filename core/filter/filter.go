// core/filter/filter.go
package filter

import (
	"errors"
	"strconv"
)

// Kind enumerates the cell-filtering strategies understood by
// alevin-fry generate-permit-list.
type Kind int

const (
	UnfilteredExternalList Kind = iota
	ExplicitList
	ForceCells
	ExpectCells
	KneeFinding
)

// Method is a fully resolved cell-filtering strategy. Path is set for the
// list-based kinds, Count for the cell-count kinds, MinReads only for
// UnfilteredExternalList.
type Method struct {
	Kind     Kind
	Path     string
	Count    int
	MinReads int
}

// AppendArgs appends the generate-permit-list arguments for the method.
func (m Method) AppendArgs(args []string) []string {
	switch m.Kind {
	case UnfilteredExternalList:
		return append(args, "--unfiltered-pl", m.Path, "--min-reads", strconv.Itoa(m.MinReads))
	case ExplicitList:
		return append(args, "--valid-bc", m.Path)
	case ForceCells:
		return append(args, "--force-cells", strconv.Itoa(m.Count))
	case ExpectCells:
		return append(args, "--expect-cells", strconv.Itoa(m.Count))
	default:
		return append(args, "--knee-distance")
	}
}

// UnfilteredMode captures the three states of the unfiltered-permit-list
// option: not given at all, given without a path (auto-fetch a canonical
// list for the chemistry), or given with an explicit path.
type UnfilteredMode int

const (
	UnfilteredAbsent UnfilteredMode = iota
	UnfilteredAuto
	UnfilteredPath
)

// Spec holds the raw, possibly conflicting filter options as supplied by the
// user. At most one strategy is honored; see Resolve.
type Spec struct {
	Unfiltered     UnfilteredMode
	UnfilteredFile string
	ExplicitPL     string
	ForcedCells    int
	ExpectCells    int
	Knee           bool
	MinReads       int
}

// ErrNoFilter is returned by Resolve when no strategy is configured.
var ErrNoFilter = errors.New("no cell filtering strategy was provided")

// Resolve picks the effective filtering method. Evaluation order is fixed:
// unfiltered list (explicit file, else auto-fetch through fetchAuto), then
// explicit list, forced cells, expected cells, and finally knee finding; the
// first configured strategy wins. fetchAuto is only consulted in the
// auto-fetch case and returns the path of the canonical list for the
// chemistry in use.
func (s Spec) Resolve(fetchAuto func() (string, error)) (Method, error) {
	switch s.Unfiltered {
	case UnfilteredPath:
		return Method{Kind: UnfilteredExternalList, Path: s.UnfilteredFile, MinReads: s.MinReads}, nil
	case UnfilteredAuto:
		p, err := fetchAuto()
		if err != nil {
			return Method{}, err
		}
		return Method{Kind: UnfilteredExternalList, Path: p, MinReads: s.MinReads}, nil
	}
	if s.ExplicitPL != "" {
		return Method{Kind: ExplicitList, Path: s.ExplicitPL}, nil
	}
	if s.ForcedCells > 0 {
		return Method{Kind: ForceCells, Count: s.ForcedCells}, nil
	}
	if s.ExpectCells > 0 {
		return Method{Kind: ExpectCells, Count: s.ExpectCells}, nil
	}
	if s.Knee {
		return Method{Kind: KneeFinding}, nil
	}
	return Method{}, ErrNoFilter
}
