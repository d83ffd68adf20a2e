// core/geometry/geometry.go
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind identifies what a read segment carries.
type SegmentKind byte

const (
	Barcode SegmentKind = 'B'
	UMI     SegmentKind = 'U'
	Read    SegmentKind = 'R'
)

// Segment is one element of a geometry description: which mate it lives on
// and the 1-based inclusive interval it occupies. End == 0 means the segment
// runs to the end of the read ("end" in the textual form).
type Segment struct {
	Kind  SegmentKind
	Mate  int // 1 or 2
	Start int
	End   int // 0 = open-ended
}

// Geometry is a parsed chemistry geometry: where the cell barcode, UMI and
// biological sequence occur within a read pair.
type Geometry struct {
	Barcode Segment
	UMI     Segment
	Read    Segment
	raw     string
}

// String returns the original textual form.
func (g Geometry) String() string { return g.raw }

// Parse validates a geometry descriptor of the form
//
//	B1[1-16]U1[17-28]R2[1-end]
//
// i.e. a sequence of segments, each a kind letter (B, U or R), a mate number
// (1 or 2) and a 1-based inclusive range whose end may be the literal "end".
// Exactly one segment of each kind must be present.
func Parse(s string) (Geometry, error) {
	g := Geometry{raw: s}
	if s == "" {
		return g, fmt.Errorf("empty geometry string")
	}
	seen := map[SegmentKind]bool{}
	rest := s
	for rest != "" {
		seg, tail, err := parseSegment(rest)
		if err != nil {
			return g, fmt.Errorf("invalid geometry %q: %w", s, err)
		}
		if seen[seg.Kind] {
			return g, fmt.Errorf("invalid geometry %q: duplicate %c segment", s, seg.Kind)
		}
		seen[seg.Kind] = true
		switch seg.Kind {
		case Barcode:
			g.Barcode = seg
		case UMI:
			g.UMI = seg
		case Read:
			g.Read = seg
		}
		rest = tail
	}
	for _, k := range []SegmentKind{Barcode, UMI, Read} {
		if !seen[k] {
			return g, fmt.Errorf("invalid geometry %q: missing %c segment", s, k)
		}
	}
	return g, nil
}

func parseSegment(s string) (Segment, string, error) {
	var seg Segment
	switch SegmentKind(s[0]) {
	case Barcode, UMI, Read:
		seg.Kind = SegmentKind(s[0])
	default:
		return seg, "", fmt.Errorf("expected segment kind B, U or R at %q", s)
	}
	s = s[1:]
	if len(s) == 0 || (s[0] != '1' && s[0] != '2') {
		return seg, "", fmt.Errorf("expected mate number 1 or 2 after %c", seg.Kind)
	}
	seg.Mate = int(s[0] - '0')
	s = s[1:]
	if len(s) == 0 || s[0] != '[' {
		return seg, "", fmt.Errorf("expected '[' after mate number")
	}
	close := strings.IndexByte(s, ']')
	if close < 0 {
		return seg, "", fmt.Errorf("unterminated range")
	}
	rng := s[1:close]
	rest := s[close+1:]
	dash := strings.IndexByte(rng, '-')
	if dash < 0 {
		return seg, "", fmt.Errorf("range %q missing '-'", rng)
	}
	start, err := strconv.Atoi(rng[:dash])
	if err != nil || start < 1 {
		return seg, "", fmt.Errorf("bad range start %q", rng[:dash])
	}
	seg.Start = start
	endStr := rng[dash+1:]
	if endStr == "end" {
		seg.End = 0
	} else {
		end, err := strconv.Atoi(endStr)
		if err != nil || end < start {
			return seg, "", fmt.Errorf("bad range end %q", endStr)
		}
		seg.End = end
	}
	return seg, rest, nil
}

// rangeString renders a segment range the way salmon expects it,
// e.g. "1[1-16]" or "2[1-end]".
func rangeString(seg Segment) string {
	end := "end"
	if seg.End > 0 {
		end = strconv.Itoa(seg.End)
	}
	return fmt.Sprintf("%d[%d-%s]", seg.Mate, seg.Start, end)
}

// SalmonBarcodeGeometry renders the barcode segment for salmon's
// --bc-geometry flag.
func (g Geometry) SalmonBarcodeGeometry() string { return rangeString(g.Barcode) }

// SalmonUMIGeometry renders the UMI segment for salmon's --umi-geometry flag.
func (g Geometry) SalmonUMIGeometry() string { return rangeString(g.UMI) }

// SalmonReadGeometry renders the biological-read segment for salmon's
// --read-geometry flag.
func (g Geometry) SalmonReadGeometry() string { return rangeString(g.Read) }
