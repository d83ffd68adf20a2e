// core/refs/refs.go
package refs

import "fmt"

// Type selects which expanded-reference construction procedure is used.
type Type int

const (
	// SplicedIntronic augments the transcriptome with intronic sequence
	// ("splici"); construction requires a target read length.
	SplicedIntronic Type = iota
	// SplicedUnspliced augments the transcriptome with full unspliced
	// transcripts ("spliceu").
	SplicedUnspliced
)

// Parse recognizes the long names and their short aliases.
func Parse(s string) (Type, error) {
	switch s {
	case "spliced+intronic", "splici":
		return SplicedIntronic, nil
	case "spliced+unspliced", "spliceu":
		return SplicedUnspliced, nil
	}
	return 0, fmt.Errorf("do not recognize reference type %q", s)
}

func (t Type) String() string {
	if t == SplicedUnspliced {
		return "spliced+unspliced"
	}
	return "spliced+intronic"
}

// MakeCommand returns the pyroe subcommand that builds this reference type.
func (t Type) MakeCommand() string {
	if t == SplicedUnspliced {
		return "make-spliceu"
	}
	return "make-splici"
}

// NeedsReadLength reports whether reference construction requires an
// explicit read length. The splici flank length is derived from it.
func (t Type) NeedsReadLength() bool { return t == SplicedIntronic }

// RefFileName is the FASTA file the reference builder produces. For splici
// the name embeds the flank length (read length - 5).
func (t Type) RefFileName(readLen int) string {
	if t == SplicedUnspliced {
		return "spliceu.fa"
	}
	return fmt.Sprintf("splici_fl%d.fa", readLen-5)
}

// T2GFileName is the three-column transcript-to-gene map the reference
// builder produces next to the FASTA.
func (t Type) T2GFileName(readLen int) string {
	if t == SplicedUnspliced {
		return "spliceu_t2g_3col.tsv"
	}
	return fmt.Sprintf("splici_fl%d_t2g_3col.tsv", readLen-5)
}
