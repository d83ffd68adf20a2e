// core/chemistry/chemistry.go
package chemistry

// Kind discriminates the built-in chemistries from everything else.
type Kind int

const (
	TenxV2 Kind = iota
	TenxV3
	Other
)

// Chemistry is a resolved single-cell chemistry. For the built-in 10x
// chemistries the value is fully determined by Kind; for Other the Raw field
// carries whatever the user supplied: either a bare name the downstream
// mapper may recognize, or a geometry descriptor substituted from a custom
// chemistry mapping.
type Chemistry struct {
	Kind Kind
	Raw  string
}

// Geometry descriptors for the built-in chemistries.
const (
	TenxV2Geometry = "B1[1-16]U1[17-26]R2[1-end]"
	TenxV3Geometry = "B1[1-16]U1[17-28]R2[1-end]"
)

// Resolve maps a chemistry name to a Chemistry value. The built-in names
// 10xv2 and 10xv3 resolve directly; any other name is first looked up in the
// custom name to geometry mapping (may be nil) and otherwise passed through
// unchanged. Resolve never fails: validity of an unknown name is the
// downstream tool's problem.
func Resolve(name string, custom map[string]string) Chemistry {
	switch name {
	case "10xv2":
		return Chemistry{Kind: TenxV2}
	case "10xv3":
		return Chemistry{Kind: TenxV3}
	}
	if geom, ok := custom[name]; ok {
		return Chemistry{Kind: Other, Raw: geom}
	}
	return Chemistry{Kind: Other, Raw: name}
}

// String returns the canonical short name for built-in chemistries and the
// raw value otherwise.
func (c Chemistry) String() string {
	switch c.Kind {
	case TenxV2:
		return "10xv2"
	case TenxV3:
		return "10xv3"
	default:
		return c.Raw
	}
}

// Orientation values accepted by alevin-fry generate-permit-list.
const (
	OriForward = "fw"
	OriReverse = "rc"
	OriBoth    = "both"
)

// ValidOrientation reports whether s is an accepted orientation value.
func ValidOrientation(s string) bool {
	return s == OriForward || s == OriReverse || s == OriBoth
}

// DefaultOrientation returns the expected alignment orientation when the
// user did not specify one: forward for the 10x chemistries, both otherwise.
func (c Chemistry) DefaultOrientation() string {
	switch c.Kind {
	case TenxV2, TenxV3:
		return OriForward
	default:
		return OriBoth
	}
}

// PermitListName returns the canonical unfiltered permit-list file name for
// chemistries that have one, or "" when no canonical list is known.
func (c Chemistry) PermitListName() string {
	switch c.Kind {
	case TenxV2:
		return "10x_v2_permit.txt"
	case TenxV3:
		return "10x_v3_permit.txt"
	default:
		return ""
	}
}
