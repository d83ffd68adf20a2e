// core/chemistry/chemistry_test.go
package chemistry

import "testing"

func TestResolveBuiltins(t *testing.T) {
	if c := Resolve("10xv2", nil); c.Kind != TenxV2 || c.String() != "10xv2" {
		t.Fatalf("10xv2 resolved to %+v", c)
	}
	if c := Resolve("10xv3", nil); c.Kind != TenxV3 || c.String() != "10xv3" {
		t.Fatalf("10xv3 resolved to %+v", c)
	}
}

func TestResolveCustomMapping(t *testing.T) {
	custom := map[string]string{"flarechem": "B1[1-12]U1[13-20]R2[1-end]"}
	c := Resolve("flarechem", custom)
	if c.Kind != Other || c.Raw != custom["flarechem"] {
		t.Fatalf("custom chemistry resolved to %+v", c)
	}
}

func TestResolveUnknownPassesThrough(t *testing.T) {
	c := Resolve("dropseq", nil)
	if c.Kind != Other || c.Raw != "dropseq" {
		t.Fatalf("unknown chemistry resolved to %+v", c)
	}
	// idempotent: resolving the rendered value again yields the same thing
	c2 := Resolve(c.String(), nil)
	if c2 != c {
		t.Fatalf("resolution not idempotent: %+v vs %+v", c, c2)
	}
}

func TestDefaultOrientation(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"10xv2", OriForward},
		{"10xv3", OriForward},
		{"dropseq", OriBoth},
	}
	for _, tc := range cases {
		if got := Resolve(tc.name, nil).DefaultOrientation(); got != tc.want {
			t.Errorf("%s: orientation %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPermitListName(t *testing.T) {
	if got := Resolve("10xv2", nil).PermitListName(); got != "10x_v2_permit.txt" {
		t.Errorf("10xv2 permit list %q", got)
	}
	if got := Resolve("dropseq", nil).PermitListName(); got != "" {
		t.Errorf("expected no canonical permit list for dropseq, got %q", got)
	}
}

func TestValidOrientation(t *testing.T) {
	for _, ok := range []string{"fw", "rc", "both"} {
		if !ValidOrientation(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	if ValidOrientation("forward") {
		t.Errorf("long form should not be accepted")
	}
}
