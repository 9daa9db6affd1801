package restmodel_test

import (
	"testing"

	restmodel "github.com/reoring/restmodel"
)

func TestParseMask_Canonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"{name}", "{name}"},
		{"name,age", "{name,age}"},
		{"{name, age}", "{name,age}"},
		{"{name,owner{name,email}}", "{name,owner{name,email}}"},
		{"{a{b{c}},d}", "{a{b{c}},d}"},
		{"{name,*}", "{name,*}"},
		{"*", "{*}"},
	}
	for _, tc := range cases {
		m, err := restmodel.ParseMask(tc.in)
		if err != nil {
			t.Fatalf("ParseMask(%q): %v", tc.in, err)
		}
		if got := m.String(); got != tc.want {
			t.Fatalf("ParseMask(%q).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMask_Errors(t *testing.T) {
	for _, in := range []string{"", "{name", "{name}}", "{,}", "{*{a}}", "{a{b}"} {
		if _, err := restmodel.ParseMask(in); err == nil {
			t.Fatalf("ParseMask(%q): expected error", in)
		}
	}
}

func TestMask_Includes(t *testing.T) {
	m := restmodel.MustParseMask("{name,owner{email}}")

	if _, ok := m.Includes("name"); !ok {
		t.Fatalf("name must be included")
	}
	if _, ok := m.Includes("age"); ok {
		t.Fatalf("age must be excluded")
	}
	sub, ok := m.Includes("owner")
	if !ok || sub == nil {
		t.Fatalf("owner must carry a nested mask")
	}
	if _, ok := sub.Includes("email"); !ok {
		t.Fatalf("owner.email must be included")
	}
	if _, ok := sub.Includes("name"); ok {
		t.Fatalf("owner.name must be excluded")
	}
}

func TestMask_StarAdmitsUnnamedFields(t *testing.T) {
	m := restmodel.MustParseMask("{owner{email},*}")
	if _, ok := m.Includes("anything"); !ok {
		t.Fatalf("star must admit unnamed fields")
	}
	if sub, ok := m.Includes("owner"); !ok || sub == nil {
		t.Fatalf("named entry must keep its nested mask next to star")
	}
}

func TestMask_NilIncludesEverything(t *testing.T) {
	var m *restmodel.Mask
	if _, ok := m.Includes("anything"); !ok {
		t.Fatalf("nil mask must include everything")
	}
}
