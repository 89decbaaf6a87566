package version

import (
	"errors"
	"testing"
)

func TestConstraint_Matches(t *testing.T) {
	tests := []struct {
		constraint string
		version    string
		ok         bool
	}{
		{"^1.0.0", "1.0.0", true},
		{"^1.0.0", "1.5.0", true},
		{"^1.0.0", "2.0.0", false},
		{"^1.0.0", "0.9.0", false},
		{"~1.0.0", "1.0.9", true},
		{"~1.0.0", "1.1.0", false},
		{">= 1.0, < 2.0", "1.5.0", true},
		{">= 1.0, < 2.0", "2.0.0", false},
		{"=1.2.3", "1.2.3", true},
		{"=1.2.3", "1.2.4", false},
		{"^1.0.0", "1.1.0-beta.1", false},
		{"1.0.0", "1.5.0", true},
		{"1.0.0", "2.0.0", false},
		{"1.2.0, < 1.4.0", "1.3.9", true},
		{"1.2.0, < 1.4.0", "1.4.0", false},
		{"0.3.1", "0.3.5", true},
		{"0.3.1", "0.4.0", false},
		{"2.0.0 || 1.0.0", "1.9.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint+"_"+tt.version, func(t *testing.T) {
			c, err := ParseConstraint(tt.constraint)
			if err != nil {
				t.Fatalf("ParseConstraint(%q) error = %v", tt.constraint, err)
			}
			v, err := Parse(tt.version)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.version, err)
			}
			if got := c.Matches(v); got != tt.ok {
				t.Errorf("%q.Matches(%q) = %v, want %v", tt.constraint, tt.version, got, tt.ok)
			}
		})
	}
}

func TestParseConstraint_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "banana", "^1.0.0 || ??"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseConstraint(s)
			if !errors.Is(err, ErrInvalidConstraint) {
				t.Errorf("ParseConstraint(%q) error = %v, want ErrInvalidConstraint", s, err)
			}
		})
	}
}

func TestConstraint_StringKeepsRaw(t *testing.T) {
	c, err := ParseConstraint(">= 1.0, < 2.0")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != ">= 1.0, < 2.0" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestConstraint_BareVersionKeepsRaw(t *testing.T) {
	c, err := ParseConstraint("1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "1.0.0" {
		t.Errorf("String() = %q, want 1.0.0", c.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"notes", "1", "2020", "1.2", "v1.2.0", "01.2.3"} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			if !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidVersion", s, err)
			}
		})
	}
}

func TestFixed_CompareIgnoresHash(t *testing.T) {
	a, err := NewFixed("1.2.0", "aaa")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFixed("1.2.0+build.5", "bbb")
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewFixed("1.10.0", "aaa")
	if err != nil {
		t.Fatal(err)
	}

	if !a.Equal(b) {
		t.Error("versions with equal precedence and different hashes should be equal")
	}
	if a.Raw != "1.2.0" || b.Raw != "1.2.0+build.5" {
		t.Errorf("raw text not preserved: %q, %q", a.Raw, b.Raw)
	}
	if a.Compare(c) != -1 || c.Compare(a) != 1 {
		t.Error("1.2.0 should sort before 1.10.0")
	}
}

func TestCompareDeclared(t *testing.T) {
	resolved, err := NewFixed("1.5.0", "h")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		declared string
		want     Drift
	}{
		{"1.0.0", Outdated},
		{"1.5.0", UpToDate},
		{"2.0.0", Ahead},
	}

	for _, tt := range tests {
		t.Run(tt.declared, func(t *testing.T) {
			v, err := Parse(tt.declared)
			if err != nil {
				t.Fatal(err)
			}
			if got := CompareDeclared(v, resolved); got != tt.want {
				t.Errorf("CompareDeclared(%s) = %s, want %s", tt.declared, got, tt.want)
			}
		})
	}
}
