package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	ErrInvalidConstraint = errors.New("invalid version constraint")
	ErrInvalidVersion    = errors.New("invalid version")
)

// Constraint is a parsed semver range such as "^1.0.0" or ">= 1.2, < 2".
type Constraint struct {
	raw string
	c   *semver.Constraints
}

// ParseConstraint parses a constraint expression.
func ParseConstraint(s string) (*Constraint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidConstraint)
	}
	c, err := semver.NewConstraint(defaultCaret(s))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidConstraint, s, err)
	}
	return &Constraint{raw: s, c: c}, nil
}

// defaultCaret prefixes every operator-less comparator with "^", so a bare
// "1.2.3" means ">=1.2.3, <2.0.0" rather than an exact match.
func defaultCaret(s string) string {
	alts := strings.Split(s, "||")
	for i, alt := range alts {
		if strings.Contains(alt, " - ") {
			continue
		}
		parts := strings.Split(alt, ",")
		for j, p := range parts {
			t := strings.TrimSpace(p)
			if t != "" && t[0] >= '0' && t[0] <= '9' {
				parts[j] = "^" + t
			}
		}
		alts[i] = strings.Join(parts, ",")
	}
	return strings.Join(alts, "||")
}

// Matches reports whether v falls inside the range.
func (c *Constraint) Matches(v *semver.Version) bool {
	return c.c.Check(v)
}

// String returns the constraint as it was written.
func (c *Constraint) String() string {
	return c.raw
}

// Parse parses a single concrete version. Only full MAJOR.MINOR.PATCH
// versions are accepted, so keys like "1" or "2020" are not versions.
func Parse(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, s, err)
	}
	return v, nil
}

// Fixed is one concrete version from a catalog together with its
// integrity hash. Raw keeps the key exactly as the catalog spells it.
type Fixed struct {
	Raw     string
	Version *semver.Version
	Hash    string
}

// NewFixed parses raw and pairs it with hash.
func NewFixed(raw, hash string) (*Fixed, error) {
	v, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Fixed{Raw: raw, Version: v, Hash: hash}, nil
}

// Compare orders by version precedence only; the hash is ignored.
// Returns -1 if f < other, 0 if equal, 1 if f > other.
func (f *Fixed) Compare(other *Fixed) int {
	return f.Version.Compare(other.Version)
}

// Equal reports precedence equality.
func (f *Fixed) Equal(other *Fixed) bool {
	return f.Compare(other) == 0
}

func (f *Fixed) String() string {
	return fmt.Sprintf("%s (%s)", f.Raw, f.Hash)
}

// Drift describes how a declared version relates to a resolved one.
type Drift string

const (
	UpToDate Drift = "up-to-date"
	Outdated Drift = "outdated"
	Ahead    Drift = "ahead"
)

// CompareDeclared reports the drift of declared against resolved.
func CompareDeclared(declared *semver.Version, resolved *Fixed) Drift {
	switch declared.Compare(resolved.Version) {
	case -1:
		return Outdated
	case 1:
		return Ahead
	default:
		return UpToDate
	}
}
