package syntax

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/frederic-klein/demver/internal/source"
	"github.com/frederic-klein/demver/internal/version"
)

var (
	ErrInvalidConstraint = errors.New("invalid constraint")
	ErrInvalidSource     = errors.New("invalid source")
	ErrInvalidVersion    = errors.New("invalid current version")
)

// Tag is a validated tag.
type Tag struct {
	Constraint *version.Constraint
	Source     source.Reference
	Identifier string
	// Current is the version last stamped into the file. It is not used
	// when resolving.
	Current   *semver.Version
	Timestamp string

	RawConstraint  string
	RawSource      string
	OriginFilename string
	Start          int
	End            int
}

// Parse validates raw. It never returns a partially filled Tag.
func Parse(raw *RawTag) (*Tag, error) {
	c, err := version.ParseConstraint(raw.Constraint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConstraint, err)
	}

	ref, err := source.ParseReference(raw.Source)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSource, raw.Source, err)
	}

	current, err := version.Parse(raw.CurrentVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVersion, err)
	}

	return &Tag{
		Constraint:     c,
		Source:         ref,
		Identifier:     raw.Identifier,
		Current:        current,
		Timestamp:      raw.Timestamp,
		RawConstraint:  raw.Constraint,
		RawSource:      raw.Source,
		OriginFilename: raw.Filename,
		Start:          raw.Start,
		End:            raw.End,
	}, nil
}
