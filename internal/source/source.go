package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/demver/internal/catalog"
	"github.com/frederic-klein/demver/internal/version"
)

var (
	ErrCatalogUnreadable = errors.New("catalog unreadable")
	ErrNoSection         = errors.New("no section for identifier")
	ErrNoMatch           = errors.New("no matching version found")
)

// VersionSource picks the best concrete version for a constraint.
type VersionSource interface {
	Resolve(c *version.Constraint, identifier string) (*version.Fixed, error)
}

// CatalogError wraps a failure to open or parse a catalog.
type CatalogError struct {
	Path string
	Err  error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("reading catalog %s: %v", e.Path, e.Err)
}

func (e *CatalogError) Is(target error) bool { return target == ErrCatalogUnreadable }

func (e *CatalogError) Unwrap() error { return e.Err }

// LookupError reports a readable catalog that has no answer.
// Err is ErrNoSection or ErrNoMatch.
type LookupError struct {
	Path       string
	Identifier string
	Constraint string
	Err        error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, ErrNoSection) {
		return fmt.Sprintf("catalog %s has no section %q", e.Path, e.Identifier)
	}
	return fmt.Sprintf("no version in catalog %s section %q satisfies %s", e.Path, e.Identifier, e.Constraint)
}

func (e *LookupError) Unwrap() error { return e.Err }

// LoadFunc reads a catalog from path.
type LoadFunc func(path string) (*catalog.Catalog, error)

// CatalogSource resolves against a catalog file. The file is re-read on
// every call.
type CatalogSource struct {
	path   string
	load   LoadFunc
	logger *log.Logger
}

// NewCatalogSource creates a source backed by the catalog at path.
// A nil load uses catalog.Load; a nil logger discards output.
func NewCatalogSource(path string, load LoadFunc, logger *log.Logger) *CatalogSource {
	if load == nil {
		load = catalog.Load
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CatalogSource{path: path, load: load, logger: logger}
}

// Path returns the catalog path.
func (s *CatalogSource) Path() string {
	return s.path
}

// Resolve returns the highest version in the identifier's section that
// satisfies c. Keys that are not versions are skipped. Among equal
// precedence the first key in file order wins.
func (s *CatalogSource) Resolve(c *version.Constraint, identifier string) (*version.Fixed, error) {
	cat, err := s.load(s.path)
	if err != nil {
		return nil, &CatalogError{Path: s.path, Err: err}
	}

	sec, ok := cat.Section(identifier)
	if !ok {
		return nil, &LookupError{Path: s.path, Identifier: identifier, Constraint: c.String(), Err: ErrNoSection}
	}

	var best *version.Fixed
	for _, e := range sec.Entries {
		candidate, err := version.NewFixed(e.Key, e.Value)
		if err != nil {
			s.logger.Debug("skipping non-version key", "catalog", s.path, "section", identifier, "key", e.Key)
			continue
		}
		if !c.Matches(candidate.Version) {
			continue
		}
		if best == nil || candidate.Compare(best) > 0 {
			best = candidate
		}
	}

	if best == nil {
		return nil, &LookupError{Path: s.path, Identifier: identifier, Constraint: c.String(), Err: ErrNoMatch}
	}
	s.logger.Debug("resolved", "catalog", s.path, "section", identifier, "constraint", c.String(), "version", best.Raw)
	return best, nil
}
