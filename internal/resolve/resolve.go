package resolve

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/demver/internal/catalog"
	"github.com/frederic-klein/demver/internal/scanner"
	"github.com/frederic-klein/demver/internal/source"
	"github.com/frederic-klein/demver/internal/syntax"
	"github.com/frederic-klein/demver/internal/version"
)

var (
	ErrNoParentDir        = errors.New("origin file has no parent directory")
	ErrPathNotText        = errors.New("catalog path is not valid text")
	ErrUnsupportedSource  = errors.New("unsupported source reference")
	ErrUnsupportedCatalog = errors.New("unsupported catalog file")
)

// SourceFactory opens a version source for a catalog path.
type SourceFactory func(path string) source.VersionSource

// Resolver turns parsed tags into fixed versions.
type Resolver struct {
	open   SourceFactory
	logger *log.Logger
}

// NewResolver creates a resolver that reads catalog files from disk.
// A nil logger discards output.
func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Resolver{logger: logger}
	r.open = func(path string) source.VersionSource {
		return source.NewCatalogSource(path, nil, r.logger)
	}
	return r
}

// WithSourceFactory replaces how catalog sources are opened.
func (r *Resolver) WithSourceFactory(f SourceFactory) *Resolver {
	r.open = f
	return r
}

// CatalogPath resolves a file reference against the directory of the file
// the tag was found in. An absolute filename is used as is.
func CatalogPath(origin string, ref source.FileReference) (string, error) {
	if origin == "" {
		return "", fmt.Errorf("%w: empty origin filename", ErrNoParentDir)
	}
	dir := filepath.Dir(origin)
	if dir == origin && origin != "." {
		return "", fmt.Errorf("%w: %s", ErrNoParentDir, origin)
	}
	path := ref.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if !utf8.ValidString(path) {
		return "", fmt.Errorf("%w: %q", ErrPathNotText, path)
	}
	return path, nil
}

// ResolveTag finds the best catalog version for tag.
func (r *Resolver) ResolveTag(tag *syntax.Tag) (*version.Fixed, error) {
	switch ref := tag.Source.(type) {
	case source.FileReference:
		path, err := CatalogPath(tag.OriginFilename, ref)
		if err != nil {
			return nil, fmt.Errorf("resolving tag %q in %s: %w", tag.Identifier, tag.OriginFilename, err)
		}
		if !catalog.Supported(path) {
			return nil, fmt.Errorf("resolving tag %q in %s: %w: %s", tag.Identifier, tag.OriginFilename, ErrUnsupportedCatalog, path)
		}

		r.logger.Debug("resolving", "file", tag.OriginFilename, "identifier", tag.Identifier, "catalog", path)
		fixed, err := r.open(path).Resolve(tag.Constraint, tag.Identifier)
		if err != nil {
			return nil, fmt.Errorf("resolving tag %q in %s: %w", tag.Identifier, tag.OriginFilename, err)
		}
		return fixed, nil
	default:
		return nil, fmt.Errorf("resolving tag %q in %s: %w: %s", tag.Identifier, tag.OriginFilename, ErrUnsupportedSource, tag.Source.Kind())
	}
}

// Resolution is the outcome for one scanned tag.
type Resolution struct {
	Tag   *syntax.Tag
	Fixed *version.Fixed
	Drift version.Drift
	Err   error
}

// FileResolution groups the resolutions of one scanned file.
type FileResolution struct {
	Filename string
	Tags     []Resolution
	Err      error
}

// Failed reports whether the file or any of its tags failed.
func (f FileResolution) Failed() bool {
	if f.Err != nil {
		return true
	}
	for _, t := range f.Tags {
		if t.Err != nil {
			return true
		}
	}
	return false
}

// ResolveFiles resolves every parsed tag in results. Scan errors are carried
// over unchanged.
func (r *Resolver) ResolveFiles(results []scanner.FileResult) []FileResolution {
	out := make([]FileResolution, 0, len(results))
	for _, fr := range results {
		res := FileResolution{Filename: fr.Filename, Err: fr.Err}
		for _, tr := range fr.Tags {
			if tr.Err != nil {
				res.Tags = append(res.Tags, Resolution{Err: tr.Err})
				continue
			}
			fixed, err := r.ResolveTag(tr.Tag)
			if err != nil {
				res.Tags = append(res.Tags, Resolution{Tag: tr.Tag, Err: err})
				continue
			}
			res.Tags = append(res.Tags, Resolution{
				Tag:   tr.Tag,
				Fixed: fixed,
				Drift: version.CompareDeclared(tr.Tag.Current, fixed),
			})
		}
		out = append(out, res)
	}
	return out
}
