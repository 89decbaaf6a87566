package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/frederic-klein/demver/internal/syntax"
)

var (
	ErrOpenFile = errors.New("failed to open file")
	ErrNotText  = errors.New("failed to read file as text")
)

// ReadFunc loads a file's bytes.
type ReadFunc func(path string) ([]byte, error)

// TagResult holds one tag or the reason it could not be parsed.
type TagResult struct {
	Tag *syntax.Tag
	Err error
}

// FileResult is the outcome for one input file. Err is set only when the
// file itself could not be read; tag failures live in Tags.
type FileResult struct {
	Filename string
	Tags     []TagResult
	Err      error
}

// Failed reports whether the file or any of its tags failed.
func (r FileResult) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, t := range r.Tags {
		if t.Err != nil {
			return true
		}
	}
	return false
}

// Scanner finds and parses tags in a list of files.
type Scanner struct {
	read     ReadFunc
	maxCount int
	logger   *log.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReader replaces os.ReadFile.
func WithReader(read ReadFunc) Option {
	return func(s *Scanner) { s.read = read }
}

// WithMaxTags limits the number of tags taken from each file. 0 is unbounded.
func WithMaxTags(n int) Option {
	return func(s *Scanner) { s.maxCount = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// NewScanner creates a new tag scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		read:   os.ReadFile,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns one result per filename, in input order. A failure in one
// file never stops the others.
func (s *Scanner) Scan(filenames []string) []FileResult {
	results := make([]FileResult, 0, len(filenames))
	for _, name := range filenames {
		results = append(results, s.ScanFile(name))
	}
	return results
}

// ScanFile reads and scans a single file.
func (s *Scanner) ScanFile(filename string) FileResult {
	data, err := s.read(filename)
	if err != nil {
		s.logger.Debug("cannot read file", "file", filename, "err", err)
		return FileResult{Filename: filename, Err: fmt.Errorf("%w %s: %w", ErrOpenFile, filename, err)}
	}
	if !utf8.Valid(data) {
		return FileResult{Filename: filename, Err: fmt.Errorf("%w: %s", ErrNotText, filename)}
	}

	return FileResult{Filename: filename, Tags: s.ScanText(filename, string(data))}
}

// ScanText tokenizes and parses every tag in text.
func (s *Scanner) ScanText(filename, text string) []TagResult {
	var results []TagResult
	for raw, err := range syntax.TokenizeAll(filename, text, s.maxCount) {
		if err != nil {
			results = append(results, TagResult{Err: fmt.Errorf("failed to tokenize tag in file %s: %w", filename, err)})
			continue
		}
		tag, err := syntax.Parse(raw)
		if err != nil {
			results = append(results, TagResult{Err: fmt.Errorf("failed to parse tag %q in file %s: %w", raw.Identifier, filename, err)})
			continue
		}
		results = append(results, TagResult{Tag: tag})
	}
	s.logger.Debug("scanned", "file", filename, "tags", len(results))
	return results
}
