package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrUnknownSourceKind = errors.New("unknown source kind")
	ErrMissingFilename   = errors.New("missing filename")
	ErrMalformedSource   = errors.New("malformed source reference")
)

// UnknownKindError reports a source kind nothing is registered for.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown source kind %q", e.Kind)
}

func (e *UnknownKindError) Unwrap() error {
	return ErrUnknownSourceKind
}

// Reference tells a resolver where to find a version catalog.
type Reference interface {
	Kind() string
}

// KindFile is the kind name of FileReference.
const KindFile = "file"

// FileReference points at a catalog file relative to the tagged file.
type FileReference struct {
	Filename string
	// HashAlgorithm is the label given with hash=..., if any.
	HashAlgorithm string
}

func (FileReference) Kind() string { return KindFile }

func (r FileReference) String() string {
	if r.HashAlgorithm != "" {
		return fmt.Sprintf("file(fn=%s,hash=%s)", r.Filename, r.HashAlgorithm)
	}
	return fmt.Sprintf("file(%s)", r.Filename)
}

// parseFunc builds a Reference from the text between the parentheses.
// hasArgs is false for a bare kind with no parentheses at all.
type parseFunc func(args string, hasArgs bool) (Reference, error)

var kinds = map[string]parseFunc{
	KindFile: parseFile,
}

var refRe = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9_-]*)\s*(?:\((.*)\))?\s*$`)

// ParseReference parses "<kind>" or "<kind>(<arguments>)".
func ParseReference(text string) (Reference, error) {
	m := refRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedSource, text)
	}
	kind := text[m[2]:m[3]]
	hasArgs := m[4] >= 0
	args := ""
	if hasArgs {
		args = text[m[4]:m[5]]
	}

	parse, ok := kinds[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return parse(args, hasArgs)
}

// parseFile accepts either a bare filename, file(versions.ini), or keyed
// arguments, file(fn=versions.ini,hash=sha512).
func parseFile(args string, _ bool) (Reference, error) {
	args = strings.TrimSpace(args)
	if !strings.Contains(args, "=") {
		if args == "" {
			return nil, fmt.Errorf("%w: file source needs a filename", ErrMissingFilename)
		}
		return FileReference{Filename: args}, nil
	}

	var ref FileReference
	for _, pair := range strings.Split(args, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: argument %q is not key=value", ErrMalformedSource, pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "fn":
			ref.Filename = value
		case "hash":
			ref.HashAlgorithm = value
		default:
			return nil, fmt.Errorf("%w: unknown file argument %q", ErrMalformedSource, key)
		}
	}
	if ref.Filename == "" {
		return nil, fmt.Errorf("%w: file source needs fn=<filename>", ErrMissingFilename)
	}
	return ref, nil
}
