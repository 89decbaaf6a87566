package source

import (
	"errors"
	"testing"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		text string
		want FileReference
	}{
		{"file(versions.ini)", FileReference{Filename: "versions.ini"}},
		{"file( deps/versions.yaml )", FileReference{Filename: "deps/versions.yaml"}},
		{"file(fn=versions.ini,hash=sha512)", FileReference{Filename: "versions.ini", HashAlgorithm: "sha512"}},
		{"file(hash=sha256, fn=v.ini)", FileReference{Filename: "v.ini", HashAlgorithm: "sha256"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ref, err := ParseReference(tt.text)
			if err != nil {
				t.Fatalf("ParseReference() error = %v", err)
			}
			got, ok := ref.(FileReference)
			if !ok {
				t.Fatalf("ParseReference() = %T, want FileReference", ref)
			}
			if got != tt.want {
				t.Errorf("ParseReference() = %+v, want %+v", got, tt.want)
			}
			if got.Kind() != KindFile {
				t.Errorf("Kind() = %q", got.Kind())
			}
		})
	}
}

func TestParseReference_Errors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{"file", ErrMissingFilename},
		{"file()", ErrMissingFilename},
		{"file(hash=sha512)", ErrMissingFilename},
		{"file(fn=)", ErrMissingFilename},
		{"http(example.com)", ErrUnknownSourceKind},
		{"file(fn=a.ini,mode=x)", ErrMalformedSource},
		{"file(fn=a.ini,oops)", ErrMalformedSource},
		{"", ErrMalformedSource},
		{"(a.ini)", ErrMalformedSource},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := ParseReference(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseReference(%q) error = %v, want %v", tt.text, err, tt.want)
			}
		})
	}
}

func TestParseReference_UnknownKindCarriesName(t *testing.T) {
	_, err := ParseReference("registry(npm)")
	var kindErr *UnknownKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("error = %v, want *UnknownKindError", err)
	}
	if kindErr.Kind != "registry" {
		t.Errorf("Kind = %q, want registry", kindErr.Kind)
	}
}

func TestFileReference_String(t *testing.T) {
	if s := (FileReference{Filename: "v.ini"}).String(); s != "file(v.ini)" {
		t.Errorf("String() = %q", s)
	}
	if s := (FileReference{Filename: "v.ini", HashAlgorithm: "sha512"}).String(); s != "file(fn=v.ini,hash=sha512)" {
		t.Errorf("String() = %q", s)
	}
}
