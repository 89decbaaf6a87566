package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/demver/internal/resolve"
	"github.com/frederic-klein/demver/internal/scanner"
	"github.com/frederic-klein/demver/internal/syntax"
)

// Format selects the output representation.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or yaml)", s)
}

// Emitter writes check and resolve results.
type Emitter struct {
	w      io.Writer
	format Format
	styles styles
}

type styles struct {
	fileOK  render
	fileErr render
	errText render
	version render
	dim     render
}

type render func(strs ...string) string

func plain(strs ...string) string {
	return strings.Join(strs, " ")
}

func newStyles(color bool) styles {
	if !color {
		return styles{fileOK: plain, fileErr: plain, errText: plain, version: plain, dim: plain}
	}
	return styles{
		fileOK:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render,
		fileErr: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render,
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render,
		version: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render,
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render,
	}
}

// NewEmitter creates a new emitter. color only affects FormatText.
func NewEmitter(w io.Writer, format Format, color bool) *Emitter {
	return &Emitter{w: w, format: format, styles: newStyles(color)}
}

// EmitCheck writes scan results.
func (e *Emitter) EmitCheck(results []scanner.FileResult) error {
	if e.format == FormatYAML {
		docs := make([]fileDoc, 0, len(results))
		for _, fr := range results {
			doc := fileDoc{File: fr.Filename, Error: errString(fr.Err)}
			for _, tr := range fr.Tags {
				doc.Tags = append(doc.Tags, newTagDoc(tr.Tag, tr.Err))
			}
			docs = append(docs, doc)
		}
		return e.emitYAML(docs)
	}

	for _, fr := range results {
		if fr.Err != nil {
			if err := e.printf("%s: ERROR %s\n", e.styles.fileErr(fr.Filename), e.styles.errText(fr.Err.Error())); err != nil {
				return err
			}
			continue
		}
		if err := e.printf("%s:\n", e.styles.fileOK(fr.Filename)); err != nil {
			return err
		}
		for _, tr := range fr.Tags {
			var err error
			if tr.Err != nil {
				err = e.printf("  ERROR: %s\n", e.styles.errText(tr.Err.Error()))
			} else {
				err = e.printf("  tag %s %s %s %s\n",
					tr.Tag.Identifier,
					tr.Tag.RawConstraint,
					e.styles.version(tr.Tag.Current.Original()),
					e.styles.dim(fmt.Sprintf("%s @ %s", tr.Tag.RawSource, tr.Tag.Timestamp)))
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// EmitResolve writes resolution results.
func (e *Emitter) EmitResolve(results []resolve.FileResolution) error {
	if e.format == FormatYAML {
		docs := make([]fileDoc, 0, len(results))
		for _, fr := range results {
			doc := fileDoc{File: fr.Filename, Error: errString(fr.Err)}
			for _, r := range fr.Tags {
				td := newTagDoc(r.Tag, r.Err)
				if r.Fixed != nil {
					td.Resolved = r.Fixed.Raw
					td.Hash = r.Fixed.Hash
					td.Drift = string(r.Drift)
				}
				doc.Tags = append(doc.Tags, td)
			}
			docs = append(docs, doc)
		}
		return e.emitYAML(docs)
	}

	for _, fr := range results {
		if fr.Err != nil {
			if err := e.printf("%s: ERROR %s\n", e.styles.fileErr(fr.Filename), e.styles.errText(fr.Err.Error())); err != nil {
				return err
			}
			continue
		}
		if err := e.printf("%s:\n", e.styles.fileOK(fr.Filename)); err != nil {
			return err
		}
		for _, r := range fr.Tags {
			var err error
			if r.Err != nil {
				err = e.printf("  ERROR: %s\n", e.styles.errText(r.Err.Error()))
			} else {
				err = e.printf("  %s %s -> %s %s %s\n",
					r.Tag.Identifier,
					r.Tag.RawConstraint,
					e.styles.version(r.Fixed.Raw),
					r.Fixed.Hash,
					e.styles.dim(fmt.Sprintf("[%s, declared %s]", r.Drift, r.Tag.Current.Original())))
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Emitter) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(e.w, format, args...)
	return err
}

func (e *Emitter) emitYAML(docs []fileDoc) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

type fileDoc struct {
	File  string   `yaml:"file"`
	Error string   `yaml:"error,omitempty"`
	Tags  []tagDoc `yaml:"tags,omitempty"`
}

type tagDoc struct {
	Identifier string `yaml:"identifier,omitempty"`
	Constraint string `yaml:"constraint,omitempty"`
	Source     string `yaml:"source,omitempty"`
	Current    string `yaml:"current,omitempty"`
	Timestamp  string `yaml:"timestamp,omitempty"`
	Span       []int  `yaml:"span,flow,omitempty"`
	Resolved   string `yaml:"resolved,omitempty"`
	Hash       string `yaml:"hash,omitempty"`
	Drift      string `yaml:"drift,omitempty"`
	Error      string `yaml:"error,omitempty"`
}

func newTagDoc(tag *syntax.Tag, err error) tagDoc {
	if tag == nil {
		return tagDoc{Error: errString(err)}
	}
	return tagDoc{
		Identifier: tag.Identifier,
		Constraint: tag.RawConstraint,
		Source:     tag.RawSource,
		Current:    tag.Current.Original(),
		Timestamp:  tag.Timestamp,
		Span:       []int{tag.Start, tag.End},
		Error:      errString(err),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
