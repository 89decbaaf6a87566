package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for catalog files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Entry is one key = value line of a section.
type Entry struct {
	Key   string
	Value string
}

// Section is a named group of entries in file order.
type Section struct {
	Name    string
	Entries []Entry
}

// Catalog is a parsed catalog file. The unnamed default section is
// stored under "" and only exists when the file has keys outside any section.
type Catalog struct {
	sections map[string]*Section
	order    []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{sections: make(map[string]*Section)}
}

// Add appends an entry to the named section, creating it if needed.
func (c *Catalog) Add(section, key, value string) {
	sec := c.ensure(section)
	sec.Entries = append(sec.Entries, Entry{Key: key, Value: value})
}

func (c *Catalog) ensure(name string) *Section {
	sec, ok := c.sections[name]
	if !ok {
		sec = &Section{Name: name}
		c.sections[name] = sec
		c.order = append(c.order, name)
	}
	return sec
}

// Section looks up a section by name.
func (c *Catalog) Section(name string) (*Section, bool) {
	sec, ok := c.sections[name]
	return sec, ok
}

// Sections returns the section names in file order.
func (c *Catalog) Sections() []string {
	return append([]string(nil), c.order...)
}

// Supported reports whether Load knows the format of path.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a catalog, choosing the parser by file extension.
func Load(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return LoadINI(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadINI reads an INI catalog: [identifier] headers followed by
// version = hash lines.
func LoadINI(path string) (*Catalog, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		KeyValueDelimiters:  "=",
	}, path)
	if err != nil {
		return nil, fmt.Errorf("parsing ini: %w", err)
	}

	cat := New()
	for _, sec := range f.Sections() {
		name := sec.Name()
		if name == ini.DefaultSection {
			// ini always has a DEFAULT section; it only counts when it holds keys.
			if len(sec.Keys()) == 0 {
				continue
			}
			name = ""
		}
		s := cat.ensure(name)
		for _, key := range sec.Keys() {
			s.Entries = append(s.Entries, Entry{Key: key.Name(), Value: key.Value()})
		}
	}
	return cat, nil
}

// LoadYAML reads a YAML catalog. Top-level mappings are sections; top-level
// scalars belong to the default section.
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading yaml: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	cat := New()
	if len(doc.Content) == 0 {
		return cat, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing yaml: line %d: top level must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			cat.Add("", key.Value, val.Value)
		case yaml.MappingNode:
			sec := cat.ensure(key.Value)
			for j := 0; j+1 < len(val.Content); j += 2 {
				k, v := val.Content[j], val.Content[j+1]
				if v.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("parsing yaml: line %d: value of %s.%s must be a scalar", v.Line, key.Value, k.Value)
				}
				sec.Entries = append(sec.Entries, Entry{Key: k.Value, Value: v.Value})
			}
		default:
			return nil, fmt.Errorf("parsing yaml: line %d: section %s must be a mapping", val.Line, key.Value)
		}
	}
	return cat, nil
}
