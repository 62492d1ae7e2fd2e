// Package csvrow maps flat CSV rows to nested records and back, using one
// declared column list per entity for both directions.
package csvrow

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column kinds.
const (
	KindString = "string"
	KindInt    = "int"
	KindFloat  = "float"
	KindArray  = "array"
	KindDate   = "date"
)

const (
	// ArraySeparator joins array cells on export; import splits on ";" and trims.
	ArraySeparator = "; "
	DateLayout     = "2006-01-02"
)

type Column struct {
	Title    string `yaml:"title"`
	Path     string `yaml:"path"`
	Kind     string `yaml:"kind"`
	Required bool   `yaml:"required"`
}

type Schema struct {
	Name    string
	Columns []Column
}

// Header returns the column titles in declared order.
func (s Schema) Header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Title
	}
	return out
}

//go:embed schemas.yaml
var schemasYAML []byte

var registry = mustParse(schemasYAML)

// Lookup returns the declared schema for an entity ("jobs", "users", "applications").
func Lookup(name string) (Schema, bool) {
	s, ok := registry[name]
	return s, ok
}

func MustLookup(name string) Schema {
	s, ok := Lookup(name)
	if !ok {
		panic("csvrow: unknown schema " + name)
	}
	return s
}

// Names lists the declared schemas.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func mustParse(b []byte) map[string]Schema {
	out, err := Parse(b)
	if err != nil {
		panic(err)
	}
	return out
}

// Parse reads a YAML document of schema name -> column list.
func Parse(b []byte) (map[string]Schema, error) {
	var raw map[string][]Column
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("csvrow: parse schemas: %w", err)
	}
	out := make(map[string]Schema, len(raw))
	for name, cols := range raw {
		seen := map[string]bool{}
		for i := range cols {
			c := &cols[i]
			c.Title = strings.TrimSpace(c.Title)
			c.Path = strings.TrimSpace(c.Path)
			if c.Kind == "" {
				c.Kind = KindString
			}
			if c.Title == "" || c.Path == "" {
				return nil, fmt.Errorf("csvrow: schema %s column %d needs title and path", name, i)
			}
			switch c.Kind {
			case KindString, KindInt, KindFloat, KindArray, KindDate:
			default:
				return nil, fmt.Errorf("csvrow: schema %s column %q has unknown kind %q", name, c.Title, c.Kind)
			}
			key := strings.ToLower(c.Title)
			if seen[key] {
				return nil, fmt.Errorf("csvrow: schema %s declares %q twice", name, c.Title)
			}
			seen[key] = true
		}
		out[name] = Schema{Name: name, Columns: cols}
	}
	return out, nil
}
