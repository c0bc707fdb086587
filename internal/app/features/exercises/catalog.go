package exercises

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Exercise is one library entry.
type Exercise struct {
	Name  string `yaml:"name"`
	Desc  string `yaml:"desc"`
	Video string `yaml:"video"`
}

// Group is a muscle group and its exercises.
type Group struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Exercises   []Exercise `yaml:"exercises"`
}

// Catalog is the parsed exercise library, in file order.
type Catalog struct {
	Groups []Group `yaml:"groups"`
}

// ParseCatalog decodes and checks a catalogue document. Group names must be
// unique (case-insensitive) and every group needs at least one exercise.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse exercise catalog: %w", err)
	}
	if len(c.Groups) == 0 {
		return Catalog{}, errors.New("exercise catalog has no groups")
	}
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		key := strings.ToLower(strings.TrimSpace(g.Name))
		if key == "" {
			return Catalog{}, errors.New("exercise catalog: group without a name")
		}
		if seen[key] {
			return Catalog{}, fmt.Errorf("exercise catalog: duplicate group %q", g.Name)
		}
		seen[key] = true
		if len(g.Exercises) == 0 {
			return Catalog{}, fmt.Errorf("exercise catalog: group %q has no exercises", g.Name)
		}
	}
	return c, nil
}

// MustLoadCatalog parses the embedded catalogue and panics if it is invalid.
func MustLoadCatalog() Catalog {
	c, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Names lists the group names in order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = g.Name
	}
	return out
}

// Group returns the named group (case-insensitive), or the first group when
// name is empty or unknown.
func (c Catalog) Group(name string) Group {
	for _, g := range c.Groups {
		if strings.EqualFold(g.Name, strings.TrimSpace(name)) {
			return g
		}
	}
	return c.Groups[0]
}
