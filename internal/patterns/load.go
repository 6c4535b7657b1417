package patterns

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFromFile builds a Matcher from a YAML document mapping entity_type
// to its list of literal patterns, e.g.:
//
//	service:
//	  - Acme
//	  - widgets team
//
// Registration order is made deterministic by sorting entity types
// alphabetically before calling AddPatterns, so two processes loading the
// same file always produce the same tie-breaking behaviour.
func LoadFromFile(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patterns: failed to read %s: %w", path, err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("patterns: failed to parse %s: %w", path, err)
	}

	entityTypes := make([]string, 0, len(raw))
	for t := range raw {
		entityTypes = append(entityTypes, t)
	}
	sort.Strings(entityTypes)

	m := New()
	for _, t := range entityTypes {
		m.AddPatterns(t, raw[t]...)
	}
	return m, nil
}
