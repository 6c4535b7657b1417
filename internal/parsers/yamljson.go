package parsers

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Format selects which decoder ParseYAMLOrJSON uses.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseYAMLOrJSON decodes content as the given format, returning nil on
// any parse error or when the top-level value is a bare scalar (the
// caller wants object/array structures, not bare strings or numbers).
func ParseYAMLOrJSON(content string, format Format) any {
	var out any
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal([]byte(content), &out)
	case FormatYAML:
		err = yaml.Unmarshal([]byte(content), &out)
	default:
		return nil
	}
	if err != nil {
		return nil
	}

	switch out.(type) {
	case map[string]any, []any:
		return out
	default:
		return nil
	}
}
