package graph

import "github.com/kgraph/extractor-core/internal/schema"

const isoLayout = "2006-01-02T15:04:05.999999999Z07:00"

// temporalParams returns the three temporal fields every write_* method
// mixes into its row map, serialising datetimes as ISO-8601 strings per
// §4.6 (source_timestamp is nil when absent).
func temporalParams(t schema.Temporal) map[string]any {
	var source any
	if t.SourceTimestamp != nil {
		source = t.SourceTimestamp.UTC().Format(isoLayout)
	}
	return map[string]any{
		"created_at":       t.CreatedAt.UTC().Format(isoLayout),
		"updated_at":       t.UpdatedAt.UTC().Format(isoLayout),
		"source_timestamp": source,
	}
}

// provenanceParams returns the four provenance fields every write_*
// method mixes into its row map.
func provenanceParams(p schema.Provenance) map[string]any {
	return map[string]any{
		"extraction_tier":   string(p.ExtractionTier),
		"extraction_method": p.ExtractionMethod,
		"confidence":        p.Confidence,
		"extractor_version": p.ExtractorVersion,
	}
}

func merge(dst map[string]any, srcs ...map[string]any) map[string]any {
	for _, src := range srcs {
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}
