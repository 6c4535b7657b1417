// Package patterns implements a multi-pattern, case-insensitive, longest-
// match text scanner over a known vocabulary grouped by entity type,
// grounded on original_source/packages/extraction/tier_a/patterns.py's
// EntityPatternMatcher but tightened to the stricter longest-enclosing-
// span suppression rule this module requires.
package patterns

import (
	"sort"
	"strings"
)

// Match is one located occurrence of a registered pattern.
type Match struct {
	EntityType string `json:"entity_type"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// Matcher is a process-wide, immutable-after-construction pattern store.
// add_patterns is a setup-time operation; find_matches never mutates it.
type Matcher struct {
	entityOrder []string
	patterns    map[string][]string
}

func New() *Matcher {
	return &Matcher{patterns: make(map[string][]string)}
}

// AddPatterns registers literal needles for an entity_type. Patterns are
// matched case-insensitively; registration order only affects tie-
// breaking between equal-length matches sharing a start.
func (m *Matcher) AddPatterns(entityType string, pattern ...string) {
	if _, ok := m.patterns[entityType]; !ok {
		m.entityOrder = append(m.entityOrder, entityType)
	}
	m.patterns[entityType] = append(m.patterns[entityType], pattern...)
}

// FindMatches locates every occurrence of the registered vocabulary in
// text, per the matching rules: case-insensitive, longest-match-at-a-
// given-start wins, longest-enclosing-span suppresses nested matches
// (partially overlapping matches are all kept), output sorted by
// ascending start.
func (m *Matcher) FindMatches(text string) []Match {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)

	type candidate struct {
		entityType string
		start, end int
	}

	var all []candidate
	for _, entityType := range m.entityOrder {
		for _, p := range m.patterns[entityType] {
			if p == "" {
				continue
			}
			needle := strings.ToLower(p)
			for offset := 0; ; {
				idx := strings.Index(lower[offset:], needle)
				if idx < 0 {
					break
				}
				start := offset + idx
				end := start + len(needle)
				all = append(all, candidate{entityType: entityType, start: start, end: end})
				offset = start + 1
			}
		}
	}

	// Longest match wins at a shared start: keep only the max-length
	// candidate per start index.
	bestAtStart := make(map[int]candidate)
	for _, c := range all {
		cur, ok := bestAtStart[c.start]
		if !ok || (c.end-c.start) > (cur.end-cur.start) {
			bestAtStart[c.start] = c
		}
	}

	candidates := make([]candidate, 0, len(bestAtStart))
	for _, c := range bestAtStart {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return (candidates[i].end - candidates[i].start) > (candidates[j].end - candidates[j].start)
	})

	var accepted []candidate
	var result []Match
	for _, c := range candidates {
		nested := false
		for _, acc := range accepted {
			if c.start >= acc.start && c.end <= acc.end {
				nested = true
				break
			}
		}
		if nested {
			continue
		}
		accepted = append(accepted, c)
		result = append(result, Match{
			EntityType: c.entityType,
			Text:       text[c.start:c.end],
			Start:      c.start,
			End:        c.end,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Start < result[j].Start })
	return result
}
