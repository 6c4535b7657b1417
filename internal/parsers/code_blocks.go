// Package parsers implements the deterministic, I/O-free Tier A parsers:
// fenced code blocks, pipe-delimited tables, and embedded YAML/JSON
// structures.
package parsers

import (
	"regexp"
	"strings"
)

// CodeBlock is one fenced code block found in a document.
type CodeBlock struct {
	Language string
	Code     string
}

var codeFenceRe = regexp.MustCompile("(?s)```([^\n`]*)\n(.*?)```")

// ParseCodeBlocks extracts every ```lang\n...``` fenced block. Language is
// the token directly after the opening fence and may be empty; the code
// body has leading/trailing whitespace stripped. Unmatched fences are
// skipped since the regex only matches complete pairs.
func ParseCodeBlocks(content string) []CodeBlock {
	matches := codeFenceRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{
			Language: strings.TrimSpace(m[1]),
			Code:     strings.TrimSpace(m[2]),
		})
	}
	return blocks
}
