package parsers

import (
	"regexp"
	"strings"
)

// Table is one pipe-delimited table found in a document.
type Table struct {
	Headers []string
	Rows    [][]string
}

var separatorRowRe = regexp.MustCompile(`^\|[\s\-|]+\|$`)

func isPipeRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) >= 2
}

func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// ParseTables scans for pipe-delimited tables: a header row, immediately
// followed by a separator row matching `^\|[\s\-|]+\|$`, followed by zero
// or more data rows.
func ParseTables(content string) []Table {
	lines := strings.Split(content, "\n")

	var tables []Table
	i := 0
	for i < len(lines) {
		if !isPipeRow(lines[i]) || i+1 >= len(lines) || !separatorRowRe.MatchString(strings.TrimSpace(lines[i+1])) {
			i++
			continue
		}

		headers := splitCells(lines[i])
		rowStart := i + 2
		j := rowStart
		var rows [][]string
		for j < len(lines) && isPipeRow(lines[j]) {
			rows = append(rows, splitCells(lines[j]))
			j++
		}

		tables = append(tables, Table{Headers: headers, Rows: rows})
		i = j
	}

	return tables
}
