package importer

import "strings"

// splitLines splits on \n or \r\n and drops lines that are blank after
// trimming. Lines are otherwise kept as-is so leading empty TSV cells survive.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitRow tokenizes one data row. Cells come back raw; buildLeads cleans
// each cell exactly once.
func splitRow(line string, delimiter rune) []string {
	if delimiter == '\t' {
		return strings.Split(line, "\t")
	}
	return splitQuoted(line, delimiter)
}

// splitQuoted treats a double-quoted span as part of one cell even when it
// contains the delimiter. Quote characters are dropped; "" is not unescaped.
func splitQuoted(line string, delimiter rune) []string {
	cells := make([]string, 0, 8)
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(cells, cur.String())
}

func cleanCell(cell string) string {
	return strings.TrimSpace(stripQuotes(strings.TrimSpace(cell)))
}

// stripQuotes removes one leading and one trailing double quote.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
