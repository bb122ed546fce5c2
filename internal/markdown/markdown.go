// Package markdown renders the narrow markdown subset produced by the
// monthly summary: ATX headers, pipe tables, and plain paragraphs. Anything
// else (emphasis, links, lists, code) is deliberately out of scope and is
// rendered as paragraph text.
package markdown

import (
	"strings"
)

// ToHTML converts a markdown document to HTML. All cell and paragraph text
// is escaped, so sheet content cannot inject markup.
func ToHTML(src string) string {
	lines := strings.Split(src, "\n")

	var b strings.Builder
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
			i++
		case strings.HasPrefix(line, "#"):
			b.WriteString(renderHeader(line))
			i++
		case isTableRow(line):
			i = renderTable(&b, lines, i)
		default:
			b.WriteString("<p>" + escape(line) + "</p>\n")
			i++
		}
	}

	return b.String()
}

func renderHeader(line string) string {
	level := 0
	for level < len(line) && line[level] == '#' && level < 6 {
		level++
	}
	text := strings.TrimSpace(line[level:])
	tag := "h" + string(rune('0'+level))
	return "<" + tag + ">" + escape(text) + "</" + tag + ">\n"
}

func isTableRow(line string) bool {
	return strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") && strings.Count(line, "|") >= 2
}

// isSeparatorRow matches the |---|---| row between a table header and body.
func isSeparatorRow(line string) bool {
	for _, cell := range splitCells(line) {
		trimmed := strings.Trim(cell, ":- ")
		if trimmed != "" || !strings.Contains(cell, "-") {
			return false
		}
	}
	return true
}

func renderTable(b *strings.Builder, lines []string, start int) int {
	rows := make([][]string, 0)
	headerSeen := false
	i := start
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !isTableRow(line) {
			break
		}
		if isSeparatorRow(line) {
			headerSeen = len(rows) > 0
			i++
			continue
		}
		rows = append(rows, splitCells(line))
		i++
	}

	if len(rows) == 0 {
		return i
	}

	b.WriteString("<table>\n")
	for idx, cells := range rows {
		tag := "td"
		if headerSeen && idx == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range cells {
			b.WriteString("<" + tag + ">" + escape(cell) + "</" + tag + ">")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")

	return i
}

func splitCells(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
