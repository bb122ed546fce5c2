// Package extract turns raw spreadsheet rows into structured reservation
// records according to per-sheet column conventions.
package extract

import (
	"regexp"
	"strings"

	"github.com/k-j-hyun/shdocs/internal/dateparse"
)

// Field is one (label, value) pair captured from a row. Details travel as an
// explicit ordered list so rendering never depends on map iteration order.
type Field struct {
	Label string
	Value string
}

// Record holds the structured fields pulled from a single spreadsheet row.
type Record struct {
	Name        string
	RawDateTime string
	DateTime    dateparse.DateTime
	Phone       string
	Hospital    string
	Auxiliary   []Field
}

// phonePattern matches the 3-4-4 digit grouping used by Korean mobile numbers.
var phonePattern = regexp.MustCompile(`\b\d{3}-\d{4}-\d{4}\b`)

// Records extracts every event-shaped row from a sheet's raw cell data.
// Rows whose name or date/time cell is blank, or whose date/time cell does
// not parse, are skipped silently; such rows are headings, spacers, or
// free-form notes, not malformed input.
func Records(rows [][]string, rules Rules) []Record {
	rules.Normalize()

	records := make([]Record, 0, len(rows))
	hospital := ""

	for _, row := range rows {
		if heading, ok := hospitalHeading(row, rules.HospitalKeywords); ok {
			hospital = heading
		}

		record, ok := recordFromRow(row, rules)
		if !ok {
			continue
		}
		record.Hospital = hospital
		records = append(records, record)
	}

	return records
}

func recordFromRow(row []string, rules Rules) (Record, bool) {
	name := strings.TrimSpace(cellAt(row, rules.NameColumn))
	rawDateTime := strings.TrimSpace(cellAt(row, rules.DateColumn))
	if name == "" || rawDateTime == "" {
		return Record{}, false
	}

	dt, ok := dateparse.Parse(rawDateTime)
	if !ok {
		return Record{}, false
	}

	return Record{
		Name:        name,
		RawDateTime: rawDateTime,
		DateTime:    dt,
		Phone:       findPhone(row),
		Auxiliary:   auxiliaryFields(row),
	}, true
}

// hospitalHeading reports whether any cell in the row names a hospital block
// heading. The heading text then applies to every following row until the
// next heading appears.
func hospitalHeading(row []string, keywords []string) (string, bool) {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		for _, keyword := range keywords {
			if strings.Contains(cell, keyword) {
				return cell, true
			}
		}
	}
	return "", false
}

// findPhone scans the whole row for a phone-shaped value; the first match
// wins and absence is not an error.
func findPhone(row []string) string {
	for _, cell := range row {
		if match := phonePattern.FindString(cell); match != "" {
			return match
		}
	}
	return ""
}

// auxiliaryFields labels every cell with its spreadsheet column letter,
// preserving column order.
func auxiliaryFields(row []string) []Field {
	fields := make([]Field, 0, len(row))
	for i, cell := range row {
		fields = append(fields, Field{Label: ColumnLabel(i), Value: strings.TrimSpace(cell)})
	}
	return fields
}

// ColumnLabel converts a zero-based column index to its spreadsheet letter
// name (A, B, ..., Z, AA, AB, ...).
func ColumnLabel(index int) string {
	if index < 0 {
		return ""
	}
	label := ""
	for index >= 0 {
		label = string(rune('A'+index%26)) + label
		index = index/26 - 1
	}
	return label
}

func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
