package docxrec

import (
	"fmt"
	"strings"

	"github.com/tsawler/docxrec/model"
	"github.com/tsawler/docxrec/pairing"
)

// WarningType classifies a Warning.
type WarningType int

const (
	// NoTables means the document has no body tables, so there is nothing
	// to extract.
	NoTables WarningType = iota
	// ShortTable means a table has fewer than two rows or no first column,
	// so one or both cell values are empty.
	ShortTable
	// MissingIdentifier means no identifier remained for a table.
	MissingIdentifier
	// UnusedIdentifiers means identifier-bearing text follows the point
	// where the last table's search stopped. The document probably has
	// more identifiers than tables.
	UnusedIdentifiers
)

// String returns a short name for the warning type.
func (t WarningType) String() string {
	switch t {
	case NoTables:
		return "no-tables"
	case ShortTable:
		return "short-table"
	case MissingIdentifier:
		return "missing-identifier"
	case UnusedIdentifiers:
		return "unused-identifiers"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal observation about an extraction. Warnings never
// change the records.
type Warning struct {
	Type WarningType
	// Table is the zero-based table index, or -1 for document-level
	// warnings.
	Table   int
	Message string
}

// String returns the warning message.
func (w Warning) String() string {
	return w.Message
}

// FormatWarnings joins warning messages into one line.
func FormatWarnings(warnings []Warning) string {
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		msgs[i] = w.Message
	}
	return strings.Join(msgs, "; ")
}

// documentWarnings reports what the parsed document alone implies: no
// tables at all, or tables too short to fill both cell values.
func documentWarnings(doc *model.Document) []Warning {
	if len(doc.Tables) == 0 {
		return []Warning{noTablesWarning()}
	}

	var warnings []Warning
	for i, t := range doc.Tables {
		if w, ok := shortTableWarning(i, t); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// collectWarnings inspects a finished pairing.
func collectWarnings(doc *model.Document, matches []pairing.Match, digits int) []Warning {
	if len(doc.Tables) == 0 {
		return []Warning{noTablesWarning()}
	}

	var warnings []Warning
	for i, m := range matches {
		if w, ok := shortTableWarning(i, doc.Tables[i]); ok {
			warnings = append(warnings, w)
		}
		if !m.Matched() {
			warnings = append(warnings, Warning{
				Type:    MissingIdentifier,
				Table:   i,
				Message: fmt.Sprintf("table %d has no identifier", i+1),
			})
		}
	}

	if n := unusedIdentifiers(doc.Blocks, matches[len(matches)-1].Cursor, digits); n > 0 {
		warnings = append(warnings, Warning{
			Type:    UnusedIdentifiers,
			Table:   -1,
			Message: fmt.Sprintf("%d identifier(s) after the last table were not paired", n),
		})
	}

	return warnings
}

func noTablesWarning() Warning {
	return Warning{
		Type:    NoTables,
		Table:   -1,
		Message: "document contains no tables",
	}
}

// shortTableWarning reports table i when it lacks a first-column cell in
// row 0 or row 1.
func shortTableWarning(i int, t *model.Table) (Warning, bool) {
	_, hasFirst := t.CellText(0, 0)
	_, hasSecond := t.CellText(1, 0)
	if hasFirst && hasSecond {
		return Warning{}, false
	}
	return Warning{
		Type:    ShortTable,
		Table:   i,
		Message: fmt.Sprintf("table %d has %d row(s) with a first column; missing values are empty", i+1, firstColumnRows(t)),
	}, true
}

// firstColumnRows counts the leading rows 0 and 1 that have a column 0.
func firstColumnRows(t *model.Table) int {
	n := 0
	for row := 0; row < 2; row++ {
		if _, ok := t.CellText(row, 0); ok {
			n++
		}
	}
	return n
}

// unusedIdentifiers counts non-blank blocks at or after candidate position
// cursor that contain an identifier.
func unusedIdentifiers(blocks []model.TextBlock, cursor, digits int) int {
	n, pos := 0, 0
	for _, b := range blocks {
		if b.IsBlank() {
			continue
		}
		if pos >= cursor {
			if _, ok := pairing.FindIdentifier(model.CleanText(b.Content), digits); ok {
				n++
			}
		}
		pos++
	}
	return n
}
