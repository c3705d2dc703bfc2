package pairing

import (
	"github.com/tsawler/docxrec/model"
)

// Options configures an Extractor.
type Options struct {
	// Digits is the exact length of an identifier. Zero or negative
	// selects DefaultDigits.
	Digits int
}

// Match records how one table was paired. It is diagnostic output; the
// records themselves do not depend on it.
type Match struct {
	// Table is the index of the table in the input sequence.
	Table int
	// Block is the TextBlock.Index of the block that supplied the
	// identifier, or -1 when none was found.
	Block int
	// Candidate is the position of that block among the non-blank
	// candidates, or -1 when none was found.
	Candidate int
	// Cursor is the candidate position after this table's search.
	Cursor int
	// Rows is the number of rows in the table.
	Rows int
}

// Matched reports whether the table received an identifier.
func (m Match) Matched() bool {
	return m.Candidate >= 0
}

// Extractor pairs identifiers with tables. The zero value uses the
// default identifier width. An Extractor holds no state between calls and
// is safe for concurrent use.
type Extractor struct {
	digits int
}

// New creates an Extractor with the given options.
func New(opts Options) *Extractor {
	digits := opts.Digits
	if digits <= 0 {
		digits = DefaultDigits
	}
	return &Extractor{digits: digits}
}

// Digits returns the identifier width the extractor matches.
func (e *Extractor) Digits() int {
	if e == nil || e.digits <= 0 {
		return DefaultDigits
	}
	return e.digits
}

// Extract pairs blocks with tables using the default options.
func Extract(blocks []model.TextBlock, tables []*model.Table) []model.Record {
	records, _ := New(Options{}).Pair(blocks, tables)
	return records
}

// Extract returns one record per table, in table order.
func (e *Extractor) Extract(blocks []model.TextBlock, tables []*model.Table) []model.Record {
	records, _ := e.Pair(blocks, tables)
	return records
}

// Pair returns one record per table, in table order, together with a
// Match per table describing where each identifier came from.
//
// Blank blocks are dropped before pairing. For each table the cursor moves
// forward through the remaining candidates until one contains an
// identifier, and stops just past it; if none does, the cursor reaches the
// end and every later table gets an empty identifier. Cell values are the
// trimmed first-column text of rows 0 and 1, or "" when the cell does not
// exist. Pair never fails.
func (e *Extractor) Pair(blocks []model.TextBlock, tables []*model.Table) ([]model.Record, []Match) {
	digits := e.Digits()

	candidates := make([]model.TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if !b.IsBlank() {
			candidates = append(candidates, b)
		}
	}

	records := make([]model.Record, 0, len(tables))
	matches := make([]Match, 0, len(tables))

	pos := 0
	for i, t := range tables {
		m := Match{Table: i, Block: -1, Candidate: -1}

		var id string
		id, pos, m.Candidate = nextIdentifier(candidates, pos, digits)
		if m.Matched() {
			m.Block = candidates[m.Candidate].Index
		}
		m.Cursor = pos
		if t != nil {
			m.Rows = t.RowCount()
		}

		first, _ := t.CellText(0, 0)
		second, _ := t.CellText(1, 0)

		records = append(records, model.Record{
			Identifier:      id,
			FirstCellValue:  first,
			SecondCellValue: second,
		})
		matches = append(matches, m)
	}

	return records, matches
}

// nextIdentifier scans candidates from pos and returns the first
// identifier found, the cursor position after the scan, and the index of
// the matching candidate (-1 when the candidates ran out).
func nextIdentifier(candidates []model.TextBlock, pos, digits int) (string, int, int) {
	for pos < len(candidates) {
		c := pos
		pos++
		if id, ok := FindIdentifier(model.CleanText(candidates[c].Content), digits); ok {
			return id, pos, c
		}
	}
	return "", pos, -1
}
