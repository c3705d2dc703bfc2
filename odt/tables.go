package odt

import (
	"strings"

	"github.com/tsawler/docxrec/model"
)

// TableParser converts <table:table> markup into grid-aligned model tables.
type TableParser struct{}

// NewTableParser creates a new table parser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// ParseTable parses a table XML element into a model.Table.
//
// ODF writes a covered cell into every grid slot hidden by a span, so rows
// are already grid-aligned. Each covered slot takes the text of the cell
// whose span hides it.
func (tp *TableParser) ParseTable(tbl tableXML) *model.Table {
	table := &model.Table{
		Name: tbl.Name,
		Rows: make([][]model.Cell, 0, len(tbl.Rows)),
	}

	for _, row := range tbl.Rows {
		cells := tp.parseRow(row)
		for i := atoiDefault(row.Repeated, 1); i > 0 && len(table.Rows) < maxRepeat; i-- {
			table.Rows = append(table.Rows, append([]model.Cell(nil), cells...))
		}
	}

	tp.resolveSpans(table)

	return table
}

// parseRow parses a table row, expanding repeated cells.
func (tp *TableParser) parseRow(row tableRowXML) []model.Cell {
	cells := make([]model.Cell, 0, len(row.Cells))
	for _, tc := range row.Cells {
		cell := tp.parseCell(tc)
		cell.IsHeader = row.Header
		for i := tc.Repeated; i > 0 && len(cells) < maxRepeat; i-- {
			cells = append(cells, cell)
		}
	}
	return cells
}

// parseCell parses a table cell.
func (tp *TableParser) parseCell(tc tableCellXML) model.Cell {
	if tc.covered() {
		return model.Cell{
			RowSpan:              1,
			ColSpan:              1,
			IsMergedContinuation: true,
		}
	}

	parts := make([]string, 0, len(tc.Paragraphs))
	for _, p := range tc.Paragraphs {
		parts = append(parts, p.Text)
	}

	return model.Cell{
		Text:    strings.Join(parts, "\n"),
		RowSpan: max(tc.RowSpan, 1),
		ColSpan: max(tc.ColSpan, 1),
	}
}

// resolveSpans copies each spanning cell's text into the covered slots
// of its span. A span stops at the table edge or at the first slot that
// is not covered, whatever count the cell declares.
func (tp *TableParser) resolveSpans(table *model.Table) {
	for r, row := range table.Rows {
		for c, cell := range row {
			if cell.IsMergedContinuation || (cell.RowSpan == 1 && cell.ColSpan == 1) {
				continue
			}
			for dr := 0; dr < cell.RowSpan; dr++ {
				if dr > 0 {
					slot := table.GetCell(r+dr, c)
					if slot == nil || !slot.IsMergedContinuation {
						break
					}
					slot.Text = cell.Text
				}
				for dc := 1; dc < cell.ColSpan; dc++ {
					slot := table.GetCell(r+dr, c+dc)
					if slot == nil || !slot.IsMergedContinuation {
						break
					}
					slot.Text = cell.Text
				}
			}
		}
	}
}
