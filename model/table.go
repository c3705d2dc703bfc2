package model

import (
	"strings"
)

// Table represents a table with cells organized in rows and columns.
// Rows may have different lengths; readers do not pad short rows.
type Table struct {
	Rows [][]Cell
	// Name is the table name when the source format carries one (ODT).
	Name string
}

// GetText returns the table content with tab-separated cells and one line per row.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NewTable creates a table from plain cell text, one slice per row.
func NewTable(rows ...[]string) *Table {
	table := &Table{
		Rows: make([][]Cell, len(rows)),
	}
	for i, row := range rows {
		table.Rows[i] = make([]Cell, len(row))
		for j, text := range row {
			table.Rows[i][j] = Cell{
				Text:    text,
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the widest row
func (t *Table) ColCount() int {
	count := 0
	for _, row := range t.Rows {
		if len(row) > count {
			count = len(row)
		}
	}
	return count
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// CellText returns the trimmed text of the cell at row, col and whether
// the cell exists.
func (t *Table) CellText(row, col int) (string, bool) {
	if t == nil {
		return "", false
	}
	cell := t.GetCell(row, col)
	if cell == nil {
		return "", false
	}
	return CleanText(cell.Text), true
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	cols := t.ColCount()
	if cols == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []Cell) {
		sb.WriteString("|")
		for j := 0; j < cols; j++ {
			text := ""
			if j < len(row) {
				text = strings.ReplaceAll(row[j].Text, "\n", " ")
				text = strings.ReplaceAll(text, "|", "\\|")
			}
			sb.WriteString(" ")
			sb.WriteString(strings.TrimSpace(text))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	// Header row
	writeRow(t.Rows[0])

	// Separator
	sb.WriteString("|")
	for j := 0; j < cols; j++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	// Data rows
	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i])
	}

	return sb.String()
}

// Cell represents a table cell
type Cell struct {
	Text    string
	RowSpan int
	ColSpan int
	// IsMergedContinuation marks a grid slot covered by a merge that
	// started in an earlier row or column. Readers copy the text of the
	// merge origin into it.
	IsMergedContinuation bool
	IsHeader             bool
}
