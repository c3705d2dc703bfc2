package docx

import (
	"strconv"
	"strings"

	"github.com/tsawler/docxrec/model"
)

const (
	// maxGridSpan bounds the columns a single cell may span.
	maxGridSpan = 1024

	// maxSpanCells bounds the grid slots one parser fills by repeating
	// spanning cells, across every table it parses.
	maxSpanCells = 1 << 20
)

// TableParser converts <w:tbl> markup into grid-aligned model tables.
type TableParser struct {
	spanCells int
}

// NewTableParser creates a new table parser.
func NewTableParser() *TableParser {
	return &TableParser{}
}

// ParseTable parses a table XML element into a model.Table.
//
// A cell spanning n grid columns (gridSpan) is repeated in each of those
// columns, and a vertical-merge continuation takes the text of the cell
// that started the merge, so every grid slot reads the text Word displays
// there.
func (tp *TableParser) ParseTable(tbl tableXML) *model.Table {
	table := &model.Table{
		Rows: make([][]model.Cell, 0, len(tbl.Rows)),
	}

	for _, row := range tbl.Rows {
		table.Rows = append(table.Rows, tp.parseRow(row))
	}

	tp.processVerticalMerges(table, tbl)

	return table
}

// parseRow parses a table row, expanding column spans onto the grid.
func (tp *TableParser) parseRow(row tableRowXML) []model.Cell {
	isHeader := row.Properties.Header.on()
	cells := make([]model.Cell, 0, len(row.Cells))

	for _, tc := range row.Cells {
		cell := tp.parseCell(tc)
		cell.IsHeader = isHeader
		cells = append(cells, cell)

		for i := 1; i < cell.ColSpan && tp.spanCells < maxSpanCells; i++ {
			covered := cell
			covered.IsMergedContinuation = true
			cells = append(cells, covered)
			tp.spanCells++
		}
	}

	return cells
}

// parseCell parses a table cell.
func (tp *TableParser) parseCell(tc tableCellXML) model.Cell {
	cell := model.Cell{
		ColSpan: gridSpan(tc),
		RowSpan: 1,
	}

	// An empty paragraph still contributes a line, as in Word's copy/paste.
	parts := make([]string, 0, len(tc.Paragraphs))
	for _, p := range tc.Paragraphs {
		parts = append(parts, p.Text)
	}
	cell.Text = strings.Join(parts, "\n")

	return cell
}

// processVerticalMerges resolves vMerge continuations. A continuation cell
// takes the text of the nearest cell above it in the same grid column that
// is not itself a continuation, and increments that cell's RowSpan.
func (tp *TableParser) processVerticalMerges(table *model.Table, tbl tableXML) {
	// origins[c] is the row of the current merge origin in grid column c,
	// or -1 when the column has none.
	var origins []int

	for rowIdx, row := range tbl.Rows {
		width := len(table.Rows[rowIdx])
		for len(origins) < width {
			origins = append(origins, -1)
		}
		// A row too short to reach a column breaks any merge through it.
		for c := width; c < len(origins); c++ {
			origins[c] = -1
		}

		gridCol := 0
		for _, tc := range row.Cells {
			if gridCol >= width {
				break
			}
			span := gridSpan(tc)

			resolved := false
			if isVMergeContinuation(tc.Properties.VMerge) {
				if o := origins[gridCol]; o >= 0 {
					origin := &table.Rows[o][gridCol]
					origin.RowSpan++
					for c := gridCol; c < gridCol+span && c < width; c++ {
						table.Rows[rowIdx][c].Text = origin.Text
						table.Rows[rowIdx][c].IsMergedContinuation = true
					}
					resolved = true
				}
			}

			if !resolved {
				for c := gridCol; c < gridCol+span && c < width; c++ {
					origins[c] = rowIdx
				}
			}

			gridCol += span
		}
	}
}

// gridSpan returns the number of grid columns tc occupies.
func gridSpan(tc tableCellXML) int {
	span, err := strconv.Atoi(tc.Properties.GridSpan.Val)
	if err != nil || span < 1 {
		return 1
	}
	return min(span, maxGridSpan)
}

// isVMergeContinuation reports whether a vMerge element continues a merge.
// An empty val means continue; "restart" begins a new merge.
func isVMergeContinuation(v vMergeXML) bool {
	return v.XMLName.Local == "vMerge" && v.Val != "restart"
}
