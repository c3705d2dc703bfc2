package export

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docxrec/model"
)

// WriteHTML renders records as an HTML <table> fragment. Values are text
// nodes, so markup in the source document is escaped, never interpreted.
func WriteHTML(w io.Writer, records []model.Record, cols Columns) error {
	if err := html.Render(w, Table(records, cols)); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// Table builds the node tree for an HTML table of records, for embedding
// in a larger page.
func Table(records []model.Record, cols Columns) *html.Node {
	table := element(atom.Table)

	thead := element(atom.Thead)
	thead.AppendChild(row(atom.Th, cols.Header()))
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, r := range records {
		tbody.AppendChild(row(atom.Td, r.Fields()))
	}
	table.AppendChild(tbody)

	return table
}

func row(cell atom.Atom, values []string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range values {
		c := element(cell)
		c.AppendChild(&html.Node{Type: html.TextNode, Data: v})
		tr.AppendChild(c)
	}
	return tr
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
