package server

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docxrec"
	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/model"
)

// renderPreview writes a standalone HTML page with the warnings and the
// records table. All document text goes into text nodes.
func renderPreview(w io.Writer, name string, records []model.Record, warnings []docxrec.Warning, cols export.Columns) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	head.AppendChild(textElement(atom.Title, "Preview: "+name))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(textElement(atom.H1, name))
	body.AppendChild(textElement(atom.P, fmt.Sprintf("%d record(s)", len(records))))

	if len(warnings) > 0 {
		ul := element(atom.Ul)
		ul.Attr = []html.Attribute{{Key: "class", Val: "warnings"}}
		for _, warn := range warnings {
			ul.AppendChild(textElement(atom.Li, warn.Message))
		}
		body.AppendChild(ul)
	}

	body.AppendChild(export.Table(records, cols))
	root.AppendChild(body)

	return html.Render(w, doc)
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
