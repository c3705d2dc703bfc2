package odt

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	// maxRepeat bounds every count attribute: repeats, spans and text:s.
	// LibreOffice pads tables with huge repeat counts of empty cells.
	maxRepeat = 1024

	// maxBlockBytes bounds the text one paragraph may expand to.
	maxBlockBytes = 1 << 20
)

// documentXML represents the structure of content.xml
type documentXML struct {
	XMLName xml.Name `xml:"document-content"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents <office:body>.
type bodyXML struct {
	Text *textBodyXML `xml:"text"`
}

// textBodyXML represents <office:text>. Paragraphs (including headings)
// and tables are collected into separate slices, each in document order.
// Lists and sections are transparent containers; tables inside table
// cells are not body tables.
type textBodyXML struct {
	Paragraphs []paragraphXML
	Tables     []tableXML
}

// UnmarshalXML walks the body's children in order.
func (b *textBodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return b.decodeChildren(d)
}

func (b *textBodyXML) decodeChildren(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p", "h":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Paragraphs = append(b.Paragraphs, p)
			case "table":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Tables = append(b.Tables, tbl)
			case "list", "list-item", "list-header", "section":
				if err := b.decodeChildren(d); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphXML represents <text:p> or <text:h>. Text is collected from
// mixed content, spans, links and fields in document order.
type paragraphXML struct {
	Text string
}

// UnmarshalXML walks the paragraph's inline content.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	if err := decodeInline(d, &sb); err != nil {
		return err
	}
	p.Text = sb.String()
	return nil
}

// decodeInline consumes tokens up to the end of the current element,
// appending visible text to sb.
func decodeInline(d *xml.Decoder, sb *strings.Builder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.WriteString(collapseSpace(string(t)))
		case xml.StartElement:
			switch t.Name.Local {
			case "s":
				n := attrInt(t, "c", 1)
				if sb.Len()+n > maxBlockBytes {
					return fmt.Errorf("paragraph text exceeds %d bytes", maxBlockBytes)
				}
				sb.WriteString(strings.Repeat(" ", n))
				if err := d.Skip(); err != nil {
					return err
				}
			case "tab":
				sb.WriteString("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "line-break":
				sb.WriteString("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			case "note", "annotation", "ruby-text", "tracked-changes", "deletion":
				// Footnotes, comments and deleted text are not paragraph text.
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				// span, a, meta, fields and the like
				if err := decodeInline(d, sb); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// collapseSpace applies ODF whitespace handling to character data: tabs
// and line feeds are spaces, and runs of spaces collapse to one. Intended
// repeated spaces are written as <text:s>.
func collapseSpace(s string) string {
	if !strings.ContainsAny(s, "\t\r\n  ") {
		return s
	}
	var sb strings.Builder
	prevSpace := false
	for _, r := range s {
		if r == '\t' || r == '\r' || r == '\n' {
			r = ' '
		}
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// tableXML represents <table:table>. Rows are flattened out of header-row,
// row-group and rows containers.
type tableXML struct {
	Name string
	Rows []tableRowXML
}

// UnmarshalXML walks the table's row containers in order.
func (tbl *tableXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "name" {
			tbl.Name = a.Value
		}
	}
	return tbl.decodeRows(d, false)
}

func (tbl *tableXML) decodeRows(d *xml.Decoder, header bool) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "table-row":
				var row tableRowXML
				if err := d.DecodeElement(&row, &t); err != nil {
					return err
				}
				row.Header = header
				tbl.Rows = append(tbl.Rows, row)
			case "table-header-rows":
				if err := tbl.decodeRows(d, true); err != nil {
					return err
				}
			case "table-rows", "table-row-group":
				if err := tbl.decodeRows(d, header); err != nil {
					return err
				}
			default:
				// Column definitions, titles and shapes.
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// tableRowXML represents <table:table-row>.
type tableRowXML struct {
	XMLName  xml.Name       `xml:"table-row"`
	Repeated string         `xml:"number-rows-repeated,attr"`
	Cells    []tableCellXML `xml:",any"`
	Header   bool           `xml:"-"`
}

// tableCellXML represents <table:table-cell> or <table:covered-table-cell>.
// Covered cells fill the grid slots of a neighbouring cell's span.
type tableCellXML struct {
	XMLName    xml.Name
	ColSpan    int
	RowSpan    int
	Repeated   int
	Paragraphs []paragraphXML
}

// UnmarshalXML reads the span attributes and the cell's direct paragraphs
// and headings in order. Nested tables and lists are skipped.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	c.XMLName = start.Name
	c.ColSpan = attrInt(start, "number-columns-spanned", 1)
	c.RowSpan = attrInt(start, "number-rows-spanned", 1)
	c.Repeated = attrInt(start, "number-columns-repeated", 1)

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" || t.Name.Local == "h" {
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				c.Paragraphs = append(c.Paragraphs, p)
				continue
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (c tableCellXML) covered() bool {
	return c.XMLName.Local == "covered-table-cell"
}

// metaXML represents meta.xml.
type metaXML struct {
	XMLName xml.Name     `xml:"document-meta"`
	Meta    *metaInfoXML `xml:"meta"`
}

// metaInfoXML represents the <office:meta> element.
type metaInfoXML struct {
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	InitialCreator string   `xml:"initial-creator"`
	Keywords       []string `xml:"keyword"`
	Generator      string   `xml:"generator"`
	CreationDate   string   `xml:"creation-date"`
	Date           string   `xml:"date"`
}

// atoiDefault parses a positive count attribute, falling back to def and
// clamping to maxRepeat.
func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return min(n, maxRepeat)
}

func attrInt(start xml.StartElement, local string, def int) int {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return atoiDefault(a.Value, def)
		}
	}
	return def
}
