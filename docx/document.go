package docx

import (
	"encoding/xml"
	"strings"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body.
// Paragraphs and Tables are collected separately by xml.Unmarshal, each in
// document order. Only direct children of <w:body> are collected, so
// paragraphs inside table cells or content controls are not body blocks.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// paragraphXML represents a paragraph element (<w:p>). Its text is the
// concatenation of its direct runs and hyperlink runs, in document order.
// Runs inside tracked insertions, smart tags, simple fields and custom XML
// are not part of it, matching python-docx.
type paragraphXML struct {
	Text string
}

// UnmarshalXML walks the paragraph's children in order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	if err := decodeRunContainer(d, &sb); err != nil {
		return err
	}
	p.Text = sb.String()
	return nil
}

// decodeRunContainer consumes tokens up to the end of the current element,
// appending the text of every run it finds to sb.
func decodeRunContainer(d *xml.Decoder, sb *strings.Builder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				var run runXML
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				sb.WriteString(run.text())
			case "hyperlink":
				if err := decodeRunContainer(d, sb); err != nil {
					return err
				}
			default:
				// Properties, revisions, fields, bookmarks and comments.
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// runXML represents a text run (<w:r>). Children are kept in order so
// that tabs and breaks land where Word renders them.
type runXML struct {
	XMLName  xml.Name      `xml:"r"`
	Children []runChildXML `xml:",any"`
}

// runChildXML is any child of a run: text, tab, break, symbol, ...
type runChildXML struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Value   string `xml:",chardata"`
}

// text renders the run the way Word's plain-text view does.
func (r runXML) text() string {
	var sb strings.Builder
	for _, c := range r.Children {
		switch c.XMLName.Local {
		case "t":
			sb.WriteString(c.Value)
		case "tab", "ptab":
			sb.WriteString("\t")
		case "br":
			// Page and column breaks render as nothing.
			if c.Type == "" || c.Type == "textWrapping" {
				sb.WriteString("\n")
			}
		case "cr":
			sb.WriteString("\n")
		case "noBreakHyphen":
			sb.WriteString("-")
		}
	}
	return sb.String()
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName xml.Name      `xml:"tbl"`
	Rows    []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	XMLName    xml.Name       `xml:"tr"`
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	Header boolXML `xml:"tblHeader"` // Is this a header row?
}

// boolXML represents an on/off element such as <w:tblHeader/>.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// on reports whether the element is present and not switched off.
func (b boolXML) on() bool {
	if b.XMLName.Local == "" {
		return false
	}
	switch b.Val {
	case "0", "false", "off":
		return false
	}
	return true
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	XMLName    xml.Name       `xml:"tc"`
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	GridSpan gridSpanXML `xml:"gridSpan"`
	VMerge   vMergeXML   `xml:"vMerge"`
}

// gridSpanXML represents column span.
type gridSpanXML struct {
	Val string `xml:"val,attr"` // Number of columns spanned
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	XMLName xml.Name `xml:"vMerge"`
	Val     string   `xml:"val,attr"` // "restart" or empty (continue)
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	XMLName  xml.Name `xml:"coreProperties"`
	Title    string   `xml:"title"`
	Subject  string   `xml:"subject"`
	Creator  string   `xml:"creator"`
	Keywords string   `xml:"keywords"`
	Created  string   `xml:"created"`
	Modified string   `xml:"modified"`
}

// appPropertiesXML represents docProps/app.xml
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
}
