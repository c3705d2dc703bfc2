// Package export serializes extracted records for people and programs.
//
// Every writer emits the same three columns, in the order identifier,
// first cell value, second cell value, under caller-chosen labels. Labels
// are display text only and have no effect on extraction.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/docxrec/model"
)

// Columns holds the display labels of the three output columns.
type Columns struct {
	Identifier string `json:"identifier" yaml:"identifier" mapstructure:"identifier"`
	First      string `json:"first" yaml:"first" mapstructure:"first"`
	Second     string `json:"second" yaml:"second" mapstructure:"second"`
}

// DefaultColumns returns the labels used when none are configured.
func DefaultColumns() Columns {
	return Columns{
		Identifier: "A열",
		First:      "B열",
		Second:     "C열",
	}
}

// withDefaults fills empty labels from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Identifier == "" {
		c.Identifier = d.Identifier
	}
	if c.First == "" {
		c.First = d.First
	}
	if c.Second == "" {
		c.Second = d.Second
	}
	return c
}

// Header returns the labels in column order.
func (c Columns) Header() []string {
	c = c.withDefaults()
	return []string{c.Identifier, c.First, c.Second}
}

// Format names a serialization supported by Write.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".csv"
	}
}

// Write serializes records to w in the given format.
func Write(w io.Writer, f Format, records []model.Record, cols Columns) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, records, cols)
	case FormatJSON:
		return WriteJSON(w, records, cols)
	case FormatYAML:
		return WriteYAML(w, records, cols)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(records, cols))
		return err
	case FormatHTML:
		return WriteHTML(w, records, cols)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// jsonDocument is the JSON envelope: the labels once, then the records
// under stable field names.
type jsonDocument struct {
	Columns []string       `json:"columns"`
	Records []model.Record `json:"records"`
}

// WriteJSON writes the column labels and the records as one JSON object.
func WriteJSON(w io.Writer, records []model.Record, cols Columns) error {
	doc := jsonDocument{
		Columns: cols.Header(),
		Records: records,
	}
	if doc.Records == nil {
		doc.Records = []model.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML writes records as a YAML sequence of mappings keyed by column
// label, keeping the columns in order.
func WriteYAML(w io.Writer, records []model.Record, cols Columns) error {
	header := cols.Header()

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, v := range r.Fields() {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: header[i]},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
