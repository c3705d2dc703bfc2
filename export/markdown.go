package export

import (
	"strings"

	"github.com/tsawler/docxrec/model"
)

// Markdown renders records as a Markdown table for previews. Newlines in
// values become spaces and pipes are escaped.
func Markdown(records []model.Record, cols Columns) string {
	var sb strings.Builder

	writeRow := func(values []string) {
		sb.WriteString("|")
		for _, v := range values {
			v = strings.ReplaceAll(v, "\r\n", " ")
			v = strings.ReplaceAll(v, "\n", " ")
			v = strings.ReplaceAll(v, "|", "\\|")
			sb.WriteString(" ")
			sb.WriteString(strings.TrimSpace(v))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	header := cols.Header()
	writeRow(header)

	sb.WriteString("|")
	for range header {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, r := range records {
		writeRow(r.Fields())
	}

	return sb.String()
}
