package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tsawler/docxrec/model"
)

// WriteCSV writes a header row and one row per record as comma-separated
// UTF-8 prefixed with a byte-order mark, which spreadsheet tools need to
// detect the encoding of non-ASCII text.
func WriteCSV(w io.Writer, records []model.Record, cols Columns) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(tw)
	if err := cw.Write(cols.Header()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
