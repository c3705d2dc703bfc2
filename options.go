package docxrec

import "github.com/tsawler/docxrec/export"

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	// Identifier width; 0 selects the pairing default.
	digits int

	// Display labels for Markdown previews.
	columns export.Columns

	// Source name reported in warnings and errors.
	name string
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		digits:  0,
		columns: export.DefaultColumns(),
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		digits:  o.digits,
		columns: o.columns,
		name:    o.name,
	}
}
