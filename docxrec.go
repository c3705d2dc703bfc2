// Package docxrec provides a fluent API for pairing identifiers with the
// tables that follow them in word-processing documents.
//
// Basic usage:
//
//	records, warnings, err := docxrec.Open("orders.docx").Records()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docxrec.FormatWarnings(warnings))
//	}
//
// With options:
//
//	records, _, err := docxrec.FromBytes(upload).
//	    Name("upload.docx").
//	    Digits(6).
//	    Records()
//
// For lower-level access, the docx, odt and pairing packages are also
// available.
package docxrec

import (
	"errors"

	"github.com/tsawler/docxrec/model"
)

// ErrUnparseable is wrapped by every error returned when the input is not
// a readable DOCX or ODT document. Callers use it to tell a fatal input
// failure apart from a successful extraction that found nothing.
var ErrUnparseable = errors.New("document could not be parsed")

// Open returns an Extractor that reads the named file. The format is
// detected from the file content, not its extension.
//
// Example:
//
//	records, warnings, err := docxrec.Open("orders.docx").Records()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor over an in-memory document, such as an
// HTTP upload. The slice must not be modified while the Extractor is in
// use.
//
// Example:
//
//	records, _, err := docxrec.FromBytes(data).Records()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		inMem:   true,
		options: defaultOptions(),
	}
}

// FromDocument returns an Extractor over an already-parsed document. This
// is useful when blocks and tables come from a parser outside this module.
//
// Example:
//
//	doc := model.NewDocument()
//	doc.AddBlock("Order 54321")
//	doc.AddTable(model.NewTable([]string{"Alpha"}, []string{"Beta"}))
//	records, _, _ := docxrec.FromDocument(doc).Records()
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := docxrec.Must(docxrec.Open("orders.docx").Extract())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRecords is a helper that wraps a call to Records() or Markdown() and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	records := docxrec.MustRecords(docxrec.Open("orders.docx").Records())
func MustRecords[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
