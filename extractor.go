package docxrec

import (
	"errors"
	"fmt"
	"os"

	"github.com/tsawler/docxrec/docx"
	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/format"
	"github.com/tsawler/docxrec/model"
	"github.com/tsawler/docxrec/odt"
	"github.com/tsawler/docxrec/pairing"
)

// Extractor provides a fluent interface for extracting records from DOCX
// and ODT files. Each configuration method returns a new Extractor
// instance, making it safe for concurrent use and allowing method
// chaining.
type Extractor struct {
	// Source (exactly one is set)
	filename string
	data     []byte
	inMem    bool
	doc      *model.Document

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// Result is everything one extraction produces.
type Result struct {
	// Document is the parsed input.
	Document *model.Document
	// Format is the detected container format; Unknown for FromDocument.
	Format format.Format
	// Records holds one record per table, in table order.
	Records []model.Record
	// Matches describes how each table was paired, index-aligned with
	// Records.
	Matches []pairing.Match
	// Warnings are non-fatal observations about the pairing.
	Warnings []Warning
}

// clone creates a copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		data:     e.data,
		inMem:    e.inMem,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Digits sets the exact identifier length. The default is 5.
//
// Example:
//
//	records, _, err := docxrec.Open("doc.docx").Digits(6).Records()
func (e *Extractor) Digits(n int) *Extractor {
	newExt := e.clone()
	if n < 0 && newExt.err == nil {
		newExt.err = fmt.Errorf("identifier length must not be negative: %d", n)
	}
	newExt.options.digits = n
	return newExt
}

// Labels sets the column labels used by Markdown.
//
// Example:
//
//	md, _, err := docxrec.Open("doc.docx").
//	    Labels(export.Columns{Identifier: "ID"}).
//	    Markdown()
func (e *Extractor) Labels(cols export.Columns) *Extractor {
	newExt := e.clone()
	newExt.options.columns = cols
	return newExt
}

// Name sets the source name used in error messages. Open uses the file
// name by default.
func (e *Extractor) Name(name string) *Extractor {
	newExt := e.clone()
	newExt.options.name = name
	return newExt
}

// sourceName returns the name used to describe the input.
func (e *Extractor) sourceName() string {
	switch {
	case e.options.name != "":
		return e.options.name
	case e.filename != "":
		return e.filename
	case e.doc != nil:
		return "document"
	default:
		return "upload"
	}
}

// load parses the source into a document. Parse failures wrap
// ErrUnparseable.
func (e *Extractor) load() (*model.Document, format.Format, error) {
	switch {
	case e.doc != nil:
		return e.doc, format.Unknown, nil
	case e.inMem:
		return e.parse(e.data)
	case e.filename != "":
		data, err := os.ReadFile(e.filename)
		if err != nil {
			return nil, format.Unknown, fmt.Errorf("reading %s: %w", e.filename, err)
		}
		return e.parse(data)
	default:
		return nil, format.Unknown, errors.New("no document specified")
	}
}

// parse detects the container format and hands the bytes to the matching
// reader.
func (e *Extractor) parse(data []byte) (*model.Document, format.Format, error) {
	name := e.sourceName()

	f, err := format.DetectBytes(data)
	if err != nil {
		return nil, format.Unknown, fmt.Errorf("%w: %s: %v", ErrUnparseable, name, err)
	}

	switch f {
	case format.DOCX:
		r, err := docx.OpenBytes(data)
		if err != nil {
			return nil, f, fmt.Errorf("%w: %s: %w", ErrUnparseable, name, err)
		}
		defer r.Close()
		return r.Document(), f, nil

	case format.ODT:
		r, err := odt.OpenBytes(data)
		if err != nil {
			return nil, f, fmt.Errorf("%w: %s: %w", ErrUnparseable, name, err)
		}
		defer r.Close()
		return r.Document(), f, nil

	case format.Unknown:
		return nil, f, fmt.Errorf("%w: %s: not a DOCX or ODT document", ErrUnparseable, name)

	default:
		return nil, f, fmt.Errorf("%w: %s: unsupported file format: %s", ErrUnparseable, name, f)
	}
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Extract parses the document and pairs identifiers with tables.
//
// An error is returned only when the document cannot be read or parsed;
// once parsed, extraction always succeeds, possibly with zero records.
//
// Example:
//
//	res, err := docxrec.Open("orders.docx").Extract()
//	if errors.Is(err, docxrec.ErrUnparseable) {
//	    // not a document
//	}
func (e *Extractor) Extract() (*Result, error) {
	if e.err != nil {
		return nil, e.err
	}

	doc, f, err := e.load()
	if err != nil {
		return nil, err
	}

	ext := pairing.New(pairing.Options{Digits: e.options.digits})
	records, matches := ext.Pair(doc.Blocks, doc.Tables)

	return &Result{
		Document: doc,
		Format:   f,
		Records:  records,
		Matches:  matches,
		Warnings: collectWarnings(doc, matches, ext.Digits()),
	}, nil
}

// Records extracts and returns one record per table.
//
// Example:
//
//	records, warnings, err := docxrec.Open("orders.docx").Records()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docxrec.FormatWarnings(warnings))
//	}
func (e *Extractor) Records() ([]model.Record, []Warning, error) {
	res, err := e.Extract()
	if err != nil {
		return nil, nil, err
	}
	return res.Records, res.Warnings, nil
}

// Document parses the document without pairing. The warnings cover what
// the parse alone shows: a document with no tables, or tables too short
// to fill both cell values. Pairing warnings come from Extract.
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	doc, _, err := e.load()
	if err != nil {
		return nil, nil, err
	}
	return doc, documentWarnings(doc), nil
}

// Markdown extracts records and renders them as a Markdown table under the
// configured labels.
//
// Example:
//
//	md, _, err := docxrec.Open("orders.docx").Markdown()
func (e *Extractor) Markdown() (string, []Warning, error) {
	res, err := e.Extract()
	if err != nil {
		return "", nil, err
	}
	return export.Markdown(res.Records, e.options.columns), res.Warnings, nil
}
