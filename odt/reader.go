// Package odt provides ODT (OpenDocument Text) document parsing.
//
// The reader exposes the same shape as the docx package: body paragraphs
// and body tables as two independent ordered sequences.
package odt

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tsawler/docxrec/model"
)

// ErrInvalidDocument is wrapped by every error returned when the input is
// not a readable ODT container.
var ErrInvalidDocument = errors.New("invalid ODT document")

const mimeText = "application/vnd.oasis.opendocument.text"

// maxPartSize bounds the uncompressed size of any part read from the
// archive.
var maxPartSize int64 = 64 << 20

// Reader provides access to ODT document content.
type Reader struct {
	files   []*zip.File
	closer  io.Closer
	content *documentXML
	meta    *metaXML
	blocks  []model.TextBlock
	tables  []*model.Table
}

// Open opens an ODT file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", ErrInvalidDocument, err)
	}

	r, err := newReader(zr.File, zr)
	if err != nil {
		zr.Close()
		return nil, err
	}
	return r, nil
}

// OpenBytes parses an ODT document held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// NewReader parses an ODT document from r, which must hold size bytes.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ZIP archive: %v", ErrInvalidDocument, err)
	}
	return newReader(zr.File, nil)
}

func newReader(files []*zip.File, closer io.Closer) (*Reader, error) {
	r := &Reader{
		files:  files,
		closer: closer,
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	if err := r.parseContent(); err != nil {
		return nil, fmt.Errorf("%w: parsing content: %v", ErrInvalidDocument, err)
	}

	r.parseMetadata()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// validate checks for content.xml and, when a mimetype entry is present,
// that it names a text document rather than a spreadsheet or slides.
func (r *Reader) validate() error {
	if r.file("content.xml") == nil {
		return fmt.Errorf("%w: missing required file: content.xml", ErrInvalidDocument)
	}

	if r.file("mimetype") != nil {
		data, err := r.getFileContent("mimetype")
		if err != nil {
			return fmt.Errorf("%w: reading mimetype: %v", ErrInvalidDocument, err)
		}
		mt := strings.TrimSpace(string(data))
		if !strings.HasPrefix(mt, mimeText) {
			return fmt.Errorf("%w: unexpected mimetype %q", ErrInvalidDocument, mt)
		}
	}

	return nil
}

func (r *Reader) file(name string) *zip.File {
	for _, f := range r.files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f := r.file(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readPart(rc, name)
}

// readPart reads rc up to maxPartSize bytes.
func readPart(rc io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxPartSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, maxPartSize)
	}
	return data, nil
}

// Blocks returns the body paragraphs and headings in document order,
// including empty ones.
func (r *Reader) Blocks() []model.TextBlock {
	return r.blocks
}

// Tables returns the body tables in document order. Tables nested inside
// table cells are not included.
func (r *Reader) Tables() []*model.Table {
	return r.tables
}

// Text returns the body paragraphs joined with newlines.
func (r *Reader) Text() string {
	parts := make([]string, len(r.blocks))
	for i, b := range r.blocks {
		parts[i] = b.Content
	}
	return strings.Join(parts, "\n")
}

// Document returns a model.Document representation of the ODT content.
func (r *Reader) Document() *model.Document {
	doc := model.NewDocument()
	doc.Metadata = r.Metadata()
	doc.Blocks = append(doc.Blocks, r.blocks...)
	doc.Tables = append(doc.Tables, r.tables...)
	return doc
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.meta == nil || r.meta.Meta == nil {
		return meta
	}
	m := r.meta.Meta
	meta.Title = m.Title
	meta.Author = m.Creator
	if meta.Author == "" {
		meta.Author = m.InitialCreator
	}
	meta.Subject = m.Subject
	meta.Creator = m.Generator
	for _, kw := range m.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			meta.Keywords = append(meta.Keywords, kw)
		}
	}
	meta.CreationDate = parseODFDate(m.CreationDate)
	meta.ModDate = parseODFDate(m.Date)
	return meta
}

// odfDateLayouts are the xsd:dateTime forms seen in meta.xml. LibreOffice
// omits the zone.
var odfDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseODFDate parses a meta.xml timestamp; zero on failure.
func parseODFDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range odfDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseContent parses content.xml into blocks and tables.
func (r *Reader) parseContent() error {
	data, err := r.getFileContent("content.xml")
	if err != nil {
		return err
	}

	r.content = &documentXML{}
	if err := xml.Unmarshal(data, r.content); err != nil {
		return fmt.Errorf("unmarshaling content.xml: %w", err)
	}

	r.processBody()

	return nil
}

// parseMetadata parses meta.xml. Metadata is best-effort.
func (r *Reader) parseMetadata() {
	data, err := r.getFileContent("meta.xml")
	if err != nil {
		return
	}

	meta := &metaXML{}
	if xml.Unmarshal(data, meta) == nil {
		r.meta = meta
	}
}

// processBody converts the decoded body into blocks and tables.
func (r *Reader) processBody() {
	r.blocks = nil
	r.tables = nil
	if r.content == nil || r.content.Body == nil || r.content.Body.Text == nil {
		return
	}
	body := r.content.Body.Text

	r.blocks = make([]model.TextBlock, 0, len(body.Paragraphs))
	for i, p := range body.Paragraphs {
		r.blocks = append(r.blocks, model.TextBlock{
			Index:   i,
			Content: p.Text,
		})
	}

	tp := NewTableParser()
	r.tables = make([]*model.Table, 0, len(body.Tables))
	for _, tbl := range body.Tables {
		r.tables = append(r.tables, tp.ParseTable(tbl))
	}
}
