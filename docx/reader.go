// Package docx provides DOCX (Office Open XML) document parsing.
//
// The reader exposes the document body as two independent ordered
// sequences, paragraphs and tables, mirroring how WordprocessingML stores
// them: a <w:tbl> carries no reference to the paragraph before it.
package docx

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
// not a readable DOCX container.
var ErrInvalidDocument = errors.New("invalid DOCX document")

// maxPartSize bounds the uncompressed size of any part read from the
// archive.
var maxPartSize int64 = 64 << 20

// Reader provides access to DOCX document content.
type Reader struct {
	files     []*zip.File
	closer    io.Closer
	document  *documentXML
	coreProps *corePropertiesXML
	appProps  *appPropertiesXML
	blocks    []model.TextBlock
	tables    []*model.Table
}

// Open opens a DOCX file for reading.
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

// OpenBytes parses a DOCX document held in memory, such as an upload.
func OpenBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// NewReader parses a DOCX document from r, which must hold size bytes.
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

	// Validate required files exist
	if err := r.validate(); err != nil {
		return nil, err
	}

	if err := r.parseDocument(); err != nil {
		return nil, fmt.Errorf("%w: parsing document: %v", ErrInvalidDocument, err)
	}

	// Metadata is best-effort
	r.parseCoreProperties()
	r.parseAppProperties()

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

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool, len(r.files))
	for _, f := range r.files {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("%w: missing required file: %s", ErrInvalidDocument, name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.files {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return readPart(rc, name)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
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

// Blocks returns the body paragraphs in document order, including empty ones.
func (r *Reader) Blocks() []model.TextBlock {
	return r.blocks
}

// Tables returns the top-level body tables in document order. Tables nested
// inside table cells are not included.
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

// Document returns a model.Document representation of the DOCX content.
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
	if r.coreProps != nil {
		meta.Title = r.coreProps.Title
		meta.Author = r.coreProps.Creator
		meta.Subject = r.coreProps.Subject
		if r.coreProps.Keywords != "" {
			meta.Keywords = strings.Split(r.coreProps.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
		meta.CreationDate = parseW3CDate(r.coreProps.Created)
		meta.ModDate = parseW3CDate(r.coreProps.Modified)
	}
	if r.appProps != nil {
		meta.Creator = r.appProps.Application
	}
	return meta
}

// parseW3CDate parses the dcterms timestamps Word writes; zero on failure.
func parseW3CDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	r.processBody()

	return nil
}

// parseCoreProperties parses Dublin Core metadata.
func (r *Reader) parseCoreProperties() {
	data, err := r.getFileContent("docProps/core.xml")
	if err != nil {
		return
	}

	props := &corePropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.coreProps = props
	}
}

// parseAppProperties parses application metadata.
func (r *Reader) parseAppProperties() {
	data, err := r.getFileContent("docProps/app.xml")
	if err != nil {
		return
	}

	props := &appPropertiesXML{}
	if xml.Unmarshal(data, props) == nil {
		r.appProps = props
	}
}

// processBody converts the decoded body into blocks and tables.
func (r *Reader) processBody() {
	r.blocks = nil
	r.tables = nil
	if r.document == nil || r.document.Body == nil {
		return
	}
	body := r.document.Body

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
