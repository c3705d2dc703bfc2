package model

import "time"

// Document is the reader-neutral result of parsing a word-processing file.
type Document struct {
	Metadata Metadata
	Blocks   []TextBlock
	Tables   []*Table
}

// Metadata contains document-level information
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     []string
	Creator      string
	CreationDate time.Time
	ModDate      time.Time
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Blocks: make([]TextBlock, 0),
		Tables: make([]*Table, 0),
	}
}

// AddBlock appends a paragraph of body text, assigning its Index.
func (d *Document) AddBlock(content string) {
	d.Blocks = append(d.Blocks, TextBlock{
		Index:   len(d.Blocks),
		Content: content,
	})
}

// AddTable appends a body table.
func (d *Document) AddTable(t *Table) {
	d.Tables = append(d.Tables, t)
}

// TableCount returns the number of body tables.
func (d *Document) TableCount() int {
	return len(d.Tables)
}

// TextBlock is one paragraph-equivalent unit of body text, in document order.
type TextBlock struct {
	// Index is the position of the block among all body paragraphs,
	// including empty ones.
	Index   int
	Content string
}

// IsBlank reports whether the block has no text after trimming.
func (b TextBlock) IsBlank() bool {
	return CleanText(b.Content) == ""
}
