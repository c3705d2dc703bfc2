// Package format sniffs the container format of an uploaded document so
// that callers can reject non-word-processing input before parsing.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a recognized document container format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// PDF indicates a PDF document.
	PDF
)

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
)

const odtMimeType = "application/vnd.oasis.opendocument.text"

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// IsWordProcessing reports whether documents of this format carry body
// paragraphs and tables that the readers in this module can parse.
func (f Format) IsWordProcessing() bool {
	return f == DOCX || f == ODT
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectBytes inspects an in-memory document.
func DetectBytes(data []byte) (Format, error) {
	return DetectFromReader(bytes.NewReader(data), int64(len(data)))
}

// DetectFromReader inspects the content to determine format. ZIP archives
// are opened so that DOCX, ODT, XLSX and PPTX can be told apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 4)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, pdfMagic):
		return PDF, nil
	case bytes.HasPrefix(magic, zipMagic):
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive's entry names.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// OpenDocument stores its mimetype as the first, uncompressed entry.
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data, _ := io.ReadAll(io.LimitReader(rc, 256))
		rc.Close()
		if strings.HasPrefix(strings.TrimSpace(string(data)), odtMimeType) {
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}

	return Unknown, nil
}
