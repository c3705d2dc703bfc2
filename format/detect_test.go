package format

import (
	"archive/zip"
	"bytes"
	"testing"
)

// zipWith builds an in-memory ZIP archive containing the named entries.
func zipWith(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, "DOCX"},
		{ODT, "ODT"},
		{XLSX, "XLSX"},
		{PPTX, "PPTX"},
		{PDF, "PDF"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{DOCX, ".docx"},
		{ODT, ".odt"},
		{XLSX, ".xlsx"},
		{PPTX, ".pptx"},
		{PDF, ".pdf"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_IsWordProcessing(t *testing.T) {
	for _, f := range []Format{DOCX, ODT} {
		if !f.IsWordProcessing() {
			t.Errorf("%v.IsWordProcessing() = false", f)
		}
	}
	for _, f := range []Format{XLSX, PPTX, PDF, Unknown} {
		if f.IsWordProcessing() {
			t.Errorf("%v.IsWordProcessing() = true", f)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"document.docx", DOCX},
		{"document.DOCX", DOCX},
		{"document.Docx", DOCX},
		{"document.odt", ODT},
		{"document.ODT", ODT},
		{"document.xlsx", XLSX},
		{"document.pptx", PPTX},
		{"document.pdf", PDF},
		{"document.txt", Unknown},
		{"document", Unknown},
		{"", Unknown},
		{"/path/to/file.docx", DOCX},
		{"/path/to/file.odt", ODT},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectBytes(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Format
		wantErr bool
	}{
		{
			name: "docx archive",
			data: zipWith(t, map[string]string{"[Content_Types].xml": "", "word/document.xml": ""}),
			want: DOCX,
		},
		{
			name: "odt archive",
			data: zipWith(t, map[string]string{"mimetype": odtMimeType, "content.xml": ""}),
			want: ODT,
		},
		{
			name: "xlsx archive",
			data: zipWith(t, map[string]string{"xl/workbook.xml": ""}),
			want: XLSX,
		},
		{
			name: "pptx archive",
			data: zipWith(t, map[string]string{"ppt/presentation.xml": ""}),
			want: PPTX,
		},
		{
			name: "unrelated archive",
			data: zipWith(t, map[string]string{"readme.txt": "hi"}),
			want: Unknown,
		},
		{
			name: "pdf",
			data: []byte("%PDF-1.4\n%%EOF"),
			want: PDF,
		},
		{
			name: "plain text",
			data: []byte("Hello, World! This is plain text."),
			want: Unknown,
		},
		{
			name: "empty",
			data: nil,
			want: Unknown,
		},
		{
			name:    "truncated zip",
			data:    []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00},
			want:    Unknown,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectBytes(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}
