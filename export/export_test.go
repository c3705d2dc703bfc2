package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/docxrec/model"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

func sampleRecords() []model.Record {
	return []model.Record{
		{Identifier: "54321", FirstCellValue: "Alpha", SecondCellValue: "Beta"},
		{Identifier: "", FirstCellValue: "홍길동", SecondCellValue: "서울, 대한민국"},
		{Identifier: "11111", FirstCellValue: "say \"hi\"", SecondCellValue: "line1\nline2"},
	}
}

func TestColumns_Header(t *testing.T) {
	assert.Equal(t, []string{"A열", "B열", "C열"}, Columns{}.Header())
	assert.Equal(t, []string{"ID", "B열", "Value"}, Columns{Identifier: "ID", Second: "Value"}.Header())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormat_ContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Equal(t, ".csv", FormatCSV.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, ".yaml", FormatYAML.Extension())
	assert.Equal(t, ".md", FormatMarkdown.Extension())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords(), DefaultColumns()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, bom), "CSV must start with a UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(out[len(bom):])).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"A열", "B열", "C열"},
		{"54321", "Alpha", "Beta"},
		{"", "홍길동", "서울, 대한민국"},
		{"11111", "say \"hi\"", "line1\nline2"},
	}
	assert.Equal(t, want, rows)
}

func TestWriteCSV_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, Columns{Identifier: "id", First: "first", Second: "second"}))

	assert.Equal(t, string(bom)+"id,first,second\n", buf.String())
}

func TestWriteCSV_BOMWrittenOnce(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords(), DefaultColumns()))

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), bom))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRecords()[:1], Columns{Identifier: "ID", First: "First", Second: "Second"})

	want := "| ID | First | Second |\n" +
		"| --- | --- | --- |\n" +
		"| 54321 | Alpha | Beta |\n"
	assert.Equal(t, want, md)
}

func TestMarkdown_EscapesPipesAndNewlines(t *testing.T) {
	md := Markdown([]model.Record{{Identifier: "1", FirstCellValue: "a|b", SecondCellValue: "x\ny"}}, DefaultColumns())

	assert.Contains(t, md, `| 1 | a\|b | x y |`)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords(), DefaultColumns()))

	var doc struct {
		Columns []string       `json:"columns"`
		Records []model.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"A열", "B열", "C열"}, doc.Columns)
	assert.Equal(t, sampleRecords(), doc.Records)
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, DefaultColumns()))

	assert.Contains(t, buf.String(), `"records": []`)
}

func TestWriteYAML_KeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	cols := Columns{Identifier: "z-id", First: "m-first", Second: "a-second"}
	require.NoError(t, WriteYAML(&buf, sampleRecords()[:1], cols))

	out := buf.String()
	iz := strings.Index(out, "z-id")
	im := strings.Index(out, "m-first")
	ia := strings.Index(out, "a-second")
	assert.True(t, iz < im && im < ia, "columns out of order:\n%s", out)

	var rows []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "54321", rows[0]["z-id"])
}

func TestWriteYAML_IdentifierStaysString(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, []model.Record{{Identifier: "01234"}}, DefaultColumns()))

	var rows []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, "01234", rows[0]["A열"])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	recs := []model.Record{{Identifier: "54321", FirstCellValue: "<script>x</script>", SecondCellValue: "Beta"}}
	require.NoError(t, WriteHTML(&buf, recs, DefaultColumns()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<table><thead><tr><th>A열</th>"), out)
	assert.Contains(t, out, "<td>54321</td>")
	assert.Contains(t, out, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestWrite_Dispatch(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, sampleRecords(), DefaultColumns()), f)
		assert.NotZero(t, buf.Len(), f)
	}

	assert.Error(t, Write(&bytes.Buffer{}, Format("pdf"), nil, DefaultColumns()))
}
