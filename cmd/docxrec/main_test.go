package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bom = "\xEF\xBB\xBF"

// workdir isolates config discovery from the developer's machine.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	return dir
}

func writeDOCX(t *testing.T, path, body string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range [][2]string{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`},
	} {
		w, err := zw.Create(part[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(part[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func table(first, second string) string {
	return `<w:tbl><w:tr><w:tc>` + para(first) + `</w:tc></w:tr><w:tr><w:tc>` + para(second) + `</w:tc></w:tr></w:tbl>`
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvert_DefaultOutput(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "orders.docx"),
		para("Order 10001")+table("apple", "red")+para("Order 10002")+table("pear", "green"))

	_, _, err := run(t, "convert", "orders.docx")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "orders.csv"))
	require.NoError(t, err)
	assert.Equal(t, bom+"A열,B열,C열\n10001,apple,red\n10002,pear,green\n", string(data))
}

func TestConvert_Stdout(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "orders.docx"), para("10001")+table("apple", "red"))

	out, _, err := run(t, "convert", "orders.docx", "-o", "-", "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "| A열 | B열 | C열 |\n| --- | --- | --- |\n| 10001 | apple | red |\n", out)
}

func TestConvert_Digits(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "orders.docx"), para("Lot 123 and 10001")+table("apple", "red"))

	out, _, err := run(t, "--digits", "3", "convert", "orders.docx", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "123,apple,red")
}

func TestConvert_ConfigLabels(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "orders.docx"), para("10001")+table("apple", "red"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docxrec.yaml"),
		[]byte("labels:\n  identifier: id\n  first: name\n  second: colour\n"), 0o644))

	out, _, err := run(t, "convert", "orders.docx", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, bom+"id,name,colour\n10001,apple,red\n", out)
}

func TestConvert_NoTablesWarns(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "empty.docx"), para("10001"))

	out, logs, err := run(t, "convert", "empty.docx", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, bom+"A열,B열,C열\n", out)
	assert.Contains(t, logs, "document contains no tables")
}

func TestConvert_InvalidDocument(t *testing.T) {
	dir := workdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.docx"), []byte("plain text"), 0o644))

	_, _, err := run(t, "convert", "notes.docx")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "notes.csv"))
	assert.True(t, os.IsNotExist(statErr), "no output is written for an unparseable input")
}

func TestConvert_BadFormat(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "orders.docx"), para("10001")+table("apple", "red"))

	_, _, err := run(t, "convert", "orders.docx", "--format", "pdf")
	require.Error(t, err)
}

func TestPreview(t *testing.T) {
	dir := workdir(t)
	writeDOCX(t, filepath.Join(dir, "orders.docx"), para("10001")+table("a|b", "x"))

	out, _, err := run(t, "preview", "orders.docx")
	require.NoError(t, err)
	assert.Contains(t, out, `| 10001 | a\|b | x |`)
}

func TestHistory(t *testing.T) {
	dir := workdir(t)
	db := filepath.Join(dir, "runs.db")
	writeDOCX(t, filepath.Join(dir, "orders.docx"), para("10001")+table("apple", "red"))

	_, _, err := run(t, "--db", db, "convert", "orders.docx", "-o", "-")
	require.NoError(t, err)

	out, _, err := run(t, "--db", db, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "orders.docx")
	assert.Contains(t, lines[1], "DOCX")

	id := strings.Fields(lines[1])[0]
	out, _, err = run(t, "--db", db, "history", "--run", id, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, bom+"A열,B열,C열\n10001,apple,red\n", out)
}

func TestHistory_NoDatabase(t *testing.T) {
	workdir(t)

	_, _, err := run(t, "history")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	workdir(t)

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "docxrec dev\n", out)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
