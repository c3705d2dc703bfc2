package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxrec/export"
)

func load(t *testing.T, cfgFile string) (*Config, error) {
	t.Helper()

	v := viper.New()
	Prepare(v, cfgFile)
	if err := Read(v, cfgFile); err != nil {
		return nil, err
	}
	return Load(v)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "docxrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Digits)
	assert.Equal(t, export.DefaultColumns(), cfg.Labels)
	assert.Equal(t, export.FormatCSV, cfg.OutputFormat())
	assert.Equal(t, "", cfg.DB)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
}

func TestConfigFile(t *testing.T) {
	path := writeConfig(t, `
digits: 6
labels:
  identifier: ID
  first: Name
format: json
db: runs.db
server:
  addr: 127.0.0.1:9000
  max_upload_bytes: 1024
`)

	cfg, err := load(t, path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Digits)
	assert.Equal(t, export.Columns{Identifier: "ID", First: "Name", Second: "C열"}, cfg.Labels)
	assert.Equal(t, export.FormatJSON, cfg.OutputFormat())
	assert.Equal(t, "runs.db", cfg.DB)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadBytes)
}

func TestConfigFile_SearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docxrec.yaml"), []byte("digits: 7\n"), 0o644))
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Digits)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "digits: 6\nserver:\n  addr: :9000\n")
	t.Setenv("DOCXREC_DIGITS", "4")
	t.Setenv("DOCXREC_SERVER_ADDR", ":7000")
	t.Setenv("DOCXREC_LABELS_SECOND", "Value")

	cfg, err := load(t, path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Digits)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "Value", cfg.Labels.Second)
}

func TestExplicitFileMissing(t *testing.T) {
	_, err := load(t, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero digits", "digits: 0\n", "digits"},
		{"bad format", "format: pdf\n", "unsupported output format"},
		{"bad upload cap", "server:\n  max_upload_bytes: -1\n", "max_upload_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
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
