// Package config loads docxrec settings from a YAML file, DOCXREC_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tsawler/docxrec/export"
	"github.com/tsawler/docxrec/pairing"
)

const (
	// Name is the config file base name and the env prefix.
	Name = "docxrec"

	// DefaultAddr is the HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes caps request bodies on the HTTP surface.
	DefaultMaxUploadBytes = 32 << 20
)

// Config holds every setting the CLI and server read.
type Config struct {
	// Digits is the identifier length.
	Digits int `mapstructure:"digits" yaml:"digits"`
	// Labels are the output column names.
	Labels export.Columns `mapstructure:"labels" yaml:"labels"`
	// Format is the default output format for convert.
	Format string `mapstructure:"format" yaml:"format"`
	// DB is the SQLite run-history path; empty disables history.
	DB      string       `mapstructure:"db" yaml:"db"`
	Verbose bool         `mapstructure:"verbose" yaml:"verbose"`
	Server  ServerConfig `mapstructure:"server" yaml:"server"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr" yaml:"addr"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// SetDefaults registers every key with its default, so that environment
// variables are seen by Unmarshal even when no config file sets the key.
func SetDefaults(v *viper.Viper) {
	cols := export.DefaultColumns()

	v.SetDefault("digits", pairing.DefaultDigits)
	v.SetDefault("labels.identifier", cols.Identifier)
	v.SetDefault("labels.first", cols.First)
	v.SetDefault("labels.second", cols.Second)
	v.SetDefault("format", string(export.FormatCSV))
	v.SetDefault("db", "")
	v.SetDefault("verbose", false)
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.max_upload_bytes", DefaultMaxUploadBytes)
}

// Prepare sets defaults, the config file search path and the environment
// binding on v. An empty cfgFile searches ./docxrec.yaml and
// ~/.config/docxrec/docxrec.yaml.
func Prepare(v *viper.Viper, cfgFile string) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(strings.ToUpper(Name))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Read reads the config file prepared on v. A missing file is not an error
// unless it was named explicitly as cfgFile.
func Read(v *viper.Viper, cfgFile string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) && cfgFile == "" {
		return nil
	}
	return fmt.Errorf("reading config: %w", err)
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Digits < 1 {
		return fmt.Errorf("digits must be at least 1, got %d", c.Digits)
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// OutputFormat returns the parsed Format setting.
func (c *Config) OutputFormat() export.Format {
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return export.FormatCSV
	}
	return f
}
