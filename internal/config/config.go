// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"docredact/internal/detector"
	"docredact/internal/paths"
	"docredact/internal/redactors/office"
	"docredact/internal/redactors/pdf"
)

// EnvPrefix is the prefix for environment overrides, e.g. DOCREDACT_REDACTION_CHUNK_SIZE.
const EnvPrefix = "DOCREDACT"

// DefaultChunkSize is the chunk size used by the chunk mapper when none is configured.
const DefaultChunkSize = 128

// Config represents the docredact configuration
type Config struct {
	Detectors DetectorsConfig          `mapstructure:"detectors" yaml:"detectors"`
	Redaction RedactionConfig          `mapstructure:"redaction" yaml:"redaction"`
	PDF       pdf.Layout               `mapstructure:"pdf" yaml:"pdf"`
	DOCX      office.PageSetup         `mapstructure:"docx" yaml:"docx"`
	Sink      SinkConfig               `mapstructure:"sink" yaml:"sink"`
	Logging   LoggingConfig            `mapstructure:"logging" yaml:"logging"`
	Profiles  map[string]ProfileConfig `mapstructure:"profiles" yaml:"profiles"`
}

// DetectorsConfig selects which detectors are enabled by default.
type DetectorsConfig struct {
	// Enabled lists detector keys. Empty means every detector in the catalog.
	Enabled []string `mapstructure:"enabled" yaml:"enabled"`
	// PackFile is an optional YAML file with extra detector definitions.
	PackFile string `mapstructure:"pack_file" yaml:"pack_file"`
}

// RedactionConfig contains output settings for redaction sessions
type RedactionConfig struct {
	OutputDir         string `mapstructure:"output_dir" yaml:"output_dir"`
	ChunkSize         int    `mapstructure:"chunk_size" yaml:"chunk_size"`
	CustomReplacement string `mapstructure:"custom_replacement" yaml:"custom_replacement"`
	AuditFile         string `mapstructure:"audit_file" yaml:"audit_file"`
}

// SinkConfig describes where the redaction payload is delivered.
type SinkConfig struct {
	URL        string        `mapstructure:"url" yaml:"url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// LoggingConfig mirrors observability.LoggerConfig.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ProfileConfig is a named preset of detectors and search terms.
type ProfileConfig struct {
	Description string                `mapstructure:"description" yaml:"description"`
	Detectors   []string              `mapstructure:"detectors" yaml:"detectors"`
	Terms       []detector.SearchTerm `mapstructure:"terms" yaml:"terms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Redaction: RedactionConfig{
			OutputDir:         "redacted",
			ChunkSize:         DefaultChunkSize,
			CustomReplacement: detector.CustomReplacement,
		},
		PDF:  pdf.DefaultLayout(),
		DOCX: office.DefaultPageSetup(),
		Sink: SinkConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profiles: map[string]ProfileConfig{},
	}
}

// setDefaults registers every key with v so that environment overrides apply
// even when the key is absent from the config file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("detectors.enabled", d.Detectors.Enabled)
	v.SetDefault("detectors.pack_file", d.Detectors.PackFile)

	v.SetDefault("redaction.output_dir", d.Redaction.OutputDir)
	v.SetDefault("redaction.chunk_size", d.Redaction.ChunkSize)
	v.SetDefault("redaction.custom_replacement", d.Redaction.CustomReplacement)
	v.SetDefault("redaction.audit_file", d.Redaction.AuditFile)

	v.SetDefault("pdf.left_margin", d.PDF.LeftMargin)
	v.SetDefault("pdf.top_offset", d.PDF.TopOffset)
	v.SetDefault("pdf.line_height", d.PDF.LineHeight)
	v.SetDefault("pdf.box_height", d.PDF.BoxHeight)
	v.SetDefault("pdf.char_width", d.PDF.CharWidth)
	v.SetDefault("pdf.gap", d.PDF.Gap)
	v.SetDefault("pdf.min_width", d.PDF.MinWidth)
	v.SetDefault("pdf.bottom_margin", d.PDF.BottomMargin)

	v.SetDefault("docx.page_width", d.DOCX.Width)
	v.SetDefault("docx.page_height", d.DOCX.Height)
	v.SetDefault("docx.margin", d.DOCX.Margin)
	v.SetDefault("docx.line_height", d.DOCX.LineHeight)
	v.SetDefault("docx.font_size", d.DOCX.FontSize)
	v.SetDefault("docx.font_family", d.DOCX.FontFamily)

	v.SetDefault("sink.url", d.Sink.URL)
	v.SetDefault("sink.timeout", d.Sink.Timeout)
	v.SetDefault("sink.max_retries", d.Sink.MaxRetries)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// LoadConfig loads configuration from configPath (optional), a .env file in
// the working directory and DOCREDACT_* environment variables, in increasing
// order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// .env is best effort; a missing file is the common case
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("docredact")
		v.SetConfigType("yaml")
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]ProfileConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration, falling back to the built-in
// defaults if anything goes wrong. The error, if any, is returned alongside
// so the caller can report it.
func LoadConfigOrDefault(configPath string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

func searchDirs() []string {
	return []string{".", paths.GetConfigDir()}
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	names := []string{"docredact.yaml", ".docredact.yaml"}
	for _, dir := range searchDirs() {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"console": true, "json": true}
)

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Redaction.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("redaction.chunk_size must be positive, got %d", c.Redaction.ChunkSize))
	}
	if strings.TrimSpace(c.Redaction.CustomReplacement) == "" {
		errs = append(errs, errors.New("redaction.custom_replacement must not be empty"))
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format))
	}
	if c.Sink.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("sink.max_retries must not be negative, got %d", c.Sink.MaxRetries))
	}

	pdfMetrics := map[string]float64{
		"pdf.line_height": c.PDF.LineHeight,
		"pdf.box_height":  c.PDF.BoxHeight,
		"pdf.char_width":  c.PDF.CharWidth,
		"pdf.min_width":   c.PDF.MinWidth,
	}
	docxMetrics := map[string]float64{
		"docx.page_width":  c.DOCX.Width,
		"docx.page_height": c.DOCX.Height,
		"docx.line_height": c.DOCX.LineHeight,
		"docx.font_size":   c.DOCX.FontSize,
	}
	for _, metrics := range []map[string]float64{pdfMetrics, docxMetrics} {
		keys := make([]string, 0, len(metrics))
		for k := range metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if metrics[k] <= 0 {
				errs = append(errs, fmt.Errorf("%s must be positive, got %g", k, metrics[k]))
			}
		}
	}

	return errors.Join(errs...)
}

// ListProfiles returns the names of all configured profiles, sorted.
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfile returns the named profile.
func (c *Config) GetProfile(name string) (*ProfileConfig, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(c.ListProfiles(), ", "))
	}
	return &p, nil
}
