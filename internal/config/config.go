package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDir is the directory searched under os.UserConfigDir().
const appDir = "go-md2html"

// Field length limits.
const (
	MaxThemeLength   = 50
	MaxLocaleLength  = 35   // BCP 47 tags are short
	MaxPathLength    = 4096 // PATH_MAX
	MaxPatternLength = 200
	MaxTextLength    = 500 // Footer free-form text
	MaxDateLength    = 60  // "auto:FORMAT"
	MaxStyleLength   = 50  // chroma style name
	MaxWorkers       = 64
)

// Themes accepted by the theme field. Anything else is an error here, even
// though the renderer itself falls back to default.
var Themes = []string{"default", "minimal", "professional"}

// Config holds all configuration for document generation.
type Config struct {
	Theme          string          `yaml:"theme"`
	EmbedImages    bool            `yaml:"embed_images"`
	ProcessMermaid bool            `yaml:"process_mermaid"`
	Locale         string          `yaml:"locale"`
	Output         OutputConfig    `yaml:"output"`
	Batch          BatchConfig     `yaml:"batch"`
	Assets         AssetsConfig    `yaml:"assets"`
	Footer         FooterConfig    `yaml:"footer"`
	Highlight      HighlightConfig `yaml:"highlight"`
	PDF            PDFConfig       `yaml:"pdf"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the source
}

// BatchConfig defines directory conversion options.
type BatchConfig struct {
	Recursive bool     `yaml:"recursive"`
	Workers   int      `yaml:"workers"`  // 0 = automatic
	Patterns  []string `yaml:"patterns"` // Glob patterns matched against file names
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = embedded assets only
}

// FooterConfig defines the optional footer note and date.
type FooterConfig struct {
	Text string `yaml:"text"`
	Date string `yaml:"date"` // Literal, "auto" or "auto:FORMAT"
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style, default "github"
}

// PDFConfig defines the optional PDF export.
type PDFConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate checks field lengths and closed sets.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"theme", c.Theme, MaxThemeLength},
		{"locale", c.Locale, MaxLocaleLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	for i, p := range c.Batch.Patterns {
		if err := validateFieldLength(fmt.Sprintf("batch.patterns[%d]", i), p, MaxPatternLength); err != nil {
			return err
		}
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("%w: batch.patterns[%d]: %v", ErrInvalidValue, i, err)
		}
	}

	if c.Theme != "" && !isTheme(c.Theme) {
		return fmt.Errorf("%w: theme %q (must be one of %s)", ErrInvalidValue, c.Theme, strings.Join(Themes, ", "))
	}
	if c.Batch.Workers < 0 || c.Batch.Workers > MaxWorkers {
		return fmt.Errorf("%w: batch.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Batch.Workers)
	}
	if c.PDF.Timeout < 0 {
		return fmt.Errorf("%w: pdf.timeout must not be negative, got %s", ErrInvalidValue, c.PDF.Timeout)
	}

	return nil
}

func isTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in configuration: default theme, images
// embedded, diagrams rendered, recursive discovery of *.md files.
func DefaultConfig() *Config {
	return &Config{
		Theme:          "default",
		EmbedImages:    true,
		ProcessMermaid: true,
		Batch: BatchConfig{
			Recursive: true,
			Workers:   4,
			Patterns:  []string{"*.md"},
		},
		Highlight: HighlightConfig{Style: "github"},
		PDF:       PDFConfig{Timeout: 30 * time.Second},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// ./name.yaml, ./name.yml, then the same names under the user config
// directory (~/.config/go-md2html/ on Linux).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
