package md2html

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2html/internal/pipeline"
)

// Theme names.
const (
	ThemeDefault      = "default"
	ThemeMinimal      = "minimal"
	ThemeProfessional = "professional"
)

// Options are the per-request switches. The zero value disables both
// toggles; use DefaultOptions for the documented defaults.
type Options struct {
	Theme          string `yaml:"theme"`
	EmbedImages    bool   `yaml:"embed_images"`
	ProcessMermaid bool   `yaml:"process_mermaid"`
}

// DefaultOptions returns the default theme with images embedded and
// diagrams rendered.
func DefaultOptions() Options {
	return Options{
		Theme:          ThemeDefault,
		EmbedImages:    true,
		ProcessMermaid: true,
	}
}

// Request describes one file conversion. Destination defaults to the
// source path with an .html extension.
type Request struct {
	Source      string
	Destination string
	Options     Options
}

// Result reports the outcome of one Request.
type Result struct {
	Success     bool
	Source      string
	Destination string
	Size        int64 // bytes written
	Images      int   // images embedded
	Duration    time.Duration
	Err         error
}

// Message returns the error text, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Document is a rendered page held in memory.
type Document struct {
	HTML       string
	Title      string
	TOC        string
	Meta       map[string]any
	Headings   []pipeline.Heading
	Images     int
	HasDiagram bool
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds construction-time settings.
type converterConfig struct {
	assetPath      string
	locale         string
	footerNote     string
	footerDate     string
	highlightStyle string
	tocDepth       int
	now            func() time.Time
}

// WithLogger sets the sink for diagnostics. Image resolution misses are
// logged at warn level, completed and failed conversions at debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAssetPath overrides theme assets with files from dir. Missing files
// fall back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithLocale selects the language of page labels ("en", "zh", ...).
func WithLocale(locale string) Option {
	return func(c *Converter) {
		c.cfg.locale = locale
	}
}

// WithFooterNote adds a free-form line to the page footer.
func WithFooterNote(text string) Option {
	return func(c *Converter) {
		c.cfg.footerNote = text
	}
}

// WithFooterDate adds a date to the page footer. Accepts a literal,
// "auto" or "auto:FORMAT" (see internal/dateutil).
func WithFooterDate(value string) Option {
	return func(c *Converter) {
		c.cfg.footerDate = value
	}
}

// WithHighlightStyle sets the chroma style for code blocks.
func WithHighlightStyle(style string) Option {
	return func(c *Converter) {
		if style != "" {
			c.cfg.highlightStyle = style
		}
	}
}

// WithTOCDepth sets the deepest heading level listed in the TOC (1-6).
func WithTOCDepth(depth int) Option {
	return func(c *Converter) {
		c.cfg.tocDepth = depth
	}
}
