package theme

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-md2html/internal/assets"
)

// ErrThemeAssets indicates a theme payload could not be loaded.
var ErrThemeAssets = errors.New("theme assets unavailable")

// DefaultTheme is used for empty and unknown theme names.
const DefaultTheme = "default"

// diagramScript names the script appended when a page holds diagrams.
const diagramScript = "mermaid"

// Layout describes how a theme arranges the page.
type Layout string

const (
	LayoutSidebar Layout = "sidebar"
	LayoutReading Layout = "reading"
	LayoutPrint   Layout = "print"
)

// Theme is a named stylesheet and script pair.
type Theme interface {
	Name() string
	Description() string
	// Styles returns the full stylesheet, code highlighting included.
	Styles() string
	// Script returns the page script, with the diagram bootstrap appended
	// when hasDiagram is set.
	Script(hasDiagram bool) string
	Layout() Layout
}

// builtin describes the closed set of themes, in listing order.
var builtin = []struct {
	name        string
	description string
	layout      Layout
}{
	{DefaultTheme, "Gradient header, sidebar contents, copy buttons and image zoom", LayoutSidebar},
	{"minimal", "Single column reading layout with smooth scrolling", LayoutReading},
	{"professional", "Serif print layout with numbered sections", LayoutPrint},
}

// Names lists the built-in theme names.
func Names() []string {
	names := make([]string, len(builtin))
	for i, b := range builtin {
		names[i] = b.name
	}
	return names
}

// Describe returns the description of a built-in theme, or "".
func Describe(name string) string {
	for _, b := range builtin {
		if b.name == name {
			return b.description
		}
	}
	return ""
}

type staticTheme struct {
	name        string
	description string
	layout      Layout
	styles      string
	script      string
	diagram     string
}

func (t *staticTheme) Name() string        { return t.name }
func (t *staticTheme) Description() string { return t.description }
func (t *staticTheme) Styles() string      { return t.styles }
func (t *staticTheme) Layout() Layout      { return t.layout }

func (t *staticTheme) Script(hasDiagram bool) string {
	if !hasDiagram {
		return t.script
	}
	return t.script + "\n" + t.diagram
}

// highlightCSS renders the chroma stylesheet for class-based highlighting.
// Unknown style names get chroma's fallback style.
func highlightCSS(style string) (string, error) {
	var buf bytes.Buffer
	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("%w: highlight style %q: %v", ErrThemeAssets, style, err)
	}
	return buf.String(), nil
}

func loadTheme(loader assets.AssetLoader, name, description string, layout Layout, codeCSS, diagram string) (*staticTheme, error) {
	css, err := loader.LoadStyle(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeAssets, err)
	}
	script, err := loader.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeAssets, err)
	}
	return &staticTheme{
		name:        name,
		description: description,
		layout:      layout,
		styles:      strings.TrimRight(css, "\n") + "\n\n" + codeCSS,
		script:      strings.TrimRight(script, "\n"),
		diagram:     strings.TrimRight(diagram, "\n"),
	}, nil
}

// Compile-time interface check.
var _ Theme = (*staticTheme)(nil)
