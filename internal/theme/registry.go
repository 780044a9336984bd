package theme

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/pipeline"
)

// Generator is written to the generator meta tag.
const Generator = "go-md2html"

// documentTemplate names the page shell shared by every theme.
const documentTemplate = "document"

// Page is the input of Render.
type Page struct {
	Theme      string
	Locale     string
	Title      string
	Body       string
	TOC        string
	Images     int
	HasDiagram bool
	FooterNote string
	Date       string
}

// pageView is what document.html sees.
type pageView struct {
	Lang         string
	Generator    string
	Title        string
	Styles       template.CSS
	BodyClass    string
	Labels       Labels
	ImageSummary string
	TOC          template.HTML
	Body         template.HTML
	FooterNote   string
	Date         string
	Script       template.JS
}

// Registry holds the loaded themes and the parsed page template.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	themes map[string]*staticTheme
	tmpl   *template.Template
}

// NewRegistry loads every built-in theme from loader and appends the
// code highlighting stylesheet for highlightStyle.
func NewRegistry(loader assets.AssetLoader, highlightStyle string) (*Registry, error) {
	codeCSS, err := highlightCSS(highlightStyle)
	if err != nil {
		return nil, err
	}
	diagram, err := loader.LoadScript(diagramScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeAssets, err)
	}
	source, err := loader.LoadTemplate(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThemeAssets, err)
	}
	tmpl, err := template.New(documentTemplate).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing page template: %v", ErrThemeAssets, err)
	}

	reg := &Registry{themes: make(map[string]*staticTheme, len(builtin)), tmpl: tmpl}
	for _, b := range builtin {
		t, err := loadTheme(loader, b.name, b.description, b.layout, codeCSS, diagram)
		if err != nil {
			return nil, err
		}
		reg.themes[b.name] = t
	}
	return reg, nil
}

// Lookup returns the named theme. Unknown names resolve to the default.
func (r *Registry) Lookup(name string) Theme {
	if t, ok := r.themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return r.themes[DefaultTheme]
}

// Render wraps a converted fragment in the page template of p.Theme.
func (r *Registry) Render(p Page) (string, error) {
	th := r.Lookup(p.Theme)
	labels := LabelsFor(p.Locale)

	toc := p.TOC
	if strings.TrimSpace(toc) == "" {
		toc = ""
	}

	view := pageView{
		Lang:         labels.Lang,
		Generator:    Generator,
		Title:        p.Title,
		Styles:       template.CSS(th.Styles()), // #nosec G203 -- theme assets are trusted
		BodyClass:    "theme-" + th.Name() + " layout-" + string(th.Layout()),
		Labels:       labels,
		ImageSummary: labels.ImageSummary(p.Images),
		TOC:          template.HTML(toc),    // #nosec G203 -- produced by the converter
		Body:         template.HTML(p.Body), // #nosec G203 -- produced by the converter
		FooterNote:   p.FooterNote,
		Date:         p.Date,
		Script:       template.JS(th.Script(p.HasDiagram)), // #nosec G203 -- theme assets are trusted
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return buf.String(), nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// embeddedRegistry builds the registry over the embedded assets on first use.
func embeddedRegistry() *Registry {
	defaultOnce.Do(func() {
		reg, err := NewRegistry(assets.NewEmbeddedLoader(), pipeline.DefaultHighlightStyle)
		if err != nil {
			panic(fmt.Sprintf("theme: embedded assets are broken: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Lookup returns a built-in theme from the embedded assets.
func Lookup(name string) Theme {
	return embeddedRegistry().Lookup(name)
}

// Render renders p with the embedded assets.
func Render(p Page) (string, error) {
	return embeddedRegistry().Render(p)
}
