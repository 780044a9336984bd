package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/BurntSushi/toml"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.abhg.dev/goldmark/frontmatter"

	"github.com/alnah/go-md2html/internal/yamlutil"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultHighlightStyle is the chroma style used for code blocks.
const DefaultHighlightStyle = "github"

// Fragment is the result of converting one Markdown document.
type Fragment struct {
	Body     string
	TOC      string
	Title    string
	Meta     map[string]any
	Headings []Heading
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	Convert(ctx context.Context, markdown, fallbackTitle string) (*Fragment, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment and TOC using
// goldmark with a fixed set of extensions.
type GoldmarkConverter struct {
	md       goldmark.Markdown
	pre      Preprocessor
	logger   logrus.FieldLogger
	style    string
	tocDepth int
}

// GoldmarkOption configures a GoldmarkConverter.
type GoldmarkOption func(*GoldmarkConverter)

// WithHighlightStyle sets the chroma style name for code blocks.
func WithHighlightStyle(style string) GoldmarkOption {
	return func(c *GoldmarkConverter) {
		if style != "" {
			c.style = style
		}
	}
}

// WithTOCDepth sets the deepest heading level listed in the TOC.
func WithTOCDepth(depth int) GoldmarkOption {
	return func(c *GoldmarkConverter) {
		if depth >= 1 && depth <= 6 {
			c.tocDepth = depth
		}
	}
}

// WithConverterLogger sets the sink for metadata warnings.
func WithConverterLogger(logger logrus.FieldLogger) GoldmarkOption {
	return func(c *GoldmarkConverter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// yamlFrontMatter decodes --- delimited front matter with goccy/go-yaml.
var yamlFrontMatter = frontmatter.Format{
	Name:      "YAML",
	Delim:     '-',
	Unmarshal: yamlutil.UnmarshalMeta,
}

// tomlFrontMatter decodes +++ delimited front matter.
var tomlFrontMatter = frontmatter.Format{
	Name:      "TOML",
	Delim:     '+',
	Unmarshal: toml.Unmarshal,
}

// NewGoldmarkConverter creates a GoldmarkConverter.
//
// Extensions, in order: tables, highlighted fenced code, TOC with
// permalinks, hard wraps, attribute lists, definition lists, footnotes,
// front matter. Abbreviations are expanded after rendering.
func NewGoldmarkConverter(opts ...GoldmarkOption) *GoldmarkConverter {
	c := &GoldmarkConverter{
		pre:      &MarkdownPreprocessor{},
		logger:   discardLogger(),
		style:    DefaultHighlightStyle,
		tocDepth: DefaultTOCDepth,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.md = goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			highlighting.NewHighlighting(
				highlighting.WithStyle(c.style),
				highlighting.WithGuessLanguage(true),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
				highlighting.WithWrapperRenderer(wrapCodeBlock),
			),
			extension.DefinitionList,
			extension.Footnote,
			&frontmatter.Extender{
				Formats: []frontmatter.Format{yamlFrontMatter, tomlFrontMatter},
			},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
			parser.WithASTTransformers(
				util.Prioritized(&headingCollector{maxDepth: c.tocDepth}, 100),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
			// Diagram containers are raw HTML blocks.
			gmhtml.WithUnsafe(),
		),
	)
	return c
}

// Style returns the chroma style name used for code blocks.
func (c *GoldmarkConverter) Style() string {
	return c.style
}

// Convert renders markdown to a Fragment. fallbackTitle is used when the
// front matter has no title.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *GoldmarkConverter) Convert(ctx context.Context, markdown, fallbackTitle string) (*Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		frag *Fragment
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, r)}
			}
		}()
		frag, err := c.convert(ctx, markdown, fallbackTitle)
		done <- result{frag: frag, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.frag, r.err
	}
}

func (c *GoldmarkConverter) convert(ctx context.Context, markdown, fallbackTitle string) (*Fragment, error) {
	pre := c.pre.Preprocess(ctx, markdown)
	src := []byte(pre.Markdown)

	pc := parser.NewContext()
	doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	body := RestoreBlankLines(buf.String())
	body, err := ExpandAbbreviations(body, pre.Abbreviations)
	if err != nil {
		return nil, fmt.Errorf("%w: expanding abbreviations: %v", ErrHTMLConversion, err)
	}

	meta := mergeMeta(c.decodeMeta(pc), pre.Meta)
	headings := collectedHeadings(pc)
	return &Fragment{
		Body:     body,
		TOC:      RenderTOC(headings),
		Title:    ResolveTitle(meta, fallbackTitle),
		Meta:     meta,
		Headings: headings,
	}, nil
}

// decodeMeta returns front matter as a map. Malformed front matter is
// reported and treated as absent.
func (c *GoldmarkConverter) decodeMeta(pc parser.Context) map[string]any {
	data := frontmatter.Get(pc)
	if data == nil {
		return nil
	}
	raw := make(map[string]any)
	if err := data.Decode(&raw); err != nil {
		c.logger.WithError(err).Warn("ignoring malformed front matter")
		return nil
	}
	meta := make(map[string]any, len(raw))
	for k, v := range raw {
		meta[strings.ToLower(k)] = v
	}
	return meta
}

// mergeMeta adds header keys missing from front matter.
func mergeMeta(front, header map[string]any) map[string]any {
	if len(header) == 0 {
		return front
	}
	if front == nil {
		front = make(map[string]any, len(header))
	}
	for k, v := range header {
		if _, ok := front[k]; !ok {
			front[k] = v
		}
	}
	return front
}

// ResolveTitle returns the front matter title, or the first element when
// the title is a list, falling back to fallback.
func ResolveTitle(meta map[string]any, fallback string) string {
	switch v := meta["title"].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case []any:
		if len(v) > 0 {
			if s := strings.TrimSpace(fmt.Sprint(v[0])); s != "" {
				return s
			}
		}
	case []string:
		if len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			return strings.TrimSpace(v[0])
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return fallback
}

// wrapCodeBlock wraps code blocks in <div class="highlight">. Blocks chroma
// did not highlight also get the plain <pre><code> pair.
func wrapCodeBlock(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="highlight">`)
		if !ctx.Highlighted() {
			_, _ = w.WriteString("<pre><code")
			if lang, ok := ctx.Language(); ok {
				_, _ = w.WriteString(` class="language-` + html.EscapeString(string(lang)) + `"`)
			}
			_ = w.WriteByte('>')
		}
		return
	}
	if !ctx.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)
