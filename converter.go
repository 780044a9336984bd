package md2html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/dateutil"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/pipeline"
	"github.com/alnah/go-md2html/internal/theme"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.Preprocessor  = (*pipeline.MarkdownPreprocessor)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
)

// Converter turns Markdown files into themed HTML documents.
// It holds no per-request state and is safe for concurrent use.
type Converter struct {
	cfg           converterConfig
	logger        logrus.FieldLogger
	images        *pipeline.ImageRewriter
	htmlConverter pipeline.HTMLConverter
	themes        *theme.Registry
}

// NewConverter creates a Converter.
// Returns error if the asset path or the footer date is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Converter{
		cfg: converterConfig{
			highlightStyle: pipeline.DefaultHighlightStyle,
			tocDepth:       pipeline.DefaultTOCDepth,
			now:            time.Now,
		},
		logger: discard,
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := dateutil.ResolveDate(c.cfg.footerDate, c.cfg.now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFooterDate, err)
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	if c.htmlConverter == nil {
		c.htmlConverter = pipeline.NewGoldmarkConverter(
			pipeline.WithHighlightStyle(c.cfg.highlightStyle),
			pipeline.WithTOCDepth(c.cfg.tocDepth),
			pipeline.WithConverterLogger(c.logger),
		)
	}

	c.themes, err = theme.NewRegistry(resolver, c.cfg.highlightStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	c.images = pipeline.NewImageRewriter(c.logger)

	return c, nil
}

// Render converts markdown to a complete page without touching the
// destination. baseDir anchors relative image paths; title is used when the
// front matter has none.
func (c *Converter) Render(ctx context.Context, markdown, baseDir, title string, opts Options) (*Document, error) {
	markdown = pipeline.NormalizeLineEndings(markdown)

	images := 0
	if opts.EmbedImages {
		markdown, images = c.images.Rewrite(markdown, baseDir)
	}
	if opts.ProcessMermaid {
		markdown = pipeline.RewriteDiagrams(markdown)
	}

	frag, err := c.htmlConverter.Convert(ctx, markdown, title)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrTransform, err)
	}

	date, err := dateutil.ResolveDate(c.cfg.footerDate, c.cfg.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFooterDate, err)
	}

	hasDiagram := pipeline.HasDiagramMarkup(frag.Body)
	page, err := c.themes.Render(theme.Page{
		Theme:      opts.Theme,
		Locale:     c.cfg.locale,
		Title:      frag.Title,
		Body:       frag.Body,
		TOC:        frag.TOC,
		Images:     images,
		HasDiagram: hasDiagram,
		FooterNote: c.cfg.footerNote,
		Date:       date,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransform, err)
	}

	return &Document{
		HTML:       page,
		Title:      frag.Title,
		TOC:        frag.TOC,
		Meta:       frag.Meta,
		Headings:   frag.Headings,
		Images:     images,
		HasDiagram: hasDiagram,
	}, nil
}

// Convert runs the pipeline for one file and reports the outcome.
// It never panics and never returns a nil error on failure: every problem
// is carried by the Result.
func (c *Converter) Convert(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	res = Result{Source: req.Source, Destination: req.Destination}

	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Size = 0
			res.Err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		res.Duration = time.Since(start)
		c.logResult(res)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	info, err := os.Stat(req.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Err = fmt.Errorf("%w: %s", ErrNotFound, req.Source)
		} else {
			res.Err = fmt.Errorf("%w: %v", ErrReadSource, err)
		}
		return res
	}
	if info.IsDir() {
		res.Err = fmt.Errorf("%w: %s is a directory", ErrReadSource, req.Source)
		return res
	}

	dest, err := destinationFor(req)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return res
	}
	res.Destination = dest

	data, err := os.ReadFile(req.Source) // #nosec G304 -- source path is user-provided
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrReadSource, err)
		return res
	}

	baseDir := filepath.Dir(req.Source)
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	doc, err := c.Render(ctx, string(data), baseDir, baseName(req.Source), req.Options)
	if err != nil {
		res.Err = err
		return res
	}

	if err := fileutil.WriteFile(dest, []byte(doc.HTML)); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		return res
	}

	res.Success = true
	res.Size = int64(len(doc.HTML))
	res.Images = doc.Images
	return res
}

// ConvertBatch converts each request in order, one Result per Request.
// A failed request never stops the following ones.
func (c *Converter) ConvertBatch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))
	for i, req := range reqs {
		results[i] = c.Convert(ctx, req)
	}
	return results
}

// logResult records the outcome at debug level; failures travel in the
// Result itself.
func (c *Converter) logResult(res Result) {
	entry := c.logger.WithFields(logrus.Fields{
		"source":   res.Source,
		"duration": res.Duration.Round(time.Millisecond),
	})
	if !res.Success {
		entry.WithError(res.Err).Debug("conversion failed")
		return
	}
	entry.WithFields(logrus.Fields{
		"output": res.Destination,
		"size":   res.Size,
		"images": res.Images,
	}).Debug("converted")
}

// destinationFor returns the explicit destination or source.html.
func destinationFor(req Request) (string, error) {
	if req.Destination != "" {
		return req.Destination, nil
	}
	return fileutil.ReplaceExtension(req.Source, ".html")
}

// baseName returns the file name without its extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
