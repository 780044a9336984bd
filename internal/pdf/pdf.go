// Package pdf prints generated HTML pages to PDF with a headless Chrome
// driven by go-rod. Rod downloads Chromium on first use if none is found.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/process"
)

// Sentinel errors for PDF export.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrWritePDF       = errors.New("failed to write PDF")
)

// DefaultTimeout bounds page load when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// Page dimensions in inches (US Letter).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// Renderer prints a local HTML file to PDF bytes.
type Renderer interface {
	RenderFile(ctx context.Context, htmlPath string) ([]byte, error)
	Close() error
}

// Exporter writes a PDF next to each HTML page it is given.
// Safe for concurrent use; all exports share one browser.
type Exporter struct {
	renderer Renderer
	logger   logrus.FieldLogger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger for export diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRenderer replaces the browser-backed renderer.
func WithRenderer(r Renderer) Option {
	return func(e *Exporter) {
		if r != nil {
			e.renderer = r
		}
	}
}

// NewExporter creates an Exporter. The browser starts on the first export.
func NewExporter(timeout time.Duration, opts ...Option) *Exporter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Exporter{
		renderer: &rodRenderer{timeout: timeout},
		logger:   discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export prints htmlPath and writes the result beside it with a .pdf
// extension. Returns the PDF path.
func (e *Exporter) Export(ctx context.Context, htmlPath string) (string, error) {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	pdfPath, err := fileutil.ReplaceExtension(htmlPath, ".pdf")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	start := time.Now()
	data, err := e.renderer.RenderFile(ctx, absPath)
	if err != nil {
		return "", err
	}
	if err := fileutil.WriteFile(pdfPath, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	e.logger.WithFields(logrus.Fields{
		"source":   htmlPath,
		"pdf":      pdfPath,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("pdf exported")
	return pdfPath, nil
}

// Close releases the browser.
func (e *Exporter) Close() error {
	return e.renderer.Close()
}

// rodRenderer implements Renderer with go-rod.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()
	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return browser, nil
}

// RenderFile opens a local HTML file in headless Chrome and prints it.
func (r *rodRenderer) RenderFile(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(htmlPath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	// Diagram scripts run after load; wait for the DOM to settle.
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	_ = page.Timeout(timeout).WaitIdle(time.Second)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(printOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// Close closes the browser and kills its process tree.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
	}
	r.browser = nil
	r.launcher = nil
	return err
}

// printOptions returns Letter pages with backgrounds, so theme colours survive.
func printOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// Compile-time interface check.
var _ Renderer = (*rodRenderer)(nil)
