package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
}

// documentFlags holds per-document rendering flags.
type documentFlags struct {
	theme     string
	noImages  bool
	noMermaid bool
	locale    string
	assetPath string
	highlight string
}

// footerFlags holds footer note flags.
type footerFlags struct {
	text string
	date string
}

// batchFlags holds discovery and scheduling flags.
type batchFlags struct {
	workers   int
	patterns  []string
	recursive bool
}

// pdfFlags holds PDF export flags.
type pdfFlags struct {
	enabled bool
	timeout time.Duration
}

// modeFlags select an alternative action instead of a plain conversion.
type modeFlags struct {
	watch           bool
	stats           bool
	listThemes      bool
	extractDiagrams bool
}

// convertFlags holds every flag of the convert command.
type convertFlags struct {
	output   string
	common   commonFlags
	document documentFlags
	footer   footerFlags
	batch    batchFlags
	pdf      pdfFlags
	mode     modeFlags

	// changed records the flags given explicitly on the command line.
	changed map[string]bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config name or path")
	fs.StringVar(&f.envFile, "env-file", "", "load MD2HTML_* variables from a dotenv file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print timing and debug details")
}

func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.theme, "theme", "t", "", "theme: default, minimal, professional")
	fs.BoolVar(&f.noImages, "no-images", false, "keep image references instead of embedding them")
	fs.BoolVar(&f.noMermaid, "no-mermaid", false, "leave mermaid code blocks as code")
	fs.StringVar(&f.locale, "locale", "", "interface language, e.g. en or zh-CN")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles, scripts and templates")
	fs.StringVar(&f.highlight, "highlight-style", "", "chroma style for code blocks")
}

func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.text, "footer-text", "", "footer note text")
	fs.StringVar(&f.date, "footer-date", "", "footer date: literal, auto or auto:FORMAT")
}

func addBatchFlags(fs *flag.FlagSet, f *batchFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringArrayVar(&f.patterns, "pattern", nil, "file name glob, repeatable (default *.md)")
	fs.BoolVarP(&f.recursive, "recursive", "r", true, "descend into subdirectories")
}

func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.BoolVar(&f.enabled, "pdf", false, "also print each page to PDF with headless Chrome")
	fs.DurationVar(&f.timeout, "pdf-timeout", 0, "page load timeout for PDF export (default 30s)")
}

func addModeFlags(fs *flag.FlagSet, f *modeFlags) {
	fs.BoolVar(&f.watch, "watch", false, "convert, then reconvert files as they change")
	fs.BoolVar(&f.stats, "stats", false, "print batch statistics")
	fs.BoolVar(&f.listThemes, "list-themes", false, "list available themes and exit")
	fs.BoolVar(&f.extractDiagrams, "extract-diagrams", false, "print mermaid diagram sources and exit")
}

// buildConvertFlagSet registers every convert flag into a new FlagSet
// bound to f. Parsing and completion share it.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addFooterFlags(fs, &f.footer)
	addBatchFlags(fs, &f.batch)
	addPDFFlags(fs, &f.pdf)
	addModeFlags(fs, &f.mode)

	return fs
}

// parseConvertFlags parses args (without the command name) and returns the
// flags and the positional arguments. flag.ErrHelp is returned unwrapped.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{changed: map[string]bool{}}
	fs := buildConvertFlagSet(f)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	fs.Visit(func(fl *flag.Flag) {
		f.changed[fl.Name] = true
	})

	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if f.pdf.timeout < 0 {
		return nil, nil, fmt.Errorf("%w: --pdf-timeout must be positive", ErrUsage)
	}

	return f, fs.Args(), nil
}

// wantsVerbose reports whether args request verbose output. It is read
// before full parsing so runtime setup can log.
func wantsVerbose(args []string) bool {
	for _, a := range args {
		if a == "--verbose" || a == "-v" {
			return true
		}
	}
	return false
}
