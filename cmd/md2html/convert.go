package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/hints"
	"github.com/alnah/go-md2html/internal/pdf"
	"github.com/alnah/go-md2html/internal/theme"
)

// ErrUnknownTheme is returned for a theme name outside the built-in set.
var ErrUnknownTheme = errors.New("unknown theme")

// runConvert is the convert command: parse, resolve configuration, discover
// files, then convert, watch, or run one of the listing modes.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	if flags.mode.listThemes {
		printThemes(env.Stdout)
		return nil
	}

	if err := validateWorkers(flags.batch.workers); err != nil {
		return err
	}

	lookup, err := newEnvLookup(env, flags.common.envFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(env.Stderr, flags.common, lookup.get("LOG_LEVEL"))
	if err != nil {
		return err
	}
	warnUnknownEnvVars(lookup, logger)

	envCfg, err := loadEnvConfig(lookup)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(flags, envCfg)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	opts := discoveryOptions{recursive: cfg.Batch.Recursive, patterns: cfg.Batch.Patterns}
	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir, opts)
	if err != nil {
		return err
	}

	if flags.mode.extractDiagrams {
		return printDiagrams(env.Stdout, files)
	}
	if len(files) == 0 && !flags.mode.watch {
		return fmt.Errorf("%w in %s%s", ErrNoMarkdown, inputPath, hints.ForNoMarkdown())
	}

	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}
	job := batchJob{
		converter: conv,
		options:   documentOptions(cfg),
		workers:   md2html.ResolvePoolSize(cfg.Batch.Workers),
	}
	logger.WithField("workers", job.workers).Debug("starting conversion")

	if cfg.PDF.Enabled {
		exp := env.NewExporter(cfg.PDF.Timeout, logger)
		defer func() {
			if err := exp.Close(); err != nil {
				logger.WithError(err).Warn("closing browser")
			}
		}()
		job.exporter = exp
	}

	if flags.mode.watch {
		w := &watcher{
			job:     job,
			root:    inputPath,
			output:  cfg.Output.DefaultDir,
			options: opts,
			flags:   flags,
			env:     env,
			logger:  logger,
		}
		return w.run(ctx, files)
	}

	return runBatch(ctx, job, files, flags, env)
}

// runBatch converts files once, prints the outcome and returns an error
// when any file failed.
func runBatch(ctx context.Context, job batchJob, files []FileToConvert, flags *convertFlags, env *Environment) error {
	results := convertBatch(ctx, job, files)
	printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if flags.mode.stats {
		printStats(env.Stdout, md2html.Summarize(htmlResults(results)))
	}

	if err := batchErr(results); err != nil {
		return withHint(err)
	}
	return ctx.Err()
}

// resolveConfig builds the effective configuration.
// Priority: flags > MD2HTML_* variables > config file > defaults.
func resolveConfig(flags *convertFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := flags.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme == "" {
		cfg.Theme = theme.DefaultTheme
	}
	if !isKnownTheme(cfg.Theme) {
		return nil, fmt.Errorf("%w: %q%s", ErrUnknownTheme, cfg.Theme,
			hints.ForUnknownTheme(cfg.Theme, theme.Names()))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies explicitly given flags on top of cfg.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.DefaultDir = f.output
	}
	if f.document.theme != "" {
		cfg.Theme = f.document.theme
	}
	if f.document.noImages {
		cfg.EmbedImages = false
	}
	if f.document.noMermaid {
		cfg.ProcessMermaid = false
	}
	if f.document.locale != "" {
		cfg.Locale = f.document.locale
	}
	if f.document.assetPath != "" {
		cfg.Assets.BasePath = f.document.assetPath
	}
	if f.document.highlight != "" {
		cfg.Highlight.Style = f.document.highlight
	}
	if f.footer.text != "" {
		cfg.Footer.Text = f.footer.text
	}
	if f.footer.date != "" {
		cfg.Footer.Date = f.footer.date
	}
	if f.changed["workers"] {
		cfg.Batch.Workers = f.batch.workers
	}
	if len(f.batch.patterns) > 0 {
		cfg.Batch.Patterns = f.batch.patterns
	}
	if f.changed["recursive"] {
		cfg.Batch.Recursive = f.batch.recursive
	}
	if f.pdf.enabled {
		cfg.PDF.Enabled = true
	}
	if f.changed["pdf-timeout"] {
		cfg.PDF.Timeout = f.pdf.timeout
	}
}

func isKnownTheme(name string) bool {
	for _, t := range theme.Names() {
		if t == name {
			return true
		}
	}
	return false
}

// resolveInputPath returns the single file or directory to convert.
func resolveInputPath(positional []string) (string, error) {
	switch len(positional) {
	case 0:
		return "", fmt.Errorf("%w\n  hint: pass a markdown file or a directory", ErrNoInput)
	case 1:
		return positional[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}
}

// newConverter builds the shared converter from cfg.
func newConverter(cfg *config.Config, logger logrus.FieldLogger) (*md2html.Converter, error) {
	return md2html.NewConverter(
		md2html.WithLogger(logger),
		md2html.WithAssetPath(cfg.Assets.BasePath),
		md2html.WithLocale(cfg.Locale),
		md2html.WithFooterNote(cfg.Footer.Text),
		md2html.WithFooterDate(cfg.Footer.Date),
		md2html.WithHighlightStyle(cfg.Highlight.Style),
	)
}

// documentOptions extracts the per-request switches from cfg.
func documentOptions(cfg *config.Config) md2html.Options {
	return md2html.Options{
		Theme:          cfg.Theme,
		EmbedImages:    cfg.EmbedImages,
		ProcessMermaid: cfg.ProcessMermaid,
	}
}

// withHint appends an actionable hint for known failure causes.
func withHint(err error) error {
	var hint string
	switch {
	case errors.Is(err, pdf.ErrBrowserConnect):
		hint = hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	case errors.Is(err, md2html.ErrWriteOutput):
		hint = hints.ForOutputDirectory()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}
