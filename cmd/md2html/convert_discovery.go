package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("not a markdown file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoMarkdown         = errors.New("no markdown files found")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoveryOptions controls directory scanning.
type discoveryOptions struct {
	recursive bool
	patterns  []string // matched against the base name; empty matches all
}

// discoverFiles finds all markdown files to convert. A file argument is
// taken as is; a directory is scanned for markdown files matching the
// patterns, descending only when recursive.
func discoverFiles(inputPath, outputDir string, opts discoveryOptions) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdown(inputPath) {
			return nil, fmt.Errorf("%w: %s (expected %s)",
				ErrInvalidExtension, inputPath, strings.Join(fileutil.MarkdownExtensions, ", "))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && !opts.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsMarkdown(path) || !matchesPatterns(d.Name(), opts.patterns) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// matchesPatterns reports whether name matches any pattern.
func matchesPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// resolveOutputPath determines the HTML output path for a markdown file.
// With an output directory, the layout below baseInputDir is mirrored.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if baseInputDir == "" && strings.EqualFold(filepath.Ext(outputDir), ".html") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".html")
		}
	}

	return filepath.Join(outputDir, base+".html")
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

