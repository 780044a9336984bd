// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// MarkdownExtensions lists the file extensions treated as Markdown.
var MarkdownExtensions = []string{".md", ".markdown", ".mdown", ".mkd"}

// IsMarkdown reports whether path has a Markdown extension (case-insensitive).
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, m := range MarkdownExtensions {
		if ext == m {
			return true
		}
	}
	return false
}

// ReplaceExtension swaps the extension of path for extension, given with
// or without its leading dot.
func ReplaceExtension(path, extension string) (string, error) {
	if err := ValidateExtension(extension); err != nil {
		return "", err
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + extension, nil
}

// ValidateExtension checks that the extension is safe to append to a path.
func ValidateExtension(extension string) error {
	if extension == "" || extension == "." {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// WriteFile writes data to path, creating parent directories. The content
// goes to a temporary file in the same directory first and is renamed into
// place, so readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".md2html-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- generated pages are meant to be shared
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "team" -> false (name)
//   - "./team.yaml" -> true (relative path)
//   - "C:\config\team.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
