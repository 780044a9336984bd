package main

import (
	"errors"
	"os"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/pdf"
)

// Exit codes for md2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, pdf.ErrBrowserConnect) ||
		errors.Is(err, pdf.ErrPageCreate) ||
		errors.Is(err, pdf.ErrPageLoad) ||
		errors.Is(err, pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2html.ErrNotFound) ||
		errors.Is(err, md2html.ErrReadSource) ||
		errors.Is(err, md2html.ErrWriteOutput) ||
		errors.Is(err, pdf.ErrWritePDF) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdown) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidEnvValue) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnknownTheme) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2html.ErrInvalidAssetPath) ||
		errors.Is(err, md2html.ErrInvalidFooterDate) {
		return ExitUsage
	}

	return ExitGeneral
}
