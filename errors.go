package md2html

import "errors"

// Sentinel errors carried by failed Results.
var (
	// ErrNotFound indicates the source file does not exist.
	ErrNotFound = errors.New("source not found")

	// ErrReadSource indicates the source exists but could not be read.
	ErrReadSource = errors.New("failed to read source")

	// ErrTransform indicates Markdown conversion or page rendering failed.
	ErrTransform = errors.New("transformation failed")

	// ErrWriteOutput indicates the destination could not be written.
	ErrWriteOutput = errors.New("failed to write output")

	// ErrPanic indicates an unexpected panic inside the pipeline.
	ErrPanic = errors.New("internal error")

	// ErrInvalidAssetPath indicates the custom asset directory is unusable.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrInvalidFooterDate indicates a malformed footer date expression.
	ErrInvalidFooterDate = errors.New("invalid footer date")
)
