package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2html/internal/pdf"
)

// exporter writes a PDF beside a generated HTML page.
type exporter interface {
	Export(ctx context.Context, htmlPath string) (string, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(string) (string, bool)
	Environ   func() []string

	// NewExporter builds the PDF exporter used by --pdf.
	NewExporter func(timeout time.Duration, logger logrus.FieldLogger) exporter
}

// Compile-time interface implementation check.
var _ exporter = (*pdf.Exporter)(nil)

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
		NewExporter: func(timeout time.Duration, logger logrus.FieldLogger) exporter {
			return pdf.NewExporter(timeout, pdf.WithLogger(logger))
		},
	}
}

// getenv returns the value of key, or "" when unset.
func (e *Environment) getenv(key string) string {
	v, _ := e.LookupEnv(key)
	return v
}
