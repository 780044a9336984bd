package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/pdf"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown", errors.New("boom"), ExitGeneral},
		{"canceled", context.Canceled, ExitGeneral},
		{"browser connect", fmt.Errorf("%w: no chrome", pdf.ErrBrowserConnect), ExitBrowser},
		{"pdf generation", pdf.ErrPDFGeneration, ExitBrowser},
		{"page load", pdf.ErrPageLoad, ExitBrowser},
		{"not exist", fs.ErrNotExist, ExitIO},
		{"source not found", fmt.Errorf("%w: a.md", md2html.ErrNotFound), ExitIO},
		{"write output", md2html.ErrWriteOutput, ExitIO},
		{"write pdf", pdf.ErrWritePDF, ExitIO},
		{"no markdown", ErrNoMarkdown, ExitIO},
		{"usage", ErrUsage, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config value", config.ErrInvalidValue, ExitUsage},
		{"asset path", md2html.ErrInvalidAssetPath, ExitUsage},
		{"shell", ErrUnsupportedShell, ExitUsage},
		{"theme", ErrUnknownTheme, ExitUsage},
		{
			name: "batch follows first cause",
			err:  &batchError{failed: 2, total: 3, first: fmt.Errorf("%w: x", md2html.ErrReadSource)},
			want: ExitIO,
		},
		{
			name: "batch with panic",
			err:  &batchError{failed: 1, total: 2, first: md2html.ErrPanic},
			want: ExitGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
