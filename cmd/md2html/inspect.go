package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/pipeline"
	"github.com/alnah/go-md2html/internal/theme"
)

// printThemes lists the built-in themes with their descriptions.
func printThemes(w io.Writer) {
	name := color.New(color.Bold)
	for _, t := range theme.Names() {
		name.Fprintf(w, "  %-14s", t)
		fmt.Fprint(w, theme.Describe(t))
		if t == theme.DefaultTheme {
			fmt.Fprint(w, " (default)")
		}
		fmt.Fprintln(w)
	}
}

// printDiagrams prints the mermaid sources of every file, numbered per
// file. Files without diagrams are skipped.
func printDiagrams(w io.Writer, files []FileToConvert) error {
	header := color.New(color.FgCyan, color.Bold)
	for _, f := range files {
		data, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
		if err != nil {
			return fmt.Errorf("%w: %v", md2html.ErrReadSource, err)
		}
		diagrams := pipeline.ExtractDiagrams(string(data))
		if len(diagrams) == 0 {
			continue
		}
		header.Fprintf(w, "%s (%d)\n", f.InputPath, len(diagrams))
		for i, body := range diagrams {
			fmt.Fprintf(w, "--- diagram %d ---\n%s\n", i+1, body)
		}
	}
	return nil
}
