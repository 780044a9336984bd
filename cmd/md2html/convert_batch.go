package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	md2html "github.com/alnah/go-md2html"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrConversionFailed = errors.New("conversion failed")
)

// fileConverter is the conversion surface used by the CLI.
type fileConverter interface {
	Convert(ctx context.Context, req md2html.Request) md2html.Result
}

// Compile-time interface implementation check.
var _ fileConverter = (*md2html.Converter)(nil)

// ConversionResult holds the outcome of a single file, including the
// optional PDF export.
type ConversionResult struct {
	md2html.Result
	PDFPath string
	PDFErr  error
}

// Failed reports whether the HTML conversion or the PDF export failed.
func (r ConversionResult) Failed() bool {
	return !r.Success || r.PDFErr != nil
}

// Cause returns the first failure of r, or nil.
func (r ConversionResult) Cause() error {
	if !r.Success {
		if r.Err == nil {
			return ErrConversionFailed
		}
		return r.Err
	}
	return r.PDFErr
}

// batchJob bundles what every worker shares.
type batchJob struct {
	converter fileConverter
	options   md2html.Options
	workers   int
	exporter  exporter // nil unless --pdf
}

// convertBatch processes files concurrently with a bounded pool of workers
// sharing one converter. After cancellation, unscheduled files report
// context.Canceled while in-flight files finish.
func convertBatch(ctx context.Context, job batchJob, files []FileToConvert) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := job.workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{Result: md2html.Result{
						Source:      files[idx].InputPath,
						Destination: files[idx].OutputPath,
						Err:         err,
					}}
					continue
				}
				results[idx] = convertFile(ctx, job, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one file and exports it to PDF when requested.
func convertFile(ctx context.Context, job batchJob, f FileToConvert) ConversionResult {
	res := ConversionResult{Result: job.converter.Convert(ctx, md2html.Request{
		Source:      f.InputPath,
		Destination: f.OutputPath,
		Options:     job.options,
	})}
	if !res.Success || job.exporter == nil {
		return res
	}

	start := time.Now()
	res.PDFPath, res.PDFErr = job.exporter.Export(ctx, res.Destination)
	res.Duration += time.Since(start)
	return res
}

// htmlResults extracts the library results for statistics.
func htmlResults(results []ConversionResult) []md2html.Result {
	out := make([]md2html.Result, len(results))
	for i, r := range results {
		out[i] = r.Result
	}
	return out
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Failed() {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// batchError reports failed files. It matches ErrConversionFailed and the
// first failure, so exit codes follow the underlying cause.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	if e.total == 1 {
		return e.first.Error()
	}
	return fmt.Sprintf("%d of %d files failed", e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return []error{ErrConversionFailed, e.first}
}

// batchErr returns a *batchError when any result failed.
func batchErr(results []ConversionResult) error {
	var first error
	failed := 0
	for _, r := range results {
		if r.Failed() {
			if first == nil {
				first = r.Cause()
			}
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return &batchError{failed: failed, total: len(results), first: first}
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the number of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)
	fail := color.New(color.FgRed, color.Bold)
	ok := color.New(color.FgGreen)

	for _, r := range results {
		if !r.Success {
			fail.Fprint(env.Stderr, "FAILED")
			fmt.Fprintf(env.Stderr, " %s: %v\n", r.Source, r.Cause())
			continue
		}
		if r.PDFErr != nil {
			fail.Fprint(env.Stderr, "FAILED")
			fmt.Fprintf(env.Stderr, " PDF for %s: %v\n", r.Destination, r.PDFErr)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %d images)\n",
				r.Source, r.Destination, r.Duration.Round(time.Millisecond), r.Images)
		} else {
			ok.Fprint(env.Stdout, "Created")
			fmt.Fprintf(env.Stdout, " %s\n", r.Destination)
		}
		if r.PDFPath != "" {
			ok.Fprint(env.Stdout, "Created")
			fmt.Fprintf(env.Stdout, " %s\n", r.PDFPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// printStats writes the batch statistics table.
func printStats(w io.Writer, stats md2html.Stats) {
	label := color.New(color.Bold)
	row := func(name, format string, args ...any) {
		label.Fprintf(w, "%-18s", name)
		fmt.Fprintf(w, format+"\n", args...)
	}

	fmt.Fprintln(w)
	row("Files:", "%d", stats.Total)
	row("Successful:", "%d", stats.Successful)
	row("Failed:", "%d", stats.Failed)
	row("Success rate:", "%.1f%%", stats.SuccessRate())
	row("Total time:", "%v", stats.TotalDuration.Round(time.Millisecond))
	row("Average time:", "%v", stats.AverageDuration.Round(time.Millisecond))
	row("Output size:", "%s", formatBytes(stats.TotalSize))
	row("Images embedded:", "%d", stats.TotalImages)
}

// formatBytes renders n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
