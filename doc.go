// Package md2html converts Markdown documents into styled, self-contained
// HTML pages.
//
// # Quick Start
//
//	conv, err := md2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := conv.Convert(ctx, md2html.Request{
//	    Source:  "report.md",
//	    Options: md2html.DefaultOptions(),
//	})
//	if !res.Success {
//	    log.Fatal(res.Err)
//	}
//
// Convert never returns an error value directly: the Result records
// success, the destination written (report.html by default), its size, the
// number of images embedded and the elapsed time. Use errors.Is on
// Result.Err with the sentinels in this package.
//
// # Conversion Pipeline
//
//  1. Local images are inlined as base64 data URIs (Options.EmbedImages).
//     Remote and data: references are left alone; misses are logged.
//  2. mermaid fences become <div class="mermaid"> containers
//     (Options.ProcessMermaid).
//  3. Markdown is rendered by goldmark: tables, highlighted code, TOC with
//     permalinks, hard wraps, attributes, definition lists, footnotes,
//     front matter (YAML or TOML) and abbreviations.
//  4. The fragment is wrapped in the selected theme's page: default,
//     minimal or professional. Unknown names use default.
//
// # In-memory rendering
//
// Callers that generate their own Markdown can skip the file system:
//
//	doc, err := conv.Render(ctx, markdown, baseDir, "Report", md2html.DefaultOptions())
//
// # Configuration
//
//	conv, err := md2html.NewConverter(
//	    md2html.WithLogger(logger),
//	    md2html.WithLocale("zh"),
//	    md2html.WithAssetPath("/path/to/custom/assets"),
//	    md2html.WithFooterDate("auto:long"),
//	)
//
// A Converter is safe for concurrent use; see ResolvePoolSize for sizing a
// worker pool.
package md2html
