// Package pipeline implements the Markdown rewriting and conversion stages.
//
// Stages run in this order for one document:
//   - image inlining (ImageRewriter): local images become data URIs
//   - diagram rewriting (RewriteDiagrams): mermaid fences become containers
//   - preprocessing (MarkdownPreprocessor): line endings, abbreviations
//   - conversion (GoldmarkConverter): HTML fragment, TOC and front matter
//
// The rewriters are pure text passes and know nothing about HTML. Wrapping
// the fragment in a themed page is handled by the theme package.
package pipeline
