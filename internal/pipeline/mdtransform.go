package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// BlankLinePlaceholder stands in for blank lines inside diagram containers.
// Goldmark ends a raw HTML block at the first blank line, so blank lines are
// swapped for this Private Use Area character before conversion and removed
// again by RestoreBlankLines.
const BlankLinePlaceholder = "\uE000"

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// *[ABBR]: expansion, matched one line at a time
	abbrDefinition = regexp.MustCompile(`^\*\[([^\]]+)\][ ]?:[ \t]*(.*?)[ \t]*$`)

	// MultiMarkdown metadata: "Key: value" and indented continuation lines
	metaLine         = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)
	metaContinuation = regexp.MustCompile(`^[ ]{4,}(.*)$`)

	// Rewritten diagram containers, possibly multi-line
	diagramContainer = regexp.MustCompile(`(?s)<div class="mermaid">.*?</div>`)
)

// Abbreviation is a term expanded with a title attribute in the output.
type Abbreviation struct {
	Term  string
	Title string
}

// Preprocessed is Markdown ready for goldmark plus data lifted out of it.
type Preprocessed struct {
	Markdown      string
	Abbreviations []Abbreviation
	Meta          map[string]any // undelimited header; keys lowercased
}

// Preprocessor prepares rewritten Markdown for conversion.
type Preprocessor interface {
	Preprocess(ctx context.Context, content string) Preprocessed
}

// MarkdownPreprocessor normalizes line endings, lifts an undelimited
// metadata header and abbreviation definitions, and protects diagram
// containers from goldmark's block rules.
type MarkdownPreprocessor struct{}

// Preprocess applies all transformations in order.
func (p *MarkdownPreprocessor) Preprocess(ctx context.Context, content string) Preprocessed {
	if ctx.Err() != nil {
		return Preprocessed{Markdown: content}
	}

	content = NormalizeLineEndings(content)
	content, meta := extractMeta(content)
	content, abbrs := extractAbbreviations(content)
	content = protectDiagramBlankLines(content)
	return Preprocessed{Markdown: content, Abbreviations: abbrs, Meta: meta}
}

// NormalizeLineEndings converts \r\n and \r to \n. The text rewriters
// expect \n line endings.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// extractMeta lifts a MultiMarkdown header: "Key: value" lines at the very
// top, indented lines continuing the previous key, ended by a blank line or
// the first line of another shape. Delimited front matter is left to the
// front matter extension. Single values are strings, continued values
// []string.
func extractMeta(content string) (string, map[string]any) {
	if strings.HasPrefix(content, "---") || strings.HasPrefix(content, "+++") {
		return content, nil
	}

	lines := strings.SplitAfter(content, "\n")
	values := map[string][]string{}
	var order []string
	key := ""
	consumed := 0
	for _, line := range lines {
		text := strings.TrimSuffix(line, "\n")
		if strings.TrimSpace(text) == "" {
			if key != "" {
				consumed += len(line)
			}
			break
		}
		if m := metaLine.FindStringSubmatch(text); m != nil {
			key = strings.ToLower(m[1])
			if _, ok := values[key]; !ok {
				order = append(order, key)
			}
			values[key] = append(values[key], strings.TrimSpace(m[2]))
		} else if m := metaContinuation.FindStringSubmatch(text); m != nil && key != "" {
			values[key] = append(values[key], strings.TrimSpace(m[1]))
		} else {
			break
		}
		consumed += len(line)
	}
	if len(order) == 0 {
		return content, nil
	}

	meta := make(map[string]any, len(order))
	for _, k := range order {
		if v := values[k]; len(v) == 1 {
			meta[k] = v[0]
		} else {
			meta[k] = v
		}
	}
	return content[consumed:], meta
}

// extractAbbreviations removes *[TERM]: title lines and returns the
// definitions in order. A later definition of the same term wins. Lines
// inside fenced code and diagram containers are content, never definitions.
func extractAbbreviations(content string) (string, []Abbreviation) {
	if !strings.Contains(content, "*[") {
		return content, nil
	}

	var (
		out       strings.Builder
		abbrs     []Abbreviation
		index     = map[string]int{}
		fence     string // opening fence while inside a fenced block
		inDiagram bool
	)
	out.Grow(len(content))

	for _, line := range strings.SplitAfter(content, "\n") {
		text := strings.TrimSuffix(line, "\n")
		switch {
		case fence != "":
			if closesFence(text, fence) {
				fence = ""
			}
		case inDiagram:
			if strings.Contains(text, diagramClose) {
				inDiagram = false
			}
		default:
			if f := openingFence(text); f != "" {
				fence = f
				break
			}
			if strings.HasPrefix(strings.TrimLeft(text, " "), diagramOpen) {
				inDiagram = !strings.Contains(text, diagramClose)
				break
			}
			m := abbrDefinition.FindStringSubmatch(text)
			if m == nil {
				break
			}
			if term := strings.TrimSpace(m[1]); term != "" {
				if i, ok := index[term]; ok {
					abbrs[i].Title = m[2]
				} else {
					index[term] = len(abbrs)
					abbrs = append(abbrs, Abbreviation{Term: term, Title: m[2]})
				}
			}
			continue
		}
		out.WriteString(line)
	}
	return out.String(), abbrs
}

// openingFence returns the backtick or tilde run opening a fenced code
// block on line, or "".
func openingFence(line string) string {
	trimmed, ok := trimFenceIndent(line)
	if !ok || len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return ""
	}
	run := leadingRun(trimmed, trimmed[0])
	if run < 3 {
		return ""
	}
	if trimmed[0] == '`' && strings.Contains(trimmed[run:], "`") {
		return ""
	}
	return trimmed[:run]
}

// closesFence reports whether line closes a block opened by fence.
func closesFence(line, fence string) bool {
	trimmed, ok := trimFenceIndent(line)
	if !ok {
		return false
	}
	trimmed = strings.TrimRight(trimmed, " \t")
	run := leadingRun(trimmed, fence[0])
	return run >= len(fence) && run == len(trimmed)
}

// trimFenceIndent strips up to three leading spaces; more makes the line
// indented code rather than a fence.
func trimFenceIndent(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	return trimmed, len(line)-len(trimmed) <= 3
}

func leadingRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// protectDiagramBlankLines replaces blank lines inside diagram containers
// with BlankLinePlaceholder.
func protectDiagramBlankLines(content string) string {
	return diagramContainer.ReplaceAllStringFunc(content, func(block string) string {
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				lines[i] = BlankLinePlaceholder
			}
		}
		return strings.Join(lines, "\n")
	})
}

// RestoreBlankLines removes the placeholders left by protectDiagramBlankLines.
func RestoreBlankLines(htmlContent string) string {
	return strings.ReplaceAll(htmlContent, BlankLinePlaceholder, "")
}
