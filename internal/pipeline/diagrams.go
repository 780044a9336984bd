package pipeline

import (
	"regexp"
	"strings"
)

// DiagramLanguage is the fence info string marking a diagram block.
const DiagramLanguage = "mermaid"

// diagramPattern matches a fenced mermaid block. (?s) lets the lazy body
// span lines; the body may be empty.
var diagramPattern = regexp.MustCompile("(?s)```" + DiagramLanguage + "[ \\t]*\\n(.*?)\\n?```")

// Diagram container markup recognized by the client-side renderer.
const (
	diagramOpen  = `<div class="mermaid">`
	diagramClose = `</div>`
)

// RewriteDiagrams replaces every mermaid fence with a mermaid container
// holding the raw fence body. Other fences are left alone.
func RewriteDiagrams(markdown string) string {
	return diagramPattern.ReplaceAllStringFunc(markdown, func(match string) string {
		body := diagramPattern.FindStringSubmatch(match)[1]
		return diagramOpen + body + diagramClose + "\n"
	})
}

// HasDiagrams reports whether markdown contains a mermaid fence.
func HasDiagrams(markdown string) bool {
	return diagramPattern.MatchString(markdown)
}

// ExtractDiagrams returns the body of every mermaid fence in source order.
func ExtractDiagrams(markdown string) []string {
	matches := diagramPattern.FindAllStringSubmatch(markdown, -1)
	bodies := make([]string, 0, len(matches))
	for _, m := range matches {
		bodies = append(bodies, m[1])
	}
	return bodies
}

// HasDiagramMarkup reports whether rendered HTML contains a mermaid container.
func HasDiagramMarkup(htmlContent string) bool {
	return strings.Contains(htmlContent, diagramOpen)
}
