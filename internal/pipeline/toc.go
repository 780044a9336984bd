package pipeline

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// DefaultTOCDepth is the deepest heading level listed in the TOC.
const DefaultTOCDepth = 3

// PermalinkSymbol is the text of the anchor appended to TOC headings.
const PermalinkSymbol = "¶"

// Heading is a TOC entry collected from the document.
type Heading struct {
	Level int
	ID    string
	Text  string
}

var headingsKey = parser.NewContextKey()

// headingCollector records headings up to maxDepth and appends a permalink
// anchor to each of them.
type headingCollector struct {
	maxDepth int
}

// Transform implements parser.ASTTransformer.
func (c *headingCollector) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	var headings []Heading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level > c.maxDepth {
			return ast.WalkSkipChildren, nil
		}

		id := headingID(h)
		headings = append(headings, Heading{
			Level: h.Level,
			ID:    id,
			Text:  headingText(h, src),
		})
		if id != "" {
			h.AppendChild(h, newPermalink(id))
		}
		return ast.WalkSkipChildren, nil
	})

	pc.Set(headingsKey, headings)
}

// collectedHeadings returns the headings stored by headingCollector.
func collectedHeadings(pc parser.Context) []Heading {
	headings, _ := pc.Get(headingsKey).([]Heading)
	return headings
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// headingText flattens the inline content of a heading to plain text.
func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func newPermalink(id string) *ast.Link {
	link := ast.NewLink()
	link.Destination = []byte("#" + id)
	link.Title = []byte("Permanent link")
	link.SetAttributeString("class", []byte("headerlink"))
	link.AppendChild(link, ast.NewString([]byte(PermalinkSymbol)))
	return link
}

// depthState computes nesting depth for TOC entries.
// The first heading becomes depth 1 and level jumps nest one step only.
type depthState struct {
	firstLevel int
	last       int
}

func (s *depthState) next(level int) int {
	if s.firstLevel == 0 {
		s.firstLevel = level
	}
	depth := level - s.firstLevel + 1
	if depth < 1 {
		depth = 1
	}
	if s.last > 0 && depth > s.last+1 {
		depth = s.last + 1
	}
	s.last = depth
	return depth
}

// RenderTOC renders headings as nested lists inside <div class="toc">.
// Returns "" when there are no headings.
func RenderTOC(headings []Heading) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("<div class=\"toc\">\n")

	var state depthState
	open := 0
	for _, h := range headings {
		depth := state.next(h.Level)
		if depth > open {
			for open < depth {
				buf.WriteString("<ul>\n")
				open++
			}
		} else {
			buf.WriteString("</li>\n")
			for open > depth {
				buf.WriteString("</ul>\n</li>\n")
				open--
			}
		}
		buf.WriteString(`<li><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a>`)
	}

	buf.WriteString("</li>\n")
	for ; open > 1; open-- {
		buf.WriteString("</ul>\n</li>\n")
	}
	buf.WriteString("</ul>\n</div>\n")
	return buf.String()
}
