package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExpandAbbreviations wraps every standalone occurrence of a defined term
// in <abbr title="...">. Text inside pre, code, script, style, abbr and
// diagram containers is left alone. With no abbreviations the fragment is
// returned unchanged.
func ExpandAbbreviations(fragment string, abbrs []Abbreviation) (string, error) {
	if len(abbrs) == 0 || strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	titles := make(map[string]string, len(abbrs))
	terms := make([]string, 0, len(abbrs))
	for _, a := range abbrs {
		if a.Term == "" {
			continue
		}
		if _, ok := titles[a.Term]; !ok {
			terms = append(terms, a.Term)
		}
		titles[a.Term] = a.Title
	}

	if len(terms) == 0 {
		return fragment, nil
	}

	// Longest first so "HTML5" wins over "HTML".
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = termPattern(term)
	}
	pattern := regexp.MustCompile(strings.Join(quoted, "|"))

	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	expandNode(root, pattern, titles)
	return renderFragment(root)
}

// termPattern quotes term and anchors each end that is an ASCII word
// character at a word boundary. Ends like the "+" of C++ or the "." of .NET,
// and scripts written without spaces, match wherever they appear.
func termPattern(term string) string {
	p := regexp.QuoteMeta(term)
	if isWordByte(term[0]) {
		p = `\b` + p
	}
	if isWordByte(term[len(term)-1]) {
		p += `\b`
	}
	return p
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// parseFragment parses HTML with a body context so no html/head/body
// wrapper is introduced.
func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// renderFragment renders the children of a container built by parseFragment.
func renderFragment(root *html.Node) (string, error) {
	var buf strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func expandNode(n *html.Node, pattern *regexp.Regexp, titles map[string]string) {
	if n.Type == html.ElementNode && skipAbbreviation(n) {
		return
	}

	// Capture next before replacing, the current child may be split.
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode {
			splitText(c, pattern, titles)
		} else {
			expandNode(c, pattern, titles)
		}
		c = next
	}
}

func skipAbbreviation(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Pre, atom.Code, atom.Script, atom.Style, atom.Abbr:
		return true
	case atom.Div:
		for _, a := range n.Attr {
			if a.Key == "class" && a.Val == "mermaid" {
				return true
			}
		}
	}
	return false
}

// splitText replaces a text node with text and <abbr> siblings.
func splitText(n *html.Node, pattern *regexp.Regexp, titles map[string]string) {
	locs := pattern.FindAllStringIndex(n.Data, -1)
	if len(locs) == 0 {
		return
	}

	parent := n.Parent
	text := n.Data
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[prev:loc[0]]}, n)
		}
		term := text[loc[0]:loc[1]]
		abbr := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Abbr,
			Data:     "abbr",
			Attr:     []html.Attribute{{Key: "title", Val: titles[term]}},
		}
		abbr.AppendChild(&html.Node{Type: html.TextNode, Data: term})
		parent.InsertBefore(abbr, n)
		prev = loc[1]
	}
	if prev < len(text) {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: text[prev:]}, n)
	}
	parent.RemoveChild(n)
}
