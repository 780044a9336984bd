package pipeline

import (
	"reflect"
	"strings"
	"testing"
)

func TestRewriteDiagrams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name:     "single line body",
			markdown: "```mermaid\ngraph TD; A-->B;\n```\n",
			want:     "<div class=\"mermaid\">graph TD; A-->B;</div>\n\n",
		},
		{
			name:     "multi line body",
			markdown: "before\n\n```mermaid\ngraph TD\n  A-->B\n  B-->C\n```\n\nafter",
			want:     "before\n\n<div class=\"mermaid\">graph TD\n  A-->B\n  B-->C</div>\n\n\nafter",
		},
		{
			name:     "empty body",
			markdown: "```mermaid\n```",
			want:     "<div class=\"mermaid\"></div>\n",
		},
		{
			name:     "other fences untouched",
			markdown: "```go\nfmt.Println(1)\n```\n",
			want:     "```go\nfmt.Println(1)\n```\n",
		},
		{
			name:     "similar language tag untouched",
			markdown: "```mermaidjs\nx\n```\n",
			want:     "```mermaidjs\nx\n```\n",
		},
		{
			name:     "no fences",
			markdown: "plain",
			want:     "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RewriteDiagrams(tt.markdown); got != tt.want {
				t.Errorf("RewriteDiagrams() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRewriteDiagrams_LeavesNeighbouringCodeBlocks(t *testing.T) {
	t.Parallel()

	md := "```python\nprint(1)\n```\n\n```mermaid\nsequenceDiagram\n  A->>B: hi\n```\n\n```bash\necho ok\n```\n"
	got := RewriteDiagrams(md)

	for _, keep := range []string{"```python\nprint(1)\n```", "```bash\necho ok\n```"} {
		if !strings.Contains(got, keep) {
			t.Errorf("output lost %q:\n%s", keep, got)
		}
	}
	if !strings.Contains(got, "<div class=\"mermaid\">sequenceDiagram\n  A->>B: hi</div>") {
		t.Errorf("diagram not rewritten:\n%s", got)
	}
}

func TestHasDiagrams_FalseAfterRewrite(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"```mermaid\ngraph LR; X-->Y;\n```",
		"a\n```mermaid\npie\n```\nb\n```mermaid\ngantt\n```\n",
		"```mermaid\n```",
	}
	for _, in := range inputs {
		if !HasDiagrams(in) {
			t.Errorf("HasDiagrams(%q) = false before rewrite", in)
		}
		if out := RewriteDiagrams(in); HasDiagrams(out) {
			t.Errorf("HasDiagrams after rewrite = true for %q", out)
		}
	}
}

func TestExtractDiagrams(t *testing.T) {
	t.Parallel()

	md := "```mermaid\nfirst\n```\n\ntext\n\n```mermaid\nsecond\nline\n```\n"
	got := ExtractDiagrams(md)
	want := []string{"first", "second\nline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractDiagrams() = %q, want %q", got, want)
	}

	if got := ExtractDiagrams("none here"); len(got) != 0 {
		t.Errorf("ExtractDiagrams(no diagrams) = %q, want empty", got)
	}
}

func TestHasDiagramMarkup(t *testing.T) {
	t.Parallel()

	if !HasDiagramMarkup(RewriteDiagrams("```mermaid\nA\n```")) {
		t.Error("rewritten text should carry diagram markup")
	}
	if HasDiagramMarkup("<div class=\"highlight\"></div>") {
		t.Error("unrelated div reported as diagram")
	}
}
