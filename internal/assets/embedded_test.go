package assets

import (
	"errors"
	"html/template"
	"slices"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name    string
		style   string
		wantErr error
	}{
		{name: "default", style: "default"},
		{name: "minimal", style: "minimal"},
		{name: "professional", style: "professional"},
		{name: "unknown", style: "neon", wantErr: ErrStyleNotFound},
		{name: "traversal", style: "../styles", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.style, err)
			}
			if strings.TrimSpace(got) == "" {
				t.Errorf("LoadStyle(%q) returned empty content", tt.style)
			}
		})
	}
}

func TestEmbeddedLoader_LoadScript(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	for _, name := range []string{"default", "minimal", "professional", "mermaid"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadScript(name)
			if err != nil {
				t.Fatalf("LoadScript(%q) unexpected error: %v", name, err)
			}
			if strings.TrimSpace(got) == "" {
				t.Errorf("LoadScript(%q) returned empty content", name)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadScript("nope"); !errors.Is(err, ErrScriptNotFound) {
			t.Errorf("LoadScript(nope) error = %v, want ErrScriptNotFound", err)
		}
	})
}

func TestEmbeddedLoader_MermaidFallbackSources(t *testing.T) {
	t.Parallel()

	script, err := NewEmbeddedLoader().LoadScript("mermaid")
	if err != nil {
		t.Fatalf("LoadScript(mermaid) unexpected error: %v", err)
	}
	for _, want := range []string{"bootcdn", "unpkg.com/mermaid@10", "cdn.jsdelivr.net/npm/mermaid@10", "onerror"} {
		if !strings.Contains(script, want) {
			t.Errorf("mermaid script should contain %q", want)
		}
	}
}

func TestEmbeddedLoader_DocumentTemplateParses(t *testing.T) {
	t.Parallel()

	content, err := NewEmbeddedLoader().LoadTemplate("document")
	if err != nil {
		t.Fatalf("LoadTemplate(document) unexpected error: %v", err)
	}
	if _, err := template.New("document").Parse(content); err != nil {
		t.Errorf("document template does not parse: %v", err)
	}
	if _, err := NewEmbeddedLoader().LoadTemplate("cover"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(cover) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestEmbeddedLoader_Names(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	if got, want := loader.Names(KindStyle), []string{"default", "minimal", "professional"}; !slices.Equal(got, want) {
		t.Errorf("Names(styles) = %v, want %v", got, want)
	}
	if got := loader.Names(KindScript); !slices.Contains(got, "mermaid") {
		t.Errorf("Names(scripts) = %v, should contain mermaid", got)
	}
	if got := loader.Names("fonts"); got != nil {
		t.Errorf("Names(fonts) = %v, want nil", got)
	}
}
