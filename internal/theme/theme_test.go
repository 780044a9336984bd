package theme

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-md2html/internal/assets"
)

func parsePage(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing rendered page: %v", err)
	}
	return doc
}

func TestLookup_UnknownFallsBackToDefault(t *testing.T) {
	t.Parallel()

	def := Lookup("default")
	for _, name := range []string{"", "nonexistent", "../default"} {
		got := Lookup(name)
		if got.Name() != DefaultTheme {
			t.Errorf("Lookup(%q).Name() = %q, want default", name, got.Name())
		}
		if got.Styles() != def.Styles() || got.Script(true) != def.Script(true) {
			t.Errorf("Lookup(%q) payload differs from default", name)
		}
	}
}

func TestLookup_BuiltinThemes(t *testing.T) {
	t.Parallel()

	wantLayouts := map[string]Layout{
		"default":      LayoutSidebar,
		"minimal":      LayoutReading,
		"professional": LayoutPrint,
	}
	if got := Names(); !slices.Equal(got, []string{"default", "minimal", "professional"}) {
		t.Fatalf("Names() = %v", got)
	}

	for name, layout := range wantLayouts {
		th := Lookup(name)
		if th.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, th.Name())
		}
		if th.Layout() != layout {
			t.Errorf("Lookup(%q).Layout() = %q, want %q", name, th.Layout(), layout)
		}
		if th.Description() == "" || th.Description() != Describe(name) {
			t.Errorf("Lookup(%q) description mismatch", name)
		}
		if !strings.Contains(th.Styles(), ".chroma") {
			t.Errorf("Lookup(%q).Styles() lacks highlighting rules", name)
		}
		if strings.Contains(th.Script(false), "mermaid.initialize") {
			t.Errorf("Lookup(%q).Script(false) should not bootstrap diagrams", name)
		}
		if !strings.Contains(th.Script(true), "mermaid.initialize") {
			t.Errorf("Lookup(%q).Script(true) should bootstrap diagrams", name)
		}
	}
	if Describe("neon") != "" {
		t.Error("Describe(neon) should be empty")
	}
}

func TestRender_DiagramPage(t *testing.T) {
	t.Parallel()

	page, err := Render(Page{
		Theme:      "minimal",
		Title:      "Flow",
		Body:       "<div class=\"mermaid\">graph TD; A-->B</div>\n",
		HasDiagram: true,
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Error("page should start with the HTML5 doctype")
	}
	if !strings.Contains(page, `<div class="mermaid">graph TD; A-->B</div>`) {
		t.Error("diagram container should be inserted verbatim")
	}

	doc := parsePage(t, page)
	script := doc.Find("script").Text()
	for _, want := range []string{
		"https://cdn.bootcdn.net/ajax/libs/mermaid/10.6.1/mermaid.min.js",
		"https://unpkg.com/mermaid@10/dist/mermaid.min.js",
		"https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js",
		"mermaid-fallback",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script should contain %q", want)
		}
	}
	bootcdn := strings.Index(script, "bootcdn")
	unpkg := strings.Index(script, "unpkg")
	jsdelivr := strings.Index(script, "jsdelivr")
	if bootcdn >= unpkg || unpkg >= jsdelivr {
		t.Error("diagram sources should be tried in order bootcdn, unpkg, jsdelivr")
	}
}

func TestRender_PayloadsVerbatim(t *testing.T) {
	t.Parallel()

	th := Lookup("professional")
	page, err := Render(Page{Theme: "professional", Title: "T", Body: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(page, th.Styles()) {
		t.Error("stylesheet should be inserted unescaped")
	}
	if !strings.Contains(page, th.Script(false)) {
		t.Error("script should be inserted unescaped")
	}
}

func TestRender_Regions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    Page
		wantTOC bool
	}{
		{
			name:    "with contents",
			page:    Page{Title: "Doc", Body: "<h1 id=\"a\">A</h1>", TOC: "<div class=\"toc\">\n<ul>\n<li><a href=\"#a\">A</a></li>\n</ul>\n</div>\n"},
			wantTOC: true,
		},
		{
			name:    "empty document",
			page:    Page{Title: "empty"},
			wantTOC: false,
		},
		{
			name:    "blank contents",
			page:    Page{Title: "Doc", Body: "<p>text</p>", TOC: "\n"},
			wantTOC: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := Render(tt.page)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			doc := parsePage(t, page)

			if got := doc.Find("#toc-sidebar.toc-sidebar").Length() == 1; got != tt.wantTOC {
				t.Errorf("TOC region present = %v, want %v", got, tt.wantTOC)
			}
			content := doc.Find("div.content#main-content")
			if content.Length() != 1 {
				t.Fatal("content region missing")
			}
			if tt.page.Body == "" && strings.TrimSpace(content.Text()) != "" {
				t.Errorf("content region should be empty, got %q", content.Text())
			}
			if doc.Find("title").Text() != tt.page.Title {
				t.Errorf("title = %q, want %q", doc.Find("title").Text(), tt.page.Title)
			}
			if doc.Find(".header .meta").Text() != "Contains 0 images" {
				t.Errorf("image summary = %q", doc.Find(".header .meta").Text())
			}
		})
	}
}

func TestRender_LocalizedAndFooter(t *testing.T) {
	t.Parallel()

	page, err := Render(Page{
		Locale:     "zh-CN",
		Title:      "<报告>",
		Body:       "<p>x</p>",
		TOC:        "<div class=\"toc\"></div>",
		Images:     2,
		FooterNote: "Internal",
		Date:       "2026-03-07",
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	doc := parsePage(t, page)

	if lang, _ := doc.Find("html").Attr("lang"); lang != "zh-CN" {
		t.Errorf("lang = %q, want zh-CN", lang)
	}
	if got := doc.Find("#toc-sidebar h2").Text(); got != "目录" {
		t.Errorf("TOC heading = %q", got)
	}
	if got := doc.Find(".header .meta").Text(); got != "包含 2 张图片" {
		t.Errorf("image summary = %q", got)
	}
	if got := doc.Find(".footer .footer-note").Text(); got != "Internal" {
		t.Errorf("footer note = %q", got)
	}
	if got := doc.Find(".footer .footer-date").Text(); got != "2026-03-07" {
		t.Errorf("footer date = %q", got)
	}
	if label, _ := doc.Find("body").Attr("data-copy-label"); label != "复制" {
		t.Errorf("copy label = %q", label)
	}
	if !strings.Contains(page, "<title>&lt;报告&gt;</title>") {
		t.Error("title should be escaped")
	}
	if class, _ := doc.Find("body").Attr("class"); class != "theme-default layout-sidebar" {
		t.Errorf("body class = %q", class)
	}
}

func TestNewRegistry_CustomAssets(t *testing.T) {
	t.Parallel()

	resolver, err := assets.NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver() error: %v", err)
	}
	reg, err := NewRegistry(resolver, "monokai")
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	if reg.Lookup("minimal").Styles() == Lookup("minimal").Styles() {
		t.Error("highlight style should change the stylesheet")
	}
}

type missingLoader struct{ assets.AssetLoader }

func (missingLoader) LoadTemplate(string) (string, error) {
	return "", assets.ErrTemplateNotFound
}

func TestNewRegistry_MissingTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(missingLoader{assets.NewEmbeddedLoader()}, "github")
	if !errors.Is(err, ErrThemeAssets) {
		t.Errorf("NewRegistry() error = %v, want ErrThemeAssets", err)
	}
}
