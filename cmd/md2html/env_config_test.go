package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/alnah/go-md2html/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{
		"MD2HTML_CONFIG":          "team",
		"MD2HTML_THEME":           "minimal",
		"MD2HTML_EMBED_IMAGES":    "false",
		"MD2HTML_PROCESS_MERMAID": "1",
		"MD2HTML_LOCALE":          "zh-CN",
		"MD2HTML_WORKERS":         "6",
	})
	l, err := newEnvLookup(env, "")
	if err != nil {
		t.Fatalf("newEnvLookup() error: %v", err)
	}

	got, err := loadEnvConfig(l)
	if err != nil {
		t.Fatalf("loadEnvConfig() error: %v", err)
	}
	if got.ConfigPath != "team" || got.Theme != "minimal" || got.Locale != "zh-CN" || got.Workers != 6 {
		t.Errorf("loadEnvConfig() = %+v", got)
	}
	if got.EmbedImages == nil || *got.EmbedImages {
		t.Error("EmbedImages should be set to false")
	}
	if got.ProcessMermaid == nil || !*got.ProcessMermaid {
		t.Error("ProcessMermaid should be set to true")
	}
}

func TestLoadEnvConfig_Unset(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil)
	l, _ := newEnvLookup(env, "")
	got, err := loadEnvConfig(l)
	if err != nil {
		t.Fatalf("loadEnvConfig() error: %v", err)
	}
	if got.EmbedImages != nil || got.ProcessMermaid != nil || got.Workers != 0 || got.Theme != "" {
		t.Errorf("unset variables should leave zero values: %+v", got)
	}
}

func TestLoadEnvConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bool", map[string]string{"MD2HTML_PROCESS_MERMAID": "maybe"}},
		{"workers not a number", map[string]string{"MD2HTML_WORKERS": "four"}},
		{"negative workers", map[string]string{"MD2HTML_WORKERS": "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(tt.vars)
			l, _ := newEnvLookup(env, "")
			if _, err := loadEnvConfig(l); !errors.Is(err, ErrInvalidEnvValue) {
				t.Errorf("loadEnvConfig() error = %v, want ErrInvalidEnvValue", err)
			}
		})
	}
}

func TestEnvLookup_DotenvFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "MD2HTML_THEME=professional\nMD2HTML_LOCALE=zh\n# comment\n")
	env, _, _ := testEnv(map[string]string{"MD2HTML_LOCALE": "en"})

	l, err := newEnvLookup(env, path)
	if err != nil {
		t.Fatalf("newEnvLookup() error: %v", err)
	}
	if got := l.get("MD2HTML_THEME"); got != "professional" {
		t.Errorf("theme = %q, want value from file", got)
	}
	if got := l.get("MD2HTML_LOCALE"); got != "en" {
		t.Errorf("locale = %q, process environment should win", got)
	}
	if got := l.names(); len(got) != 2 {
		t.Errorf("names() = %v, want 2 entries", got)
	}
}

func TestEnvLookup_MissingFile(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil)
	_, err := newEnvLookup(env, filepath.Join(t.TempDir(), "missing.env"))
	if !errors.Is(err, ErrInvalidEnvValue) {
		t.Errorf("newEnvLookup() error = %v, want ErrInvalidEnvValue", err)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{
		"MD2HTML_THEME":  "minimal",
		"MD2HTML_WORKER": "2",
		"MD2HTML_ZZZ":    "x",
		"HOME":           "/root",
	})
	l, _ := newEnvLookup(env, "")
	logger, hook := test.NewNullLogger()

	warnUnknownEnvVars(l, logger)

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d warnings, want 2", len(entries))
	}
	byName := map[string]*logrus.Entry{}
	for _, e := range entries {
		if e.Level != logrus.WarnLevel {
			t.Errorf("level = %v, want warn", e.Level)
		}
		byName[e.Data["variable"].(string)] = e
	}
	if e := byName["MD2HTML_WORKER"]; e == nil || e.Data["suggestion"] != "MD2HTML_WORKERS" {
		t.Errorf("MD2HTML_WORKER should suggest MD2HTML_WORKERS, got %v", e)
	}
	if e := byName["MD2HTML_ZZZ"]; e == nil {
		t.Error("MD2HTML_ZZZ should be reported")
	} else if _, ok := e.Data["suggestion"]; ok {
		t.Errorf("MD2HTML_ZZZ should have no suggestion, got %v", e.Data["suggestion"])
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	off := false
	cfg := config.DefaultConfig()
	applyEnvConfig(&envConfig{Theme: "minimal", EmbedImages: &off, Locale: "zh", Workers: 9}, cfg)

	if cfg.Theme != "minimal" || cfg.EmbedImages || cfg.Locale != "zh" || cfg.Batch.Workers != 9 {
		t.Errorf("applyEnvConfig() = %+v", cfg)
	}
	if !cfg.ProcessMermaid {
		t.Error("unset ProcessMermaid should keep config value")
	}
}
