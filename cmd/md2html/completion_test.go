package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"complete -o filenames -F _md2html md2html", "--theme|-t", "minimal", "--pdf-timeout"}},
		{ShellZsh, []string{"#compdef md2html", "{-t,--theme}", "_files -/", "doctor"}},
		{ShellFish, []string{"complete -c md2html -l theme -s t", "-a doctor", "-l footer-date"}},
		{ShellPowerShell, []string{"Register-ArgumentCompleter", "'--no-mermaid'", "'completion'"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Fatalf("error = %v, want ErrUnsupportedShell", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	flags := extractFlagsFromFlagSet(buildConvertFlagSet(&convertFlags{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	tests := []struct {
		name  string
		short string
		typ   flagType
	}{
		{"theme", "t", flagEnum},
		{"output", "o", flagDir},
		{"config", "c", flagFile},
		{"workers", "w", flagInt},
		{"watch", "", flagBool},
		{"footer-text", "", flagString},
	}
	for _, tt := range tests {
		f, ok := byName[tt.name]
		if !ok {
			t.Errorf("flag --%s missing", tt.name)
			continue
		}
		if f.Short != tt.short || f.Type != tt.typ {
			t.Errorf("--%s = {Short:%q Type:%d}, want {Short:%q Type:%d}", tt.name, f.Short, f.Type, tt.short, tt.typ)
		}
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	if err := runCompletion(nil, env); err != nil {
		t.Fatalf("runCompletion() error: %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage: md2html completion <shell>") {
		t.Errorf("usage not printed: %q", stdout.String())
	}

	env, stdout, _ = testEnv(nil)
	if err := runCompletion([]string{"fish"}, env); err != nil {
		t.Fatalf("runCompletion(fish) error: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "# fish completion") {
		t.Errorf("fish script not printed: %q", stdout.String())
	}
}
