package main

import (
	"strings"
	"testing"
)

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", []string{"md2html"}, ExitUsage, "", "Usage:"},
		{"version", []string{"md2html", "version"}, ExitSuccess, "go-md2html dev", ""},
		{"version flag", []string{"md2html", "--version"}, ExitSuccess, "go-md2html dev", ""},
		{"help", []string{"md2html", "help"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"md2html", "help", "convert"}, ExitSuccess, "--theme", ""},
		{"unknown command", []string{"md2html", "bogus"}, ExitUsage, "", "Unknown command: bogus"},
		{"implicit convert flag", []string{"md2html", "--list-themes"}, ExitSuccess, "minimal", ""},
		{"explicit convert", []string{"md2html", "convert", "--list-themes"}, ExitSuccess, "default", ""},
		{"completion", []string{"md2html", "completion", "bash"}, ExitSuccess, "_md2html", ""},
		{"completion bad shell", []string{"md2html", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
		{"implicit missing markdown", []string{"md2html", "missing.md"}, ExitIO, "", "missing.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, stderr := testEnv(nil)

			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestLooksLikeInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		arg  string
		want bool
	}{
		{"-o", true},
		{"--theme", true},
		{"README.md", true},
		{"notes.markdown", true},
		{dir, true},
		{"convertt", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikeInput(tt.arg); got != tt.want {
			t.Errorf("looksLikeInput(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestMaxprocsLogger(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(nil)
	maxprocsLogger(env.Stderr, false)("set to %d", 4)
	if stderr.Len() != 0 {
		t.Errorf("quiet logger wrote %q", stderr.String())
	}
	maxprocsLogger(env.Stderr, true)("set to %d", 4)
	if stderr.String() != "set to 4\n" {
		t.Errorf("verbose logger wrote %q", stderr.String())
	}
}
