package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcher_Relevant(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	top := writeFile(t, root, "top.md", "# Top")
	nested := writeFile(t, root, "sub/nested.md", "# Nested")
	notes := writeFile(t, root, "notes.txt", "text")
	draft := writeFile(t, root, "draft.md", "# Draft")

	tests := []struct {
		name string
		w    *watcher
		path string
		want bool
	}{
		{"file root matches itself", &watcher{root: top}, top, true},
		{"file root ignores siblings", &watcher{root: top}, draft, false},
		{"dir markdown", &watcher{root: root, options: discoveryOptions{recursive: true}}, top, true},
		{"dir non markdown", &watcher{root: root, options: discoveryOptions{recursive: true}}, notes, false},
		{"dir nested recursive", &watcher{root: root, options: discoveryOptions{recursive: true}}, nested, true},
		{"dir nested flat", &watcher{root: root}, nested, false},
		{"pattern filters", &watcher{root: root, options: discoveryOptions{recursive: true, patterns: []string{"top*"}}}, draft, false},
		{"deleted file", &watcher{root: root, options: discoveryOptions{recursive: true}}, filepath.Join(root, "gone.md"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.w.relevant(tt.path); got != tt.want {
				t.Errorf("relevant(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcher_WatchDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := writeFile(t, root, "a/b/doc.md", "# Doc")

	tests := []struct {
		name string
		w    *watcher
		want []string
	}{
		{"file", &watcher{root: file}, []string{filepath.Dir(file)}},
		{"flat dir", &watcher{root: root}, []string{root}},
		{"recursive dir", &watcher{root: root, options: discoveryOptions{recursive: true}},
			[]string{root, filepath.Join(root, "a"), filepath.Join(root, "a", "b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.w.watchDirs()
			if err != nil {
				t.Fatalf("watchDirs() error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("watchDirs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatcher_FilesFor(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	b := writeFile(t, root, "sub/b.md", "# B")
	a := writeFile(t, root, "a.md", "# A")
	out := t.TempDir()

	w := &watcher{root: root, output: out}
	files := w.filesFor(map[string]bool{b: true, a: true, filepath.Join(root, "gone.md"): true})

	if len(files) != 2 {
		t.Fatalf("filesFor() = %v, want 2 files", files)
	}
	if files[0].InputPath != a || files[1].InputPath != b {
		t.Errorf("files not sorted: %v", files)
	}
	if want := filepath.Join(out, "sub", "b.html"); files[1].OutputPath != want {
		t.Errorf("OutputPath = %s, want %s", files[1].OutputPath, want)
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := writeFile(t, root, "doc.md", "# One")
	conv := &stubConverter{}
	env, stdout, _ := testEnv(nil)

	w := &watcher{
		job:      batchJob{converter: conv, workers: 1},
		root:     root,
		options:  discoveryOptions{recursive: true},
		flags:    &convertFlags{},
		env:      env,
		logger:   discardLogger(),
		debounce: 20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, nil) }()

	// The watcher subscribes asynchronously; keep touching the file until a
	// conversion is observed.
	deadline := time.Now().Add(5 * time.Second)
	for conv.calls.Load() == 0 && time.Now().Before(deadline) {
		if err := os.WriteFile(src, []byte("# Two"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return after cancel")
	}

	if conv.calls.Load() == 0 {
		t.Fatal("no conversion after a file change")
	}
	if !strings.Contains(stdout.String(), "Watching "+root) {
		t.Errorf("stdout = %q, want watching banner", stdout.String())
	}
}
