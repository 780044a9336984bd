package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, base, kind, file, content string) {
	t.Helper()
	dir := filepath.Join(base, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFilesystemLoader(""); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing")
		if _, err := NewFilesystemLoader(missing); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
		if _, err := NewFilesystemLoader(filePath); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, KindStyle, "custom.css", "body { color: red; }")
	writeAsset(t, base, KindScript, "custom.js", "console.log(1);")
	writeAsset(t, base, KindTemplate, "document.html", "<html>{{.Body}}</html>")

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	tests := []struct {
		name    string
		load    func(string) (string, error)
		asset   string
		want    string
		wantErr error
	}{
		{name: "style", load: loader.LoadStyle, asset: "custom", want: "body { color: red; }"},
		{name: "script", load: loader.LoadScript, asset: "custom", want: "console.log(1);"},
		{name: "template", load: loader.LoadTemplate, asset: "document", want: "<html>{{.Body}}</html>"},
		{name: "missing style", load: loader.LoadStyle, asset: "other", wantErr: ErrStyleNotFound},
		{name: "missing script", load: loader.LoadScript, asset: "other", wantErr: ErrScriptNotFound},
		{name: "missing template", load: loader.LoadTemplate, asset: "other", wantErr: ErrTemplateNotFound},
		{name: "invalid name", load: loader.LoadStyle, asset: "../custom", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.load(tt.asset)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("load(%q) error = %v, want %v", tt.asset, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("load(%q) unexpected error: %v", tt.asset, err)
			}
			if got != tt.want {
				t.Errorf("load(%q) = %q, want %q", tt.asset, got, tt.want)
			}
		})
	}
}

func TestFilesystemLoader_PathContainment(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.css"), []byte("secret"), 0o644); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, KindStyle), 0o755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}
	link := filepath.Join(base, KindStyle, "escape.css")
	if err := os.Symlink(filepath.Join(outside, "secret.css"), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}
	if _, err := loader.LoadStyle("escape"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle(escape) error = %v, want ErrPathTraversal", err)
	}
}
