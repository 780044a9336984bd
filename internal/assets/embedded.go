package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css scripts/*.js templates/*.html
var embedded embed.FS

// EmbeddedLoader loads the built-in theme assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a built-in stylesheet.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(KindStyle, name)
}

// LoadScript loads a built-in script.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return e.load(KindScript, name)
}

// LoadTemplate loads a built-in page template.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(KindTemplate, name)
}

// Names lists the built-in assets of a kind, sorted, without extension.
func (e *EmbeddedLoader) Names(kind string) []string {
	entries, err := fs.ReadDir(embedded, kind)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), extensions[kind]))
	}
	sort.Strings(names)
	return names
}

func (e *EmbeddedLoader) load(kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := embedded.ReadFile(kind + "/" + name + extensions[kind])
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound[kind], name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
