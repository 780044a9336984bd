package assets

import "errors"

// AssetResolver serves custom assets first and falls back to the embedded
// ones when a custom asset is missing.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses
// only embedded assets; an invalid one is an error.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a stylesheet, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadScript loads a script, custom first.
func (r *AssetResolver) LoadScript(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadScript(name) })
}

// LoadTemplate loads a page template, custom first.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

// HasCustomLoader returns true if a custom asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are not masked by the fallback.
	if !isNotFoundError(err) {
		return "", err
	}
	return loadFn(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrScriptNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
