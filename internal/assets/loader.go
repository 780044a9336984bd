package assets

// Asset kinds. Each kind lives in its own directory with a fixed extension.
const (
	KindStyle    = "styles"
	KindScript   = "scripts"
	KindTemplate = "templates"
)

// extensions maps an asset kind to its file extension.
var extensions = map[string]string{
	KindStyle:    ".css",
	KindScript:   ".js",
	KindTemplate: ".html",
}

// notFound maps an asset kind to its not-found sentinel.
var notFound = map[string]error{
	KindStyle:    ErrStyleNotFound,
	KindScript:   ErrScriptNotFound,
	KindTemplate: ErrTemplateNotFound,
}

// AssetLoader loads theme stylesheets, scripts and page templates by name.
type AssetLoader interface {
	// LoadStyle loads a stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadScript loads a script by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadTemplate loads a page template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}
