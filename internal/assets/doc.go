// Package assets provides the stylesheets, scripts and page template that
// make up document themes.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - overrides from a directory on disk
//	    └── AssetResolver     - custom first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/{theme}.css
//	├── scripts/{theme}.js       # mermaid.js holds the diagram bootstrap
//	└── templates/document.html  # html/template page shell
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
