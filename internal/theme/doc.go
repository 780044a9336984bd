// Package theme turns a converted HTML fragment into a complete, themed
// HTML document.
//
// Themes are a closed set: default, minimal and professional. Each one
// pairs a stylesheet and a script from the assets package with a layout.
// Unknown names resolve to the default theme.
//
//	reg, _ := theme.NewRegistry(assets.NewEmbeddedLoader(), "github")
//	page, _ := reg.Render(theme.Page{Theme: "minimal", Title: "Notes", Body: body})
package theme
