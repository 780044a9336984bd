// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow PDF exports.
func ForTimeout() string {
	return format("for large documents, use --pdf-timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(slashPath(p), "/go-md2html/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoMarkdown returns the hint shown when discovery finds nothing.
func ForNoMarkdown() string {
	return format("looked for " + strings.Join(fileutil.MarkdownExtensions, ", ") +
		"; check --pattern and --recursive")
}

// ForUnknownTheme suggests the closest theme names to name, falling back to
// the full list when nothing is close.
func ForUnknownTheme(name string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	matches := fuzzy.Find(strings.ToLower(name), available)
	if len(matches) > 0 {
		return format("did you mean " + matches[0].Str + "? available: " + strings.Join(available, ", "))
	}
	return format("available: " + strings.Join(available, ", "))
}

// slashPath normalizes Windows separators for substring checks.
func slashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
