package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/assets"
	"github.com/alnah/go-md2html/internal/pipeline"
	"github.com/alnah/go-md2html/internal/theme"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Assets   assetInfo  `json:"assets"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
// Chrome is only needed for --pdf, so a missing browser is a warning.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// assetInfo reports whether every theme could be loaded.
type assetInfo struct {
	Custom string   `json:"custom_path,omitempty"`
	Themes []string `json:"themes,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "print the report as JSON")
	assetPath := fs.String("asset-path", "", "custom asset directory to check")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(env.Stderr, "%v\n", err)
		return ExitUsage
	}

	result := runDoctor(env, *assetPath)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment, assetPath string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkAssets(result, assetPath)
	checkEnvironment(result, env)
	checkSystem(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; --pdf will download Chromium or fail. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- browser path from env or rod lookup
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkAssets loads every theme through the same resolver conversions use.
func checkAssets(result *doctorResult, assetPath string) {
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Asset path unusable: %v", err))
		return
	}
	if resolver.HasCustomLoader() {
		result.Assets.Custom = assetPath
	}
	registry, err := theme.NewRegistry(resolver, pipeline.DefaultHighlightStyle)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Themes not loadable: %v", err))
		return
	}
	for _, name := range theme.Names() {
		result.Assets.Themes = append(result.Assets.Themes, registry.Lookup(name).Name())
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for --pdf")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(env *Environment) (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := env.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used by the browser is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "md2html-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// Report line tags.
const (
	tagOK    = "[OK]"
	tagWarn  = "[WARN]"
	tagError = "[ERROR]"
)

// reportLine is one tagged line of the text report.
type reportLine struct {
	tag  string
	text string
}

// reportSection groups lines under a heading.
type reportSection struct {
	title string
	lines []reportLine
}

// doctorSections turns r into the sections of the text report.
func doctorSections(r *doctorResult) []reportSection {
	themes := reportSection{title: "Themes"}
	if len(r.Assets.Themes) > 0 {
		themes.lines = append(themes.lines, reportLine{tagOK, "Loaded: " + strings.Join(r.Assets.Themes, ", ")})
	} else {
		themes.lines = append(themes.lines, reportLine{tagError, "Not loadable"})
	}
	if r.Assets.Custom != "" {
		themes.lines = append(themes.lines, reportLine{tagOK, "Custom assets: " + r.Assets.Custom})
	}

	chrome := reportSection{title: "Chrome/Chromium (--pdf)"}
	if r.Chrome.Found {
		chrome.lines = append(chrome.lines, reportLine{tagOK, "Found at " + r.Chrome.Path})
		if r.Chrome.Version != "" {
			chrome.lines = append(chrome.lines, reportLine{tagOK, "Version: " + r.Chrome.Version})
		}
		sandbox := "Sandbox: enabled"
		if !r.Chrome.Sandbox {
			sandbox = "Sandbox: disabled (ROD_NO_SANDBOX=1)"
		}
		chrome.lines = append(chrome.lines, reportLine{tagOK, sandbox})
	} else {
		chrome.lines = append(chrome.lines, reportLine{tagWarn, "Not found"})
	}

	env := reportSection{title: "Environment"}
	env.lines = append(env.lines, reportLine{tagOK, "Platform: " + r.Env.OS + "/" + r.Env.Arch})
	if r.Env.Container {
		env.lines = append(env.lines, reportLine{tagOK, "Container: detected (" + r.Env.ContainerHint + ")"})
	}
	if r.Env.CI {
		env.lines = append(env.lines, reportLine{tagOK, "CI: detected"})
	}

	system := reportSection{title: "System"}
	if r.System.TempWritable {
		system.lines = append(system.lines, reportLine{tagOK, "Temp directory: writable"})
	} else {
		system.lines = append(system.lines, reportLine{tagError, "Temp directory: not writable"})
	}

	sections := []reportSection{themes, chrome, env, system}
	if len(r.Warnings) > 0 {
		sections = append(sections, tagged("Warnings:", tagWarn, r.Warnings))
	}
	if len(r.Errors) > 0 {
		sections = append(sections, tagged("Errors:", tagError, r.Errors))
	}
	return sections
}

func tagged(title, tag string, messages []string) reportSection {
	sec := reportSection{title: title}
	for _, m := range messages {
		sec.lines = append(sec.lines, reportLine{tag, m})
	}
	return sec
}

var statusLines = map[string]string{
	statusReady:    "Status: Ready to convert",
	statusWarnings: "Status: Ready with warnings",
	statusErrors:   "Status: Not ready (see errors above)",
}

// printDoctorResult writes the human-readable report.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2html doctor")
	fmt.Fprintln(w)
	for _, sec := range doctorSections(r) {
		fmt.Fprintln(w, sec.title)
		for _, l := range sec.lines {
			fmt.Fprintf(w, "  %s %s\n", l.tag, l.text)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, statusLines[r.Status])
}
