package pipeline

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// imagePattern matches Markdown image syntax ![alt](path).
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// ImageSearchDirs lists the conventional subdirectories searched for a bare
// filename when direct resolution fails.
var ImageSearchDirs = []string{"images", "img", "assets", "static", "media"}

// mimeTypes maps lowercase file extensions to MIME types.
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

const defaultMIMEType = "image/png"

// ImageReference is a single ![alt](path) occurrence.
type ImageReference struct {
	Alt  string
	Path string
}

// IsRemote reports whether the reference points to the network or is
// already inlined. Remote references are never rewritten.
func (r ImageReference) IsRemote() bool {
	return strings.HasPrefix(r.Path, "http://") ||
		strings.HasPrefix(r.Path, "https://") ||
		strings.HasPrefix(r.Path, "data:")
}

// ImageRewriter inlines local image files referenced from Markdown as
// base64 data URIs. Failures are reported to the logger and never abort.
type ImageRewriter struct {
	logger logrus.FieldLogger
}

// NewImageRewriter creates an ImageRewriter reporting to logger.
// A nil logger discards diagnostics.
func NewImageRewriter(logger logrus.FieldLogger) *ImageRewriter {
	if logger == nil {
		logger = discardLogger()
	}
	return &ImageRewriter{logger: logger}
}

// Rewrite replaces every resolvable local image reference with a data URI.
// Returns the rewritten text and the number of images embedded.
func (r *ImageRewriter) Rewrite(markdown, baseDir string) (string, int) {
	count := 0
	out := imagePattern.ReplaceAllStringFunc(markdown, func(match string) string {
		groups := imagePattern.FindStringSubmatch(match)
		ref := ImageReference{Alt: groups[1], Path: groups[2]}
		if ref.IsRemote() {
			return match
		}

		log := r.logger.WithField("image", ref.Path)

		resolved, ok := ResolveImagePath(ref.Path, baseDir)
		if !ok {
			log.Warn("image not found")
			return match
		}

		uri, err := encodeDataURI(resolved)
		if err != nil {
			log.WithField("resolved", resolved).WithError(err).Warn("image not embedded")
			return match
		}

		log.WithField("resolved", resolved).Debug("image embedded")
		count++
		return "![" + ref.Alt + "](" + uri + ")"
	})
	return out, count
}

// RewriteImages inlines images without diagnostics.
func RewriteImages(markdown, baseDir string) (string, int) {
	return NewImageRewriter(nil).Rewrite(markdown, baseDir)
}

// FindImages lists the image references in markdown in source order.
func FindImages(markdown string) []ImageReference {
	matches := imagePattern.FindAllStringSubmatch(markdown, -1)
	refs := make([]ImageReference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, ImageReference{Alt: m[1], Path: m[2]})
	}
	return refs
}

// ResolveImagePath maps a reference path to an existing regular file.
// Candidates are tried in order and the first hit wins:
//
//	path                      (only when absolute)
//	baseDir/path
//	baseDir/basename(path)
//	baseDir/path without leading slash
//	baseDir/{images,img,assets,static,media}/basename(path)
func ResolveImagePath(path, baseDir string) (string, bool) {
	for _, candidate := range imageCandidates(path, baseDir) {
		if isRegularFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// imageCandidates builds the ordered, duplicate-free candidate list.
func imageCandidates(path, baseDir string) []string {
	name := filepath.Base(filepath.FromSlash(path))

	raw := make([]string, 0, 4+len(ImageSearchDirs))
	if filepath.IsAbs(path) {
		raw = append(raw, path)
	}
	raw = append(raw,
		filepath.Join(baseDir, path),
		filepath.Join(baseDir, name),
		filepath.Join(baseDir, strings.TrimLeft(path, "/")),
	)
	for _, dir := range ImageSearchDirs {
		raw = append(raw, filepath.Join(baseDir, dir, name))
	}

	seen := make(map[string]struct{}, len(raw))
	candidates := raw[:0]
	for _, c := range raw {
		c = filepath.Clean(c)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}
	return candidates
}

// MIMEType returns the MIME type for a file name by extension.
func MIMEType(name string) string {
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return defaultMIMEType
}

// encodeDataURI reads the file and returns a data:<mime>;base64 URI.
func encodeDataURI(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path resolved from document references
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	return "data:" + MIMEType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
