package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sahilm/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2html/internal/config"
)

// ErrInvalidEnvValue marks an MD2HTML_* variable that cannot be parsed.
var ErrInvalidEnvValue = errors.New("invalid environment variable")

const envPrefix = "MD2HTML_"

// envConfig holds configuration from environment variables.
// Unset variables leave the zero value, nil for the switches.
type envConfig struct {
	ConfigPath     string // MD2HTML_CONFIG
	Theme          string // MD2HTML_THEME
	EmbedImages    *bool  // MD2HTML_EMBED_IMAGES
	ProcessMermaid *bool  // MD2HTML_PROCESS_MERMAID
	Locale         string // MD2HTML_LOCALE
	Workers        int    // MD2HTML_WORKERS
}

// knownEnvVars lists valid MD2HTML_* environment variables.
var knownEnvVars = map[string]bool{
	"MD2HTML_CONFIG":          true,
	"MD2HTML_THEME":           true,
	"MD2HTML_EMBED_IMAGES":    true,
	"MD2HTML_PROCESS_MERMAID": true,
	"MD2HTML_LOCALE":          true,
	"MD2HTML_WORKERS":         true,
}

// envLookup resolves variables from the process first, then from an
// optional dotenv file.
type envLookup struct {
	env  *Environment
	file map[string]string
}

// newEnvLookup reads path with godotenv when it is not empty.
func newEnvLookup(env *Environment, path string) (*envLookup, error) {
	l := &envLookup{env: env}
	if path == "" {
		return l, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidEnvValue, path, err)
	}
	l.file = vals
	return l, nil
}

func (l *envLookup) get(key string) string {
	if v, ok := l.env.LookupEnv(key); ok {
		return v
	}
	return l.file[key]
}

// names returns every MD2HTML_* name visible from the process or the file.
func (l *envLookup) names() []string {
	seen := map[string]bool{}
	for _, kv := range l.env.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	for name := range l.file {
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// loadEnvConfig reads the MD2HTML_* variables. Malformed switches and
// worker counts are errors rather than silent defaults.
func loadEnvConfig(l *envLookup) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath: l.get("MD2HTML_CONFIG"),
		Theme:      l.get("MD2HTML_THEME"),
		Locale:     l.get("MD2HTML_LOCALE"),
	}

	var err error
	if cfg.EmbedImages, err = parseEnvBool(l, "MD2HTML_EMBED_IMAGES"); err != nil {
		return nil, err
	}
	if cfg.ProcessMermaid, err = parseEnvBool(l, "MD2HTML_PROCESS_MERMAID"); err != nil {
		return nil, err
	}

	if raw := l.get("MD2HTML_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: MD2HTML_WORKERS=%q", ErrInvalidEnvValue, raw)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

func parseEnvBool(l *envLookup, key string) (*bool, error) {
	raw := l.get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, key, raw)
	}
	return &v, nil
}

// warnUnknownEnvVars logs a warning for each unrecognized MD2HTML_*
// variable, with the closest known name when there is one.
func warnUnknownEnvVars(l *envLookup, logger logrus.FieldLogger) {
	known := make([]string, 0, len(knownEnvVars))
	for name := range knownEnvVars {
		known = append(known, name)
	}
	sort.Strings(known)

	for _, name := range l.names() {
		if knownEnvVars[name] {
			continue
		}
		entry := logger.WithField("variable", name)
		if matches := fuzzy.Find(name, known); len(matches) > 0 {
			entry = entry.WithField("suggestion", matches[0].Str)
		}
		entry.Warn("unknown environment variable")
	}
}

// applyEnvConfig overrides cfg with every variable that is set.
// Flags are applied afterwards: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.EmbedImages != nil {
		cfg.EmbedImages = *env.EmbedImages
	}
	if env.ProcessMermaid != nil {
		cfg.ProcessMermaid = *env.ProcessMermaid
	}
	if env.Locale != "" {
		cfg.Locale = env.Locale
	}
	if env.Workers > 0 {
		cfg.Batch.Workers = env.Workers
	}
}
