// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Both config files and document front matter decode through it.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func checkSize(data []byte, v any) error {
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	return checkSize(data, v)
}

// UnmarshalStrict decodes YAML into v and rejects unknown fields. Empty
// input is an error.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalMeta decodes a front matter block. A blank block leaves v
// untouched, since "---\n---" is a valid empty header.
func UnmarshalMeta(data []byte, v any) error {
	if err := checkSize(data, v); err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: front matter: %w", err)
	}
	return nil
}

