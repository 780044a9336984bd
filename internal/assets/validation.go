package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects names that could escape the asset directory or
// change the file extension: empty names, separators and dots.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
