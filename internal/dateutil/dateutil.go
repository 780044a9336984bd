// Package dateutil formats the footer date of generated documents.
package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used by a bare "auto".
const DefaultDateFormat = "YYYY-MM-DD"

// Presets are named shortcuts accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"chinese":  "YYYY[年]M[月]D[日]",
}

// tokenPattern matches bracketed literals and date tokens, longest first.
var tokenPattern = regexp.MustCompile(`\[[^\]]*\]|YYYY|MMMM|MMM|YY|MM|DD|M|D`)

// Format renders t using tokens YYYY, YY, MMMM, MMM, MM, M, DD, D.
// Text in brackets is copied literally; other characters pass through.
func Format(t time.Time, format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if strings.Contains(tokenPattern.ReplaceAllStringFunc(format, func(m string) string {
		if strings.HasPrefix(m, "[") {
			return ""
		}
		return m
	}), "[") {
		return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
	}

	return tokenPattern.ReplaceAllStringFunc(format, func(tok string) string {
		switch tok {
		case "YYYY":
			return strconv.Itoa(t.Year())
		case "YY":
			return fmt.Sprintf("%02d", t.Year()%100)
		case "MMMM":
			return t.Month().String()
		case "MMM":
			return t.Month().String()[:3]
		case "MM":
			return fmt.Sprintf("%02d", int(t.Month()))
		case "M":
			return strconv.Itoa(int(t.Month()))
		case "DD":
			return fmt.Sprintf("%02d", t.Day())
		case "D":
			return strconv.Itoa(t.Day())
		}
		return tok[1 : len(tok)-1]
	}), nil
}

// ResolveDate expands "auto" values and passes anything else through:
//
//	"auto"          current date as YYYY-MM-DD
//	"auto:FORMAT"   current date in FORMAT
//	"auto:preset"   current date using a named preset
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}
	if lower == "auto" {
		return Format(now, DefaultDateFormat)
	}
	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	format := value[len("auto:"):]
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	return Format(now, format)
}
