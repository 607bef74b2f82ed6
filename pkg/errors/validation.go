package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateRange checks that lo <= hi and that both ends are finite.
// name is used in the error message (e.g. "radius").
func ValidateRange(name string, lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return Invalid("%s range must be finite", name)
	}
	if lo > hi {
		return Invalid("%s range min %g is greater than max %g", name, lo, hi)
	}
	return nil
}

// ValidatePositive checks that an integer count is strictly positive.
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return Invalid("%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateSize checks that both canvas dimensions are strictly positive.
func ValidateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return Invalid("canvas size must be positive, got %dx%d", width, height)
	}
	return nil
}

// ValidateUnit checks that lo and hi form a valid range inside [0, 1].
func ValidateUnit(name string, lo, hi float64) error {
	if err := ValidateRange(name, lo, hi); err != nil {
		return err
	}
	if lo < 0 || hi > 1 {
		return Invalid("%s range must lie within [0, 1], got [%g, %g]", name, lo, hi)
	}
	return nil
}

// ValidateOutputPath validates a user supplied output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path names a directory: %s", path)
	}

	return nil
}
