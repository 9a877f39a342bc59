package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds asset names taken from resource documents.
const maxNameLength = 200

// ValidateAssetName checks that an asset name taken from a resource document
// can be used as a single path element in the output tree.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 200 bytes
//   - No control characters or null bytes
//   - No path separators and no "." or ".." elements
func ValidateAssetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "asset name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "asset name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "asset name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "asset name cannot contain path separators: %q", name)
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidName, "asset name cannot be %q", name)
	}
	return nil
}

// SanitizeAssetName returns a name that passes [ValidateAssetName]. Path
// separators and control characters become underscores, overlong names are
// truncated, and names that cannot be repaired fall back to fallback.
func SanitizeAssetName(name, fallback string) string {
	if ValidateAssetName(name) == nil {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	clean := b.String()
	if len(clean) > maxNameLength {
		clean = clean[:maxNameLength]
	}
	if ValidateAssetName(clean) != nil || strings.Trim(clean, "._") == "" {
		return fallback
	}
	return clean
}

// ValidatePath checks a user-supplied source or output path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
